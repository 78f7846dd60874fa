package services

import (
	"context"
	"errors"
	"testing"
)

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name                      string
		username, email, password string
	}{
		{"empty username", "", "a@example.com", "pass"},
		{"empty email", "alice", "", "pass"},
		{"bad email", "alice", "not-an-email", "pass"},
		{"empty password", "alice", "a@example.com", "  "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.userSvc.Register(ctx, tc.username, tc.email, tc.password); !errors.Is(err, ErrValidation) {
				t.Fatalf("want ErrValidation, got %v", err)
			}
		})
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	f := newFixture(t)
	user, err := f.userSvc.Register(context.Background(), "alice", "alice@example.com", "s3cure")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID == 0 {
		t.Error("user was not stored")
	}
	if user.PasswordHash == "s3cure" || user.PasswordHash == "" {
		t.Errorf("password not hashed: %q", user.PasswordHash)
	}
}

func TestRegisterDuplicateConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.userSvc.Register(ctx, "alice", "alice@example.com", "pass"); err != nil {
		t.Fatalf("first register: %v", err)
	}

	if _, err := f.userSvc.Register(ctx, "alice", "other@example.com", "pass"); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate username: want ErrConflict, got %v", err)
	}
	if _, err := f.userSvc.Register(ctx, "alice2", "ALICE@example.com", "pass"); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate email, different case: want ErrConflict, got %v", err)
	}
}

func TestResolveByIdentifier(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.addUser(t, "alice", "alice@example.com")

	got, err := f.userSvc.ResolveByIdentifier(ctx, "alice@example.com")
	if err != nil || got.ID != alice.ID {
		t.Errorf("by email: got %v, %v", got, err)
	}
	got, err = f.userSvc.ResolveByIdentifier(ctx, "alice")
	if err != nil || got.ID != alice.ID {
		t.Errorf("by username: got %v, %v", got, err)
	}
	if _, err := f.userSvc.ResolveByIdentifier(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown: want ErrNotFound, got %v", err)
	}
	if _, err := f.userSvc.ResolveByIdentifier(ctx, "  "); !errors.Is(err, ErrValidation) {
		t.Errorf("blank: want ErrValidation, got %v", err)
	}
}

func TestLinkAndUnlinkTelegramChat(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.addUser(t, "alice", "alice@example.com")

	chatID := int64(123456)
	if err := f.userSvc.LinkTelegramChat(ctx, alice.ID, &chatID); err != nil {
		t.Fatalf("link: %v", err)
	}
	got, _ := f.userSvc.GetByID(ctx, alice.ID)
	if got.TelegramChatID == nil || *got.TelegramChatID != chatID {
		t.Errorf("chat id = %v, want %d", got.TelegramChatID, chatID)
	}

	if err := f.userSvc.LinkTelegramChat(ctx, alice.ID, nil); err != nil {
		t.Fatalf("unlink: %v", err)
	}
	got, _ = f.userSvc.GetByID(ctx, alice.ID)
	if got.TelegramChatID != nil {
		t.Errorf("chat id = %v after unlink, want nil", got.TelegramChatID)
	}
}
