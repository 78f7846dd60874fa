package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"habitboard/internal/models"
	"habitboard/internal/repositories"
)

// ShareService manages the one-directional whole-list grants.
type ShareService interface {
	// Share grants the partner (resolved by email or username) visibility
	// over all of the owner's tasks. Idempotent: re-sharing is a no-op.
	Share(ctx context.Context, ownerID int64, partnerIdentifier string) error

	// ShareOwnedTask is Share with an ownership check against a concrete
	// task id; the grant itself still covers the whole list.
	ShareOwnedTask(ctx context.Context, ownerID, taskID int64, partnerIdentifier string) error

	ListContacts(ctx context.Context, userID int64) (viewers, owners []models.ShareContact, err error)
}

type shareService struct {
	repo     repositories.ShareRepository
	tasks    repositories.TaskRepository
	users    UserService
	email    EmailService
	telegram *TelegramService
}

func NewShareService(repo repositories.ShareRepository, tasks repositories.TaskRepository, users UserService, email EmailService, telegram *TelegramService) ShareService {
	return &shareService{repo: repo, tasks: tasks, users: users, email: email, telegram: telegram}
}

func (s *shareService) Share(ctx context.Context, ownerID int64, partnerIdentifier string) error {
	partner, err := s.users.ResolveByIdentifier(ctx, partnerIdentifier)
	if err != nil {
		return err
	}
	if partner.ID == ownerID {
		return fmt.Errorf("%w: cannot share with yourself", ErrValidation)
	}

	if err := s.repo.Create(ctx, ownerID, partner.ID); err != nil {
		if errors.Is(err, repositories.ErrDuplicatePair) {
			// already shared; concurrent duplicates land here too
			log.Printf("[share][create] pair owner=%d partner=%d already exists", ownerID, partner.ID)
			return nil
		}
		return err
	}

	s.notifyPartner(ctx, ownerID, partner)
	return nil
}

func (s *shareService) ShareOwnedTask(ctx context.Context, ownerID, taskID int64, partnerIdentifier string) error {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return err
	}
	if task == nil {
		return fmt.Errorf("%w: task %d", ErrNotFound, taskID)
	}
	if task.OwnerID != ownerID {
		return fmt.Errorf("%w: only the owner can share a task", ErrForbidden)
	}
	return s.Share(ctx, ownerID, partnerIdentifier)
}

func (s *shareService) ListContacts(ctx context.Context, userID int64) ([]models.ShareContact, []models.ShareContact, error) {
	viewers, err := s.repo.ListViewers(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	owners, err := s.repo.ListOwners(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return viewers, owners, nil
}

// notifyPartner is best effort; a failed notification never fails the share.
func (s *shareService) notifyPartner(ctx context.Context, ownerID int64, partner *models.User) {
	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil || owner == nil {
		log.Printf("[share][notify] lookup owner=%d failed: %v", ownerID, err)
		return
	}
	if s.email != nil {
		if err := s.email.SendShareNotification(partner.Email, owner.Username); err != nil {
			log.Printf("[share][notify] email to %s failed: %v", partner.Email, err)
		}
	}
	if s.telegram != nil && partner.TelegramChatID != nil {
		msg := fmt.Sprintf("🤝 %s shared their task list with you.", owner.Username)
		if err := s.telegram.SendMessage(*partner.TelegramChatID, msg); err != nil {
			log.Printf("[share][notify] telegram to chat=%d failed: %v", *partner.TelegramChatID, err)
		}
	}
}
