package repositories

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"habitboard/internal/models"
)

type ShareRepository interface {
	// Create inserts the pair; duplicates surface as ErrDuplicatePair so the
	// caller can treat re-sharing as a no-op even under concurrent requests.
	Create(ctx context.Context, ownerID, partnerID int64) error
	Exists(ctx context.Context, ownerID, partnerID int64) (bool, error)

	// VisibleOwnerIDs returns the user itself plus every owner who shared
	// their list with the user. Never transitive.
	VisibleOwnerIDs(ctx context.Context, userID int64) ([]int64, error)

	ListViewers(ctx context.Context, ownerID int64) ([]models.ShareContact, error)
	ListOwners(ctx context.Context, partnerID int64) ([]models.ShareContact, error)
}

// ErrDuplicatePair reports that the (owner, partner) grant already exists.
var ErrDuplicatePair = errDuplicatePair{}

type errDuplicatePair struct{}

func (errDuplicatePair) Error() string { return "share pair already exists" }

type shareRepository struct {
	db *sql.DB
}

func NewShareRepository(db *sql.DB) ShareRepository {
	return &shareRepository{db: db}
}

func (r *shareRepository) Create(ctx context.Context, ownerID, partnerID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO share_pairs (owner_user_id, partner_user_id) VALUES ($1,$2)`,
		ownerID, partnerID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrDuplicatePair
		}
		return err
	}
	return nil
}

func (r *shareRepository) Exists(ctx context.Context, ownerID, partnerID int64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM share_pairs WHERE owner_user_id=$1 AND partner_user_id=$2`,
		ownerID, partnerID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *shareRepository) VisibleOwnerIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT owner_user_id FROM share_pairs WHERE partner_user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	owners := []int64{userID}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		owners = append(owners, id)
	}
	return owners, rows.Err()
}

func (r *shareRepository) ListViewers(ctx context.Context, ownerID int64) ([]models.ShareContact, error) {
	return r.listContacts(ctx, `
		SELECT u.id, u.username, u.email FROM share_pairs sp
		JOIN users u ON u.id = sp.partner_user_id
		WHERE sp.owner_user_id = $1 ORDER BY u.username`, ownerID)
}

func (r *shareRepository) ListOwners(ctx context.Context, partnerID int64) ([]models.ShareContact, error) {
	return r.listContacts(ctx, `
		SELECT u.id, u.username, u.email FROM share_pairs sp
		JOIN users u ON u.id = sp.owner_user_id
		WHERE sp.partner_user_id = $1 ORDER BY u.username`, partnerID)
}

func (r *shareRepository) listContacts(ctx context.Context, query string, id int64) ([]models.ShareContact, error) {
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ShareContact
	for rows.Next() {
		var c models.ShareContact
		if err := rows.Scan(&c.UserID, &c.Username, &c.Email); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
