package models

import "time"

// SharePair is a one-directional grant: the owner makes their whole task list
// visible (and submittable) to the partner. The reverse direction requires a
// separate pair, and grants never chain through intermediate users.
type SharePair struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner_user_id"`
	PartnerID int64     `json:"partner_user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ShareContact is the user-facing view of one side of a share relationship.
type ShareContact struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
