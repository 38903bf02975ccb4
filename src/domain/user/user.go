package user

import "time"

// User is an identity account that can authenticate against the API. Address
// is the ledger identity used as sender, recipient, creator and admin
// destination throughout the system.
type User struct {
	ID           int
	Address      string
	HashPassword string
	Role         string // admin or member
	Status       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
