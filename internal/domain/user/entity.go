package user

import "time"

// User represents a user entity in the system.
type User struct {
	ID           string    // ID is the system-assigned unique identifier
	Name         string    // Name is the display name of the user
	Email        string    // Email is unique across users, enforced by the usecase layer
	PasswordHash string    // PasswordHash is the one-way hash of the credential; never exposed
	CreatedAt    time.Time // CreatedAt is set by the store on insert
	UpdatedAt    time.Time // UpdatedAt is refreshed by the store on every write
}
