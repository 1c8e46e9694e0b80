package users

import "time"

// Account roles. Admins are provisioned out of band, never via Register.
const (
	RoleDonor     = "donor"
	RoleRecipient = "recipient"
	RoleAdmin     = "admin"
)

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}
