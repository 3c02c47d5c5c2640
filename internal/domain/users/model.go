package users

import (
	"time"

	"petvet/internal/authz"
)

// User es una cuenta. Role (user/admin) y Type (owner/vet) son ejes independientes.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         authz.Role
	Type         authz.UserType
	CreatedAt    time.Time
}

func (u User) Identity() *authz.Identity {
	return &authz.Identity{ID: u.ID, Username: u.Username, Role: u.Role, Type: u.Type}
}
