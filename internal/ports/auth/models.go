package auth

import "time"

// CookieName es la cookie donde viaja el token de sesión.
const CookieName = "session"

// Claims representa la información extraída del token.
type Claims struct {
	UserID   string
	Username string
	Role     string // user | admin
	Type     string // owner | vet

	IssuedAt  time.Time
	ExpiresAt time.Time
}
