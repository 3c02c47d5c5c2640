package session

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"petvet/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	issuer = "petvet"

	// Mínimo para HS256.
	MinSecretLen = 32
)

var (
	ErrTokenEmpty   = errors.New("token is empty")
	ErrInvalidToken = errors.New("invalid session token")
	ErrWeakSecret   = fmt.Errorf("session secret must be at least %d bytes", MinSecretLen)
)

type sessionClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Type     string `json:"type"`
	jwt.RegisteredClaims
}

// Codec firma y verifica el token de sesión (JWT HS256).
// Implementa auth.AuthVerifier y auth.TokenIssuer.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func New(secret []byte, ttl time.Duration) (*Codec, error) {
	if len(secret) < MinSecretLen {
		return nil, ErrWeakSecret
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	cp := make([]byte, len(secret))
	copy(cp, secret)
	return &Codec{secret: cp, ttl: ttl, now: time.Now}, nil
}

// NewRandom genera un secret efímero: las sesiones mueren al reiniciar (modo dev).
func NewRandom(ttl time.Duration) (*Codec, error) {
	secret := make([]byte, 48)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate session secret: %w", err)
	}
	return New(secret, ttl)
}

func (c *Codec) TTL() time.Duration { return c.ttl }

func (c *Codec) Issue(_ context.Context, cl auth.Claims) (string, time.Time, error) {
	if strings.TrimSpace(cl.UserID) == "" {
		return "", time.Time{}, errors.New("session: claims missing user id")
	}

	now := c.now()
	exp := now.Add(c.ttl)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Username: cl.Username,
		Role:     cl.Role,
		Type:     cl.Type,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   cl.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})

	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("session: sign: %w", err)
	}
	return signed, exp, nil
}

func (c *Codec) Verify(_ context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	var sc sessionClaims
	_, err := jwt.ParseWithClaims(token, &sc, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if strings.TrimSpace(sc.Subject) == "" {
		return auth.Claims{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	out := auth.Claims{
		UserID:   sc.Subject,
		Username: sc.Username,
		Role:     sc.Role,
		Type:     sc.Type,
	}
	if sc.IssuedAt != nil {
		out.IssuedAt = sc.IssuedAt.Time
	}
	if sc.ExpiresAt != nil {
		out.ExpiresAt = sc.ExpiresAt.Time
	}
	return out, nil
}
