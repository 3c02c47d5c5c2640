package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"petvet/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestCodec(t *testing.T, now time.Time) *Codec {
	t.Helper()
	c, err := New(testSecret, time.Hour)
	require.NoError(t, err)
	c.now = func() time.Time { return now }
	return c
}

func TestCodec_RoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := newTestCodec(t, now)

	tok, exp, err := c.Issue(context.Background(), auth.Claims{
		UserID: "u-1", Username: "ana", Role: "user", Type: "vet",
	})
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), exp)

	got, err := c.Verify(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.UserID)
	assert.Equal(t, "ana", got.Username)
	assert.Equal(t, "vet", got.Type)
	assert.Equal(t, exp, got.ExpiresAt.UTC())
}

func TestCodec_RejectsTampering(t *testing.T) {
	c := newTestCodec(t, time.Now())
	tok, _, err := c.Issue(context.Background(), auth.Claims{UserID: "u-1", Role: "user"})
	require.NoError(t, err)

	// Otro secret: misma forma, firma distinta.
	other, err := New([]byte(strings.Repeat("z", 32)), time.Hour)
	require.NoError(t, err)
	forged, _, err := other.Issue(context.Background(), auth.Claims{UserID: "u-1", Role: "admin"})
	require.NoError(t, err)

	_, err = c.Verify(context.Background(), forged)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	_, err = c.Verify(context.Background(), parts[0]+"."+parts[1]+".AAAA")
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestCodec_RejectsExpired(t *testing.T) {
	now := time.Now()
	c := newTestCodec(t, now)
	tok, _, err := c.Issue(context.Background(), auth.Claims{UserID: "u-1"})
	require.NoError(t, err)

	c.now = func() time.Time { return now.Add(2 * time.Hour) }
	_, err = c.Verify(context.Background(), tok)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestCodec_RejectsNoneAlgorithm(t *testing.T) {
	c := newTestCodec(t, time.Now())
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "u-1",
		Issuer:    issuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	s, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = c.Verify(context.Background(), s)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestCodec_Misc(t *testing.T) {
	_, err := New([]byte("short"), time.Hour)
	assert.ErrorIs(t, err, ErrWeakSecret)

	c := newTestCodec(t, time.Now())
	_, err = c.Verify(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrTokenEmpty)

	_, _, err = c.Issue(context.Background(), auth.Claims{})
	assert.Error(t, err)

	r, err := NewRandom(0)
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, r.TTL())
}
