package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"petvet/internal/authz"
	"petvet/internal/platform/httpx"
	"petvet/internal/platform/logger"
	"petvet/internal/ports/auth"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// AuthContext:
// - Busca el token en la cookie de sesión y, si no está, en Authorization: Bearer.
// - Si Verify() falla, el request sigue anónimo; el guard decide 401/403.
// - verifier == nil => nadie queda autenticado.
func AuthContext(verifier auth.AuthVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				next.ServeHTTP(w, r)
				return
			}

			token := sessionToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.Verify(r.Context(), token)
			if err != nil {
				logger.FromContext(r.Context()).Debug("session rejected", map[string]any{"error": err})
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	v := ctx.Value(claimsKey)
	if v == nil {
		return auth.Claims{}, false
	}
	c, ok := v.(auth.Claims)
	return c, ok
}

// Identity convierte las claims del request a la identidad del guard. nil = anónimo.
func Identity(ctx context.Context) *authz.Identity {
	c, ok := GetClaims(ctx)
	if !ok || strings.TrimSpace(c.UserID) == "" {
		return nil
	}
	return &authz.Identity{
		ID:       c.UserID,
		Username: c.Username,
		Role:     authz.Role(c.Role),
		Type:     authz.UserType(c.Type),
	}
}

// WithClaims permite inyectar claims (tests de handlers).
func WithClaims(ctx context.Context, c auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func sessionToken(r *http.Request) string {
	if ck, err := r.Cookie(auth.CookieName); err == nil {
		if v := strings.TrimSpace(ck.Value); v != "" {
			return v
		}
	}
	return bearerToken(r.Header.Get("Authorization"))
}

func bearerToken(authHeader string) string {
	if strings.TrimSpace(authHeader) == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// SessionCookie arma la cookie de sesión (HttpOnly, Lax, Path=/).
func SessionCookie(token string, expiresAt time.Time, secure bool) *http.Cookie {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	return &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearSessionCookie invalida la cookie en el cliente.
func ClearSessionCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// IdentitySource devuelve la identidad vigente de un usuario ya autenticado.
type IdentitySource interface {
	Current(ctx context.Context, userID string) (*authz.Identity, error)
}

// RequireIdentity corta con 401 los requests anónimos y, con source != nil,
// reemplaza rol/tipo del token por los actuales (usuario borrado => 401).
// Las decisiones de rol/tipo/ownership las sigue tomando el guard en cada servicio.
func RequireIdentity(source IdentitySource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := Identity(r.Context())
			if err := authz.Authorize(id, authz.ActionSession, authz.Resource{}); err != nil {
				httpx.WriteError(w, r, err)
				return
			}
			if source == nil {
				next.ServeHTTP(w, r)
				return
			}

			cur, err := source.Current(r.Context(), id.ID)
			if err != nil {
				httpx.WriteError(w, r, err)
				return
			}
			c, _ := GetClaims(r.Context())
			c.Username = cur.Username
			c.Role = string(cur.Role)
			c.Type = string(cur.Type)
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), c)))
		})
	}
}
