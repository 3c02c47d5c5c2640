package users

import (
	"net/http"
	"time"

	"petvet/internal/middleware"
	"petvet/internal/platform/apperr"
	"petvet/internal/platform/httpx"
	"petvet/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

type SessionOptions struct {
	Issuer       auth.TokenIssuer
	CookieSecure bool
}

// RegisterAuthRoutes monta /auth/*: son públicas (me responde 401 sin sesión).
func RegisterAuthRoutes(r chi.Router, svc *Service, opts SessionOptions) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/register", registerHandler(svc))
		ar.Post("/login", loginHandler(svc, opts))
		ar.Post("/logout", logoutHandler(opts))
		ar.Get("/me", meHandler(svc))
	})
}

func RegisterAdminRoutes(r chi.Router, svc *Service) {
	r.Route("/admin/users", func(ur chi.Router) {
		ur.Get("/", listUsersHandler(svc))
		ur.Post("/", createUserHandler(svc))
		ur.Put("/{userID}", updateUserHandler(svc))
		ur.Delete("/{userID}", deleteUserHandler(svc))
	})
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Type     string `json:"type"`
}

type userRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Type     string `json:"type"`
}

// userResponse nunca incluye el hash.
type userResponse struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Role      string     `json:"role"`
	Type      string     `json:"type"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// registerHandler godoc
// @Summary Registrar cuenta
// @Tags auth
// @Accept json
// @Produce json
// @Param body body credentialsRequest true "username, password, type (owner|vet)"
// @Success 201 {object} userResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /auth/register [post]
func registerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		u, err := svc.Register(r.Context(), RegisterInput{
			Username: req.Username,
			Password: req.Password,
			Type:     req.Type,
		})
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, toUserResponse(u))
	}
}

// loginHandler godoc
// @Summary Login
// @Description Setea la cookie "session" (HttpOnly, 7 días).
// @Tags auth
// @Accept json
// @Produce json
// @Param body body credentialsRequest true "username, password"
// @Success 200 {object} userResponse
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func loginHandler(svc *Service, opts SessionOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		u, err := svc.Authenticate(r.Context(), req.Username, req.Password)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		if opts.Issuer == nil {
			httpx.WriteError(w, r, apperr.New(apperr.KindInternal, "session issuer not configured"))
			return
		}
		token, exp, err := opts.Issuer.Issue(r.Context(), auth.Claims{
			UserID:   u.ID,
			Username: u.Username,
			Role:     string(u.Role),
			Type:     string(u.Type),
		})
		if err != nil {
			httpx.WriteError(w, r, apperr.Wrap(apperr.KindInternal, "issue session", err))
			return
		}

		http.SetCookie(w, middleware.SessionCookie(token, exp, opts.CookieSecure))
		httpx.WriteJSON(w, http.StatusOK, toUserResponse(u))
	}
}

func logoutHandler(opts SessionOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, middleware.ClearSessionCookie(opts.CookieSecure))
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
	}
}

func meHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := middleware.Identity(r.Context())
		if id == nil {
			httpx.WriteError(w, r, apperr.Unauthenticated("not authenticated"))
			return
		}
		id, err := svc.Current(r.Context(), id.ID)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, userResponse{
			ID:       id.ID,
			Username: id.Username,
			Role:     string(id.Role),
			Type:     string(id.Type),
		})
	}
}

func listUsersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context(), middleware.Identity(r.Context()))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		out := make([]userResponse, 0, len(items))
		for _, u := range items {
			out = append(out, toUserResponse(u))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func createUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := middleware.Identity(r.Context())
		var req userRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		u, err := svc.Create(r.Context(), id, AdminCreateInput(req))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toUserResponse(u))
	}
}

func updateUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := middleware.Identity(r.Context())
		var req userRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		u, err := svc.Update(r.Context(), id, chi.URLParam(r, "userID"), AdminUpdateInput(req))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toUserResponse(u))
	}
}

func deleteUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), middleware.Identity(r.Context()), chi.URLParam(r, "userID")); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
	}
}

func toUserResponse(u User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Role:      string(u.Role),
		Type:      string(u.Type),
		CreatedAt: &u.CreatedAt,
	}
}
