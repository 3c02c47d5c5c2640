package memory

import (
	"context"
	"strings"
	"time"

	"petvet/internal/domain/users"
	"petvet/internal/platform/apperr"
)

type userRepo struct {
	s *Store
}

func (r *userRepo) Create(ctx context.Context, u users.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(u.ID) == "" {
		return apperr.Validation("user id required")
	}
	if _, exists := r.s.users[u.ID]; exists {
		return apperr.Conflict("user already exists")
	}
	if r.usernameTakenLocked(u.Username, "") {
		return apperr.Conflict("username already exists")
	}
	r.s.users[u.ID] = u
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return users.User{}, apperr.NotFound("user not found")
	}
	return u, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (users.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return users.User{}, apperr.NotFound("user not found")
}

func (r *userRepo) List(ctx context.Context) ([]users.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]users.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, u)
	}
	newestFirst(out, func(u users.User) time.Time { return u.CreatedAt }, func(u users.User) string { return u.ID })
	return out, nil
}

func (r *userRepo) Update(ctx context.Context, u users.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[u.ID]; !ok {
		return apperr.NotFound("user not found")
	}
	if r.usernameTakenLocked(u.Username, u.ID) {
		return apperr.Conflict("username already exists")
	}
	r.s.users[u.ID] = u
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return apperr.NotFound("user not found")
	}
	r.s.deleteUserLocked(id)
	return nil
}

// Igual que el UNIQUE de Postgres: comparación exacta.
func (r *userRepo) usernameTakenLocked(username, exceptID string) bool {
	for id, u := range r.s.users {
		if id != exceptID && u.Username == username {
			return true
		}
	}
	return false
}
