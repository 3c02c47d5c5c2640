package memory

import (
	"context"
	"strings"
	"time"

	"petvet/internal/domain/pets"
	"petvet/internal/platform/apperr"
)

type petRepo struct {
	s *Store
}

func clonePet(p pets.Pet) pets.Pet {
	p.BirthDate = cloneTime(p.BirthDate)
	p.Weight = cloneFloat(p.Weight)
	return p
}

func (r *petRepo) Create(ctx context.Context, p pets.Pet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return apperr.Validation("pet id required")
	}
	if _, exists := r.s.pets[p.ID]; exists {
		return apperr.Conflict("pet already exists")
	}
	if _, ok := r.s.users[p.OwnerID]; !ok {
		return apperr.NotFound("owner not found")
	}
	r.s.pets[p.ID] = clonePet(p)
	return nil
}

func (r *petRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.pets[id]
	if !ok {
		return pets.Pet{}, apperr.NotFound("pet not found")
	}
	return clonePet(p), nil
}

func (r *petRepo) List(ctx context.Context) ([]pets.Pet, error) {
	return r.list(func(pets.Pet) bool { return true }), nil
}

func (r *petRepo) ListByOwner(ctx context.Context, ownerID string) ([]pets.Pet, error) {
	return r.list(func(p pets.Pet) bool { return p.OwnerID == ownerID }), nil
}

func (r *petRepo) list(keep func(pets.Pet) bool) []pets.Pet {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]pets.Pet, 0)
	for _, p := range r.s.pets {
		if keep(p) {
			out = append(out, clonePet(p))
		}
	}
	newestFirst(out, func(p pets.Pet) time.Time { return p.CreatedAt }, func(p pets.Pet) string { return p.ID })
	return out
}

func (r *petRepo) Update(ctx context.Context, p pets.Pet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.pets[p.ID]; !ok {
		return apperr.NotFound("pet not found")
	}
	r.s.pets[p.ID] = clonePet(p)
	return nil
}

func (r *petRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.pets[id]; !ok {
		return apperr.NotFound("pet not found")
	}
	r.s.deletePetLocked(id)
	return nil
}
