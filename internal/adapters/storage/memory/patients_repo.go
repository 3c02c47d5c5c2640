package memory

import (
	"context"
	"sort"
	"strings"

	"petvet/internal/domain/patients"
	"petvet/internal/platform/apperr"
)

type patientRepo struct {
	s *Store
}

func (r *patientRepo) Create(ctx context.Context, a patients.Assignment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return apperr.Validation("assignment id required")
	}
	if _, ok := r.s.users[a.VetID]; !ok {
		return apperr.NotFound("vet not found")
	}
	if _, ok := r.s.pets[a.PetID]; !ok {
		return apperr.NotFound("pet not found")
	}
	if _, exists := r.s.patients[a.ID]; exists || r.s.assignedLocked(a.VetID, a.PetID) {
		return apperr.Conflict("pet already assigned to this vet")
	}
	r.s.patients[a.ID] = a
	return nil
}

func (r *patientRepo) GetByID(ctx context.Context, id string) (patients.Assignment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.patients[id]
	if !ok {
		return patients.Assignment{}, apperr.NotFound("assignment not found")
	}
	return a, nil
}

func (r *patientRepo) GetView(ctx context.Context, id string) (patients.View, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.patients[id]
	if !ok {
		return patients.View{}, apperr.NotFound("assignment not found")
	}
	return r.viewLocked(a), nil
}

func (r *patientRepo) viewLocked(a patients.Assignment) patients.View {
	out := patients.View{Assignment: a}
	if p, ok := r.s.pets[a.PetID]; ok {
		out.Pet = clonePet(p)
		out.OwnerUsername = r.s.users[p.OwnerID].Username
	}
	return out
}

func (r *patientRepo) ListByVet(ctx context.Context, vetID string, f patients.Filter) ([]patients.View, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]patients.View, 0)
	for _, a := range r.s.patients {
		if a.VetID != vetID {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		v := r.viewLocked(a)
		if f.Species != "" && v.Pet.Species != f.Species {
			continue
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Assignment, out[j].Assignment
		if !a.AssignedDate.Equal(b.AssignedDate) {
			return a.AssignedDate.After(b.AssignedDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return out, nil
}

func (r *patientRepo) Exists(ctx context.Context, vetID, petID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.assignedLocked(vetID, petID), nil
}

// Update solo toca status y notes; vet y mascota no cambian.
func (r *patientRepo) Update(ctx context.Context, a patients.Assignment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.patients[a.ID]
	if !ok {
		return apperr.NotFound("assignment not found")
	}
	cur.Status = a.Status
	cur.Notes = a.Notes
	r.s.patients[a.ID] = cur
	return nil
}

func (r *patientRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.patients[id]; !ok {
		return apperr.NotFound("assignment not found")
	}
	delete(r.s.patients, id)
	return nil
}
