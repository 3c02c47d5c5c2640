package memory

import (
	"context"
	"sort"
	"strings"

	"petvet/internal/domain/records"
	"petvet/internal/platform/apperr"
)

type recordRepo struct {
	s *Store
}

func cloneRecord(v records.VetRecord) records.VetRecord {
	v.NextVisitDate = cloneTime(v.NextVisitDate)
	return v
}

// CreateAssigned chequea la asignación e inserta bajo el mismo lock.
func (r *recordRepo) CreateAssigned(ctx context.Context, v records.VetRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(v.ID) == "" {
		return apperr.Validation("record id required")
	}
	if _, exists := r.s.records[v.ID]; exists {
		return apperr.Conflict("record already exists")
	}
	if _, ok := r.s.users[v.VetID]; !ok {
		return apperr.NotFound("vet not found")
	}
	if !r.s.assignedLocked(v.VetID, v.PetID) {
		return apperr.Forbidden("pet is not assigned to this vet")
	}
	r.s.records[v.ID] = cloneRecord(v)
	return nil
}

func (r *recordRepo) GetByID(ctx context.Context, id string) (records.VetRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	v, ok := r.s.records[id]
	if !ok {
		return records.VetRecord{}, apperr.NotFound("record not found")
	}
	return cloneRecord(v), nil
}

func (r *recordRepo) GetView(ctx context.Context, id string) (records.View, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	v, ok := r.s.records[id]
	if !ok {
		return records.View{}, apperr.NotFound("record not found")
	}
	return r.viewLocked(v), nil
}

func (r *recordRepo) viewLocked(v records.VetRecord) records.View {
	out := records.View{VetRecord: cloneRecord(v)}
	if p, ok := r.s.pets[v.PetID]; ok {
		out.PetName = p.Name
		out.Species = p.Species
		out.OwnerUsername = r.s.users[p.OwnerID].Username
	}
	return out
}

func (r *recordRepo) ListByPet(ctx context.Context, petID string) ([]records.VetRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]records.VetRecord, 0)
	for _, v := range r.s.records {
		if v.PetID == petID {
			out = append(out, cloneRecord(v))
		}
	}
	byVisitDesc(out, func(v records.VetRecord) records.VetRecord { return v })
	return out, nil
}

func (r *recordRepo) ListByVet(ctx context.Context, vetID string, f records.Filter) ([]records.View, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]records.View, 0)
	for _, v := range r.s.records {
		if v.VetID != vetID {
			continue
		}
		if f.PetID != "" && v.PetID != f.PetID {
			continue
		}
		if f.DateFrom != nil && dayBefore(v.VisitDate, *f.DateFrom) {
			continue
		}
		if f.DateTo != nil && dayBefore(*f.DateTo, v.VisitDate) {
			continue
		}
		out = append(out, r.viewLocked(v))
	}
	byVisitDesc(out, func(v records.View) records.VetRecord { return v.VetRecord })
	return out, nil
}

func (r *recordRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.records[id]; !ok {
		return apperr.NotFound("record not found")
	}
	delete(r.s.records, id)
	return nil
}

// visit_date desc, created_at desc, id desc.
func byVisitDesc[T any](items []T, rec func(T) records.VetRecord) {
	sort.Slice(items, func(i, j int) bool {
		a, b := rec(items[i]), rec(items[j])
		if !a.VisitDate.Equal(b.VisitDate) {
			return a.VisitDate.After(b.VisitDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}
