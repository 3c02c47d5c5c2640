package memory

import (
	"context"
	"strings"
	"time"

	"petvet/internal/domain/offices"
	"petvet/internal/platform/apperr"
)

type officeRepo struct {
	s *Store
}

func (r *officeRepo) CreatePartnered(ctx context.Context, o offices.PartneredOffice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(o.ID) == "" {
		return apperr.Validation("office id required")
	}
	if _, exists := r.s.offices[o.ID]; exists {
		return apperr.Conflict("office already exists")
	}
	r.s.offices[o.ID] = o
	return nil
}

func (r *officeRepo) GetPartnered(ctx context.Context, id string) (offices.PartneredOffice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	o, ok := r.s.offices[id]
	if !ok {
		return offices.PartneredOffice{}, apperr.NotFound("office not found")
	}
	return o, nil
}

func (r *officeRepo) ListPartnered(ctx context.Context) ([]offices.PartneredOffice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]offices.PartneredOffice, 0, len(r.s.offices))
	for _, o := range r.s.offices {
		out = append(out, o)
	}
	newestFirst(out,
		func(o offices.PartneredOffice) time.Time { return o.CreatedAt },
		func(o offices.PartneredOffice) string { return o.ID },
	)
	return out, nil
}

func (r *officeRepo) UpdatePartnered(ctx context.Context, o offices.PartneredOffice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.offices[o.ID]
	if !ok {
		return apperr.NotFound("office not found")
	}
	o.CreatedAt = cur.CreatedAt
	r.s.offices[o.ID] = o
	return nil
}

func (r *officeRepo) DeletePartnered(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.offices[id]; !ok {
		return apperr.NotFound("office not found")
	}
	r.s.deleteOfficeLocked(id)
	return nil
}

func (r *officeRepo) AddLink(ctx context.Context, l offices.Link) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	byID, ok := r.s.links[l.Kind]
	if !ok {
		return apperr.Validation("unknown link kind")
	}
	if strings.TrimSpace(l.ID) == "" {
		return apperr.Validation("link id required")
	}
	if _, ok := r.s.users[l.UserID]; !ok {
		return apperr.NotFound("user not found")
	}
	if _, ok := r.s.offices[l.OfficeID]; !ok {
		return apperr.NotFound("office not found")
	}
	if _, exists := byID[l.ID]; exists || linkedLocked(byID, l.UserID, l.OfficeID) {
		return apperr.Conflict("link already exists")
	}
	byID[l.ID] = l
	return nil
}

func linkedLocked(byID map[string]offices.Link, userID, officeID string) bool {
	for _, l := range byID {
		if l.UserID == userID && l.OfficeID == officeID {
			return true
		}
	}
	return false
}

func (r *officeRepo) LinkExists(ctx context.Context, kind offices.LinkKind, userID, officeID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return linkedLocked(r.s.links[kind], userID, officeID), nil
}

func (r *officeRepo) GetLink(ctx context.Context, kind offices.LinkKind, id string) (offices.Link, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	l, ok := r.s.links[kind][id]
	if !ok {
		return offices.Link{}, apperr.NotFound("link not found")
	}
	return l, nil
}

func (r *officeRepo) ListLinks(ctx context.Context, kind offices.LinkKind, userID string) ([]offices.LinkView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]offices.LinkView, 0)
	for _, l := range r.s.links[kind] {
		if l.UserID != userID {
			continue
		}
		o := r.s.offices[l.OfficeID]
		out = append(out, offices.LinkView{
			Link:       l,
			Name:       o.Name,
			Address:    o.Address,
			DetailLink: o.DetailLink,
		})
	}
	newestFirst(out,
		func(v offices.LinkView) time.Time { return v.CreatedAt },
		func(v offices.LinkView) string { return v.ID },
	)
	return out, nil
}

func (r *officeRepo) DeleteLink(ctx context.Context, kind offices.LinkKind, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	byID := r.s.links[kind]
	if _, ok := byID[id]; !ok {
		return apperr.NotFound("link not found")
	}
	delete(byID, id)
	return nil
}
