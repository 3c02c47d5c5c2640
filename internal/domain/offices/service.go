package offices

import (
	"context"
	"strings"
	"time"

	"petvet/internal/authz"
	"petvet/internal/platform/apperr"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// ---- Clínicas partner (admin) ----

type PartneredInput struct {
	Name       string
	Address    string
	DetailLink string
	ExternalID string
}

func (in PartneredInput) validate() error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Address) == "" {
		return apperr.Validation("name and address are required")
	}
	return nil
}

func (s *Service) ListPartnered(ctx context.Context, id *authz.Identity) ([]PartneredOffice, error) {
	if err := authz.Authorize(id, authz.ActionOfficeManage, authz.Resource{}); err != nil {
		return nil, err
	}
	return s.repo.ListPartnered(ctx)
}

// AllPartnered es la lectura interna que usa el directorio (sin guard: no expone nada al caller).
func (s *Service) AllPartnered(ctx context.Context) ([]PartneredOffice, error) {
	return s.repo.ListPartnered(ctx)
}

func (s *Service) CreatePartnered(ctx context.Context, id *authz.Identity, in PartneredInput) (PartneredOffice, error) {
	if err := authz.Authorize(id, authz.ActionOfficeManage, authz.Resource{}); err != nil {
		return PartneredOffice{}, err
	}
	if err := in.validate(); err != nil {
		return PartneredOffice{}, err
	}

	o := PartneredOffice{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(in.Name),
		Address:    strings.TrimSpace(in.Address),
		DetailLink: strings.TrimSpace(in.DetailLink),
		ExternalID: strings.TrimSpace(in.ExternalID),
		CreatedAt:  s.now().UTC(),
	}
	if err := s.repo.CreatePartnered(ctx, o); err != nil {
		return PartneredOffice{}, err
	}
	return o, nil
}

func (s *Service) UpdatePartnered(ctx context.Context, id *authz.Identity, officeID string, in PartneredInput) (PartneredOffice, error) {
	if err := authz.Authorize(id, authz.ActionOfficeManage, authz.Resource{}); err != nil {
		return PartneredOffice{}, err
	}
	if err := in.validate(); err != nil {
		return PartneredOffice{}, err
	}

	o, err := s.repo.GetPartnered(ctx, officeID)
	if err != nil {
		return PartneredOffice{}, err
	}
	o.Name = strings.TrimSpace(in.Name)
	o.Address = strings.TrimSpace(in.Address)
	o.DetailLink = strings.TrimSpace(in.DetailLink)
	o.ExternalID = strings.TrimSpace(in.ExternalID)

	if err := s.repo.UpdatePartnered(ctx, o); err != nil {
		return PartneredOffice{}, err
	}
	return o, nil
}

func (s *Service) DeletePartnered(ctx context.Context, id *authz.Identity, officeID string) error {
	if err := authz.Authorize(id, authz.ActionOfficeManage, authz.Resource{}); err != nil {
		return err
	}
	return s.repo.DeletePartnered(ctx, officeID)
}

// ---- Vínculos (owner guarda / vet se une) ----

func linkAction(kind LinkKind) authz.Action {
	if kind == LinkMember {
		return authz.ActionMembershipManage
	}
	return authz.ActionPreferredManage
}

// linkResource pone el dueño del vínculo en el campo que mira el guard.
func linkResource(kind LinkKind, userID string) authz.Resource {
	if kind == LinkMember {
		return authz.Resource{VetID: userID}
	}
	return authz.Resource{OwnerID: userID}
}

func duplicateLink(kind LinkKind) error {
	if kind == LinkMember {
		return apperr.Conflict("already a member").WithCode("already_member")
	}
	return apperr.Conflict("already added").WithCode("already_added")
}

func (s *Service) ListLinks(ctx context.Context, id *authz.Identity, kind LinkKind) ([]LinkView, error) {
	if err := authz.Authorize(id, linkAction(kind), authz.Resource{}); err != nil {
		return nil, err
	}
	return s.repo.ListLinks(ctx, kind, id.ID)
}

// AddLink vincula por id de clínica partner.
func (s *Service) AddLink(ctx context.Context, id *authz.Identity, kind LinkKind, officeID string) (Link, error) {
	if err := authz.Authorize(id, linkAction(kind), authz.Resource{}); err != nil {
		return Link{}, err
	}
	officeID = strings.TrimSpace(officeID)
	if officeID == "" {
		return Link{}, apperr.Validation("vet_office_id is required")
	}
	if _, err := s.repo.GetPartnered(ctx, officeID); err != nil {
		return Link{}, err
	}
	return s.insertLink(ctx, id, kind, officeID)
}

// Claim resuelve un listado del directorio (name+address) a una clínica partner
// con el mismo match exacto que usa la búsqueda, y la vincula.
func (s *Service) Claim(ctx context.Context, id *authz.Identity, kind LinkKind, name, address string) (Link, error) {
	if err := authz.Authorize(id, linkAction(kind), authz.Resource{}); err != nil {
		return Link{}, err
	}
	if strings.TrimSpace(name) == "" || strings.TrimSpace(address) == "" {
		return Link{}, apperr.Validation("name and address are required")
	}

	list, err := s.repo.ListPartnered(ctx)
	if err != nil {
		return Link{}, err
	}
	o, ok := NewMatcher(list).Match(name, address)
	if !ok {
		return Link{}, apperr.NotFound("could not locate office").WithCode("office_not_found")
	}
	return s.insertLink(ctx, id, kind, o.ID)
}

func (s *Service) RemoveLink(ctx context.Context, id *authz.Identity, kind LinkKind, linkID string) error {
	if err := authz.Authorize(id, linkAction(kind), authz.Resource{}); err != nil {
		return err
	}
	linkID = strings.TrimSpace(linkID)
	if linkID == "" {
		return apperr.Validation("id is required")
	}

	l, err := s.repo.GetLink(ctx, kind, linkID)
	if err != nil {
		return err
	}
	if err := authz.Authorize(id, linkAction(kind), linkResource(kind, l.UserID)); err != nil {
		return err
	}
	return s.repo.DeleteLink(ctx, kind, linkID)
}

// insertLink: chequeo previo + constraint único como respaldo ante carreras.
func (s *Service) insertLink(ctx context.Context, id *authz.Identity, kind LinkKind, officeID string) (Link, error) {
	exists, err := s.repo.LinkExists(ctx, kind, id.ID, officeID)
	if err != nil {
		return Link{}, err
	}
	if exists {
		return Link{}, duplicateLink(kind)
	}

	l := Link{
		ID:        uuid.NewString(),
		Kind:      kind,
		UserID:    id.ID,
		OfficeID:  officeID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.AddLink(ctx, l); err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			return Link{}, duplicateLink(kind)
		}
		return Link{}, err
	}
	return l, nil
}
