package pets

import (
	"context"
	"strings"
	"time"

	"petvet/internal/authz"
	"petvet/internal/domain/records"
	"petvet/internal/platform/apperr"

	"github.com/google/uuid"
)

// RecordLister trae los registros de una mascota (visit_date desc).
type RecordLister interface {
	ListByPet(ctx context.Context, petID string) ([]records.VetRecord, error)
}

type Service struct {
	repo    Repository
	records RecordLister
	now     func() time.Time
}

func NewService(repo Repository, recs RecordLister) *Service {
	return &Service{
		repo:    repo,
		records: recs,
		now:     time.Now,
	}
}

// Input sirve para alta y para PUT (reemplazo completo).
type Input struct {
	Name        string
	Species     string
	Breed       string
	BirthDate   *time.Time
	Weight      *float64
	Color       string
	MicrochipID string
	OwnerName   string
	OwnerPhone  string
	OwnerEmail  string
	PhotoURL    string
	Notes       string
}

func (in Input) validate() error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Species) == "" {
		return apperr.Validation("name and species are required")
	}
	if in.Weight != nil && *in.Weight < 0 {
		return apperr.Validation("weight must be >= 0")
	}
	return nil
}

func (in Input) apply(p *Pet) {
	p.Name = strings.TrimSpace(in.Name)
	p.Species = strings.TrimSpace(in.Species)
	p.Breed = strings.TrimSpace(in.Breed)
	p.BirthDate = in.BirthDate
	p.Weight = in.Weight
	p.Color = strings.TrimSpace(in.Color)
	p.MicrochipID = strings.TrimSpace(in.MicrochipID)
	p.OwnerName = strings.TrimSpace(in.OwnerName)
	p.OwnerPhone = strings.TrimSpace(in.OwnerPhone)
	p.OwnerEmail = strings.TrimSpace(in.OwnerEmail)
	p.PhotoURL = strings.TrimSpace(in.PhotoURL)
	p.Notes = strings.TrimSpace(in.Notes)
}

// Detail es la mascota con su historial de visitas.
type Detail struct {
	Pet     Pet
	Records []records.VetRecord
}

func (s *Service) Create(ctx context.Context, id *authz.Identity, in Input) (Pet, error) {
	if err := authz.Authorize(id, authz.ActionPetCreate, authz.Resource{}); err != nil {
		return Pet{}, err
	}
	if err := in.validate(); err != nil {
		return Pet{}, err
	}

	now := s.now().UTC()
	p := Pet{
		ID:        uuid.NewString(),
		OwnerID:   id.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	in.apply(&p)

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

// List: admin ve todas, owner solo las suyas.
func (s *Service) List(ctx context.Context, id *authz.Identity) ([]Pet, error) {
	if err := authz.Authorize(id, authz.ActionPetList, authz.Resource{}); err != nil {
		return nil, err
	}
	if id.IsAdmin() {
		return s.repo.List(ctx)
	}
	return s.repo.ListByOwner(ctx, id.ID)
}

func (s *Service) Get(ctx context.Context, id *authz.Identity, petID string) (Detail, error) {
	p, err := s.load(ctx, id, authz.ActionPetRead, petID)
	if err != nil {
		return Detail{}, err
	}

	d := Detail{Pet: p, Records: []records.VetRecord{}}
	if s.records != nil {
		recs, err := s.records.ListByPet(ctx, p.ID)
		if err != nil {
			return Detail{}, err
		}
		d.Records = recs
	}
	return d, nil
}

func (s *Service) Update(ctx context.Context, id *authz.Identity, petID string, in Input) (Pet, error) {
	p, err := s.load(ctx, id, authz.ActionPetUpdate, petID)
	if err != nil {
		return Pet{}, err
	}
	if err := in.validate(); err != nil {
		return Pet{}, err
	}

	in.apply(&p)
	p.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id *authz.Identity, petID string) error {
	if _, err := s.load(ctx, id, authz.ActionPetDelete, petID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, petID)
}

// load: 401 antes que 404, y 404 antes que 403 (sin filtrar existencia a anónimos).
func (s *Service) load(ctx context.Context, id *authz.Identity, action authz.Action, petID string) (Pet, error) {
	if err := authz.Authorize(id, authz.ActionSession, authz.Resource{}); err != nil {
		return Pet{}, err
	}
	p, err := s.repo.GetByID(ctx, strings.TrimSpace(petID))
	if err != nil {
		return Pet{}, err
	}
	if err := authz.Authorize(id, action, authz.Resource{OwnerID: p.OwnerID}); err != nil {
		return Pet{}, err
	}
	return p, nil
}
