package patients

import (
	"context"
	"strings"
	"time"

	"petvet/internal/authz"
	"petvet/internal/domain/pets"
	"petvet/internal/platform/apperr"

	"github.com/google/uuid"
)

// PetLookup: solo se necesita saber que la mascota existe.
type PetLookup interface {
	GetByID(ctx context.Context, id string) (pets.Pet, error)
}

type Service struct {
	repo Repository
	pets PetLookup
	now  func() time.Time
}

func NewService(repo Repository, petLookup PetLookup) *Service {
	return &Service{
		repo: repo,
		pets: petLookup,
		now:  time.Now,
	}
}

func (s *Service) List(ctx context.Context, id *authz.Identity, f Filter) ([]View, error) {
	if err := authz.Authorize(id, authz.ActionPatientList, authz.Resource{}); err != nil {
		return nil, err
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperr.Validation("invalid status")
	}
	f.Species = strings.TrimSpace(f.Species)
	return s.repo.ListByVet(ctx, id.ID, f)
}

type AssignInput struct {
	PetID  string
	Status string // default active
	Notes  string
}

func (s *Service) Assign(ctx context.Context, id *authz.Identity, in AssignInput) (View, error) {
	if err := authz.Authorize(id, authz.ActionPatientAssign, authz.Resource{}); err != nil {
		return View{}, err
	}

	petID := strings.TrimSpace(in.PetID)
	if petID == "" {
		return View{}, apperr.Validation("pet_id is required")
	}
	status := Status(strings.TrimSpace(in.Status))
	if status == "" {
		status = StatusActive
	}
	if !status.Valid() {
		return View{}, apperr.Validation("invalid status")
	}

	if _, err := s.pets.GetByID(ctx, petID); err != nil {
		return View{}, err
	}

	now := s.now().UTC()
	a := Assignment{
		ID:           uuid.NewString(),
		VetID:        id.ID,
		PetID:        petID,
		AssignedDate: now.Truncate(24 * time.Hour),
		Status:       status,
		Notes:        strings.TrimSpace(in.Notes),
		CreatedAt:    now,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			return View{}, apperr.Conflict("pet is already assigned to this vet").WithCode("already_assigned")
		}
		return View{}, err
	}
	return s.repo.GetView(ctx, a.ID)
}

// UpdateInput: nil = no tocar.
type UpdateInput struct {
	Status *string
	Notes  *string
}

func (s *Service) Update(ctx context.Context, id *authz.Identity, assignmentID string, in UpdateInput) (View, error) {
	a, err := s.load(ctx, id, authz.ActionPatientUpdate, assignmentID)
	if err != nil {
		return View{}, err
	}

	if in.Status != nil && strings.TrimSpace(*in.Status) != "" {
		st := Status(strings.TrimSpace(*in.Status))
		if !st.Valid() {
			return View{}, apperr.Validation("invalid status")
		}
		a.Status = st
	}
	if in.Notes != nil {
		a.Notes = strings.TrimSpace(*in.Notes)
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return View{}, err
	}
	return s.repo.GetView(ctx, a.ID)
}

func (s *Service) Remove(ctx context.Context, id *authz.Identity, assignmentID string) error {
	if _, err := s.load(ctx, id, authz.ActionPatientRemove, assignmentID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, assignmentID)
}

// IsAssigned cuenta cualquier estado: el historial sigue habilitando registros.
func (s *Service) IsAssigned(ctx context.Context, vetID, petID string) (bool, error) {
	return s.repo.Exists(ctx, vetID, petID)
}

func (s *Service) load(ctx context.Context, id *authz.Identity, action authz.Action, assignmentID string) (Assignment, error) {
	if err := authz.Authorize(id, authz.ActionPatientList, authz.Resource{}); err != nil {
		return Assignment{}, err
	}
	a, err := s.repo.GetByID(ctx, strings.TrimSpace(assignmentID))
	if err != nil {
		return Assignment{}, err
	}
	if err := authz.Authorize(id, action, authz.Resource{VetID: a.VetID}); err != nil {
		return Assignment{}, err
	}
	return a, nil
}
