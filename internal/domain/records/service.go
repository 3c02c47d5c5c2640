package records

import (
	"context"
	"strings"
	"time"

	"petvet/internal/authz"
	"petvet/internal/platform/apperr"

	"github.com/google/uuid"
)

// PetOwnerLookup resuelve el owner de una mascota (NotFound si no existe).
type PetOwnerLookup interface {
	OwnerOf(ctx context.Context, petID string) (string, error)
}

// AssignmentChecker responde si el vet tiene (o tuvo) asignada la mascota.
type AssignmentChecker interface {
	IsAssigned(ctx context.Context, vetID, petID string) (bool, error)
}

type Service struct {
	repo        Repository
	pets        PetOwnerLookup
	assignments AssignmentChecker
	now         func() time.Time
}

func NewService(repo Repository, pets PetOwnerLookup, assignments AssignmentChecker) *Service {
	return &Service{
		repo:        repo,
		pets:        pets,
		assignments: assignments,
		now:         time.Now,
	}
}

type CreateInput struct {
	PetID          string
	VisitDate      *time.Time
	Reason         string
	Diagnosis      string
	Treatment      string
	Medications    string
	NextVisitDate  *time.Time
	OfficeLocation string
	Notes          string
}

// Create: pet_id faltante => 400; sin asignación => 403; visit_date/reason faltantes => 400.
func (s *Service) Create(ctx context.Context, id *authz.Identity, in CreateInput) (View, error) {
	// Mismo requisito que listar (cuenta vet) antes de mirar el body.
	if err := authz.Authorize(id, authz.ActionRecordList, authz.Resource{}); err != nil {
		return View{}, err
	}

	petID := strings.TrimSpace(in.PetID)
	if petID == "" {
		return View{}, apperr.Validation("pet_id is required")
	}

	assigned, err := s.assignments.IsAssigned(ctx, id.ID, petID)
	if err != nil {
		return View{}, err
	}
	if err := authz.Authorize(id, authz.ActionRecordCreate, authz.Resource{Assigned: assigned}); err != nil {
		return View{}, err
	}

	if in.VisitDate == nil || strings.TrimSpace(in.Reason) == "" {
		return View{}, apperr.Validation("visit_date and reason are required")
	}

	r := VetRecord{
		ID:             uuid.NewString(),
		PetID:          petID,
		VetID:          id.ID,
		VisitDate:      *in.VisitDate,
		Reason:         strings.TrimSpace(in.Reason),
		Diagnosis:      strings.TrimSpace(in.Diagnosis),
		Treatment:      strings.TrimSpace(in.Treatment),
		Medications:    strings.TrimSpace(in.Medications),
		NextVisitDate:  in.NextVisitDate,
		OfficeLocation: strings.TrimSpace(in.OfficeLocation),
		Notes:          strings.TrimSpace(in.Notes),
		CreatedAt:      s.now().UTC(),
	}

	// La asignación se vuelve a chequear dentro del insert (puede haberse borrado).
	if err := s.repo.CreateAssigned(ctx, r); err != nil {
		return View{}, err
	}
	return s.repo.GetView(ctx, r.ID)
}

// ListForVet siempre filtra por el vet de la sesión.
func (s *Service) ListForVet(ctx context.Context, id *authz.Identity, f Filter) ([]View, error) {
	if err := authz.Authorize(id, authz.ActionRecordList, authz.Resource{}); err != nil {
		return nil, err
	}
	f.PetID = strings.TrimSpace(f.PetID)
	if f.DateFrom != nil && f.DateTo != nil && f.DateTo.Before(*f.DateFrom) {
		return nil, apperr.Validation("date_to must not be before date_from")
	}
	return s.repo.ListByVet(ctx, id.ID, f)
}

// ListForPet: historial de una mascota, visible para su owner o un admin.
func (s *Service) ListForPet(ctx context.Context, id *authz.Identity, petID string) ([]VetRecord, error) {
	if err := s.authorizePet(ctx, id, authz.ActionRecordRead, petID); err != nil {
		return nil, err
	}
	return s.repo.ListByPet(ctx, petID)
}

func (s *Service) Delete(ctx context.Context, id *authz.Identity, petID, recordID string) error {
	if err := s.authorizePet(ctx, id, authz.ActionRecordDelete, petID); err != nil {
		return err
	}

	r, err := s.repo.GetByID(ctx, recordID)
	if err != nil {
		return err
	}
	if r.PetID != petID {
		return apperr.NotFound("record not found")
	}
	return s.repo.Delete(ctx, recordID)
}

func (s *Service) authorizePet(ctx context.Context, id *authz.Identity, action authz.Action, petID string) error {
	if err := authz.Authorize(id, authz.ActionSession, authz.Resource{}); err != nil {
		return err
	}
	owner, err := s.pets.OwnerOf(ctx, petID)
	if err != nil {
		return err
	}
	return authz.Authorize(id, action, authz.Resource{OwnerID: owner})
}
