package records

import "context"

type Repository interface {
	// CreateAssigned inserta solo si existe vet_patients(r.VetID, r.PetID),
	// en la misma operación atómica. Sin asignación => Forbidden.
	CreateAssigned(ctx context.Context, r VetRecord) error
	GetByID(ctx context.Context, id string) (VetRecord, error)
	GetView(ctx context.Context, id string) (View, error)
	ListByPet(ctx context.Context, petID string) ([]VetRecord, error)
	ListByVet(ctx context.Context, vetID string, f Filter) ([]View, error)
	Delete(ctx context.Context, id string) error
}
