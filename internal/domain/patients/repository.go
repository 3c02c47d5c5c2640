package patients

import "context"

type Repository interface {
	// Create: Conflict si (vet, pet) ya existe; NotFound si la mascota no existe.
	Create(ctx context.Context, a Assignment) error
	GetByID(ctx context.Context, id string) (Assignment, error)
	GetView(ctx context.Context, id string) (View, error)
	ListByVet(ctx context.Context, vetID string, f Filter) ([]View, error)
	Exists(ctx context.Context, vetID, petID string) (bool, error)
	Update(ctx context.Context, a Assignment) error
	Delete(ctx context.Context, id string) error
}
