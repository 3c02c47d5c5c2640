package users

import "context"

// Repository: Create/Update devuelven Conflict si el username ya existe;
// Delete borra en cascada mascotas, registros, asignaciones y vínculos.
type Repository interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, u User) error
	Delete(ctx context.Context, id string) error
}
