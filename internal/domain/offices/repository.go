package offices

import "context"

type Repository interface {
	CreatePartnered(ctx context.Context, o PartneredOffice) error
	GetPartnered(ctx context.Context, id string) (PartneredOffice, error)
	// ListPartnered ordena por created_at desc.
	ListPartnered(ctx context.Context) ([]PartneredOffice, error)
	UpdatePartnered(ctx context.Context, o PartneredOffice) error
	// DeletePartnered borra también los vínculos a esa clínica.
	DeletePartnered(ctx context.Context, id string) error

	// AddLink: Conflict si el par ya existe; NotFound si la clínica no existe.
	AddLink(ctx context.Context, l Link) error
	LinkExists(ctx context.Context, kind LinkKind, userID, officeID string) (bool, error)
	GetLink(ctx context.Context, kind LinkKind, id string) (Link, error)
	ListLinks(ctx context.Context, kind LinkKind, userID string) ([]LinkView, error)
	DeleteLink(ctx context.Context, kind LinkKind, id string) error
}
