package pets

import "time"

// Pet representa el perfil de una mascota. Pertenece a un único owner (OwnerID).
type Pet struct {
	ID      string
	OwnerID string

	Name      string
	Species   string
	Breed     string
	BirthDate *time.Time
	Weight    *float64
	Color     string

	MicrochipID string

	// Datos de contacto del dueño tal como los cargó el usuario.
	OwnerName  string
	OwnerPhone string
	OwnerEmail string

	PhotoURL string
	Notes    string

	CreatedAt time.Time
	UpdatedAt time.Time
}
