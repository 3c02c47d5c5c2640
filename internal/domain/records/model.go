package records

import "time"

// VetRecord es una visita cargada por un vet. Solo existe si, al crearla,
// había una asignación (vet_patients) de ese vet con esa mascota.
type VetRecord struct {
	ID    string
	PetID string
	VetID string

	VisitDate time.Time
	Reason    string

	Diagnosis      string
	Treatment      string
	Medications    string
	NextVisitDate  *time.Time
	OfficeLocation string
	Notes          string

	CreatedAt time.Time
}

// View agrega datos de la mascota y del dueño (una sola lectura con JOIN).
type View struct {
	VetRecord
	PetName       string
	Species       string
	OwnerUsername string
}

// Filter del listado del vet. Fechas inclusivas.
type Filter struct {
	PetID    string
	DateFrom *time.Time
	DateTo   *time.Time
}
