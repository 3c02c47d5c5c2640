package patients

import (
	"time"

	"petvet/internal/domain/pets"
)

type Status string

const (
	StatusActive     Status = "active"
	StatusInactive   Status = "inactive"
	StatusDischarged Status = "discharged"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusDischarged:
		return true
	}
	return false
}

// Assignment vincula un vet con una mascota que atiende.
// (vet_id, pet_id) es único: reasignar = reactivar, no duplicar.
type Assignment struct {
	ID           string
	VetID        string
	PetID        string
	AssignedDate time.Time
	Status       Status
	Notes        string
	CreatedAt    time.Time
}

// View = asignación + mascota + username del dueño, leídos en un solo JOIN.
type View struct {
	Assignment
	Pet           pets.Pet
	OwnerUsername string
}

type Filter struct {
	Status  Status
	Species string
}
