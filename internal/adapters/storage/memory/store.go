package memory

import (
	"sort"
	"sync"
	"time"

	"petvet/internal/domain/offices"
	"petvet/internal/domain/patients"
	"petvet/internal/domain/pets"
	"petvet/internal/domain/records"
	"petvet/internal/domain/users"
)

// Store es el store in-memory (modo dev + tests). Un solo lock para todas las
// tablas: así el delete en cascada y el "chequear y luego insertar" son atómicos.
type Store struct {
	mu sync.RWMutex

	users    map[string]users.User
	pets     map[string]pets.Pet
	records  map[string]records.VetRecord
	patients map[string]patients.Assignment
	offices  map[string]offices.PartneredOffice
	links    map[offices.LinkKind]map[string]offices.Link
}

func New() *Store {
	return &Store{
		users:    make(map[string]users.User),
		pets:     make(map[string]pets.Pet),
		records:  make(map[string]records.VetRecord),
		patients: make(map[string]patients.Assignment),
		offices:  make(map[string]offices.PartneredOffice),
		links: map[offices.LinkKind]map[string]offices.Link{
			offices.LinkPreferred: make(map[string]offices.Link),
			offices.LinkMember:    make(map[string]offices.Link),
		},
	}
}

func (s *Store) Users() users.Repository       { return &userRepo{s: s} }
func (s *Store) Pets() pets.Repository         { return &petRepo{s: s} }
func (s *Store) Records() records.Repository   { return &recordRepo{s: s} }
func (s *Store) Patients() patients.Repository { return &patientRepo{s: s} }
func (s *Store) Offices() offices.Repository   { return &officeRepo{s: s} }

// ---- cascadas (llamar con s.mu tomado en escritura) ----

func (s *Store) deletePetLocked(petID string) {
	for id, r := range s.records {
		if r.PetID == petID {
			delete(s.records, id)
		}
	}
	for id, a := range s.patients {
		if a.PetID == petID {
			delete(s.patients, id)
		}
	}
	delete(s.pets, petID)
}

func (s *Store) deleteUserLocked(userID string) {
	for id, p := range s.pets {
		if p.OwnerID == userID {
			s.deletePetLocked(id)
		}
	}
	for id, r := range s.records {
		if r.VetID == userID {
			delete(s.records, id)
		}
	}
	for id, a := range s.patients {
		if a.VetID == userID {
			delete(s.patients, id)
		}
	}
	for _, byID := range s.links {
		for id, l := range byID {
			if l.UserID == userID {
				delete(byID, id)
			}
		}
	}
	delete(s.users, userID)
}

func (s *Store) deleteOfficeLocked(officeID string) {
	for _, byID := range s.links {
		for id, l := range byID {
			if l.OfficeID == officeID {
				delete(byID, id)
			}
		}
	}
	delete(s.offices, officeID)
}

// ---- helpers ----

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

// newestFirst ordena por fecha desc con desempate estable por id.
func newestFirst[T any](items []T, at func(T) time.Time, id func(T) string) {
	sort.Slice(items, func(i, j int) bool {
		ai, aj := at(items[i]), at(items[j])
		if !ai.Equal(aj) {
			return ai.After(aj)
		}
		return id(items[i]) > id(items[j])
	})
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// dayBefore: a cae en un día calendario anterior a b.
func dayBefore(a, b time.Time) bool {
	return a.UTC().Before(b.UTC()) && !sameDay(a, b)
}

func (s *Store) assignedLocked(vetID, petID string) bool {
	for _, a := range s.patients {
		if a.VetID == vetID && a.PetID == petID {
			return true
		}
	}
	return false
}
