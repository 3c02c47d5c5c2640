package offices

import (
	"strings"
	"time"
)

// PartneredOffice es una clínica curada por un admin, habilitada para vincularse.
type PartneredOffice struct {
	ID         string
	Name       string
	Address    string
	DetailLink string
	ExternalID string
	CreatedAt  time.Time
}

// LinkKind distingue las dos tablas de vínculos usuario→clínica.
type LinkKind int

const (
	// owner guarda una clínica (preferred_vet_offices)
	LinkPreferred LinkKind = iota
	// vet es miembro de una clínica (vet_office_members)
	LinkMember
)

func (k LinkKind) String() string {
	if k == LinkMember {
		return "member"
	}
	return "preferred"
}

// Link: (UserID, OfficeID) es único por kind.
type Link struct {
	ID        string
	Kind      LinkKind
	UserID    string
	OfficeID  string
	CreatedAt time.Time
}

// LinkView trae los datos de la clínica en la misma lectura.
type LinkView struct {
	Link
	Name       string
	Address    string
	DetailLink string
}

// Key normaliza (name, address) para el match exacto: trim + minúsculas.
// Es la única identidad entre el directorio externo y la lista curada.
type Key struct {
	Name    string
	Address string
}

func KeyOf(name, address string) Key {
	return Key{
		Name:    strings.ToLower(strings.TrimSpace(name)),
		Address: strings.ToLower(strings.TrimSpace(address)),
	}
}

// Matcher resuelve listados externos contra las clínicas partner.
// Si hay duplicados normalizados gana la primera (orden del listado recibido).
type Matcher struct {
	byKey map[Key]PartneredOffice
}

func NewMatcher(list []PartneredOffice) *Matcher {
	m := &Matcher{byKey: make(map[Key]PartneredOffice, len(list))}
	for _, o := range list {
		k := KeyOf(o.Name, o.Address)
		if _, dup := m.byKey[k]; dup {
			continue
		}
		m.byKey[k] = o
	}
	return m
}

func (m *Matcher) Match(name, address string) (PartneredOffice, bool) {
	if m == nil {
		return PartneredOffice{}, false
	}
	o, ok := m.byKey[KeyOf(name, address)]
	return o, ok
}
