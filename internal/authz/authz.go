// Package authz decide quién puede hacer qué. Es una función pura: no hace I/O,
// el caller arma el Resource con los campos de ownership que ya leyó del store.
package authz

import (
	"strings"

	"petvet/internal/platform/apperr"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool { return r == RoleUser || r == RoleAdmin }

type UserType string

const (
	TypeOwner UserType = "owner"
	TypeVet   UserType = "vet"
)

func (t UserType) Valid() bool { return t == TypeOwner || t == TypeVet }

// Identity es la identidad decodificada de la sesión. nil = anónimo.
type Identity struct {
	ID       string
	Username string
	Role     Role
	Type     UserType
}

func (i *Identity) IsAdmin() bool { return i != nil && i.Role == RoleAdmin }
func (i *Identity) IsOwner() bool { return i != nil && i.Type == TypeOwner }
func (i *Identity) IsVet() bool   { return i != nil && i.Type == TypeVet }

type Action string

const (
	ActionLogin    Action = "auth:login"
	ActionRegister Action = "auth:register"
	ActionSession  Action = "auth:session"

	ActionUserManage   Action = "user:manage"
	ActionOfficeManage Action = "office:manage"

	ActionPetCreate Action = "pet:create"
	ActionPetList   Action = "pet:list"
	ActionPetRead   Action = "pet:read"
	ActionPetUpdate Action = "pet:update"
	ActionPetDelete Action = "pet:delete"

	// Registros vistos desde la mascota (owner/admin).
	ActionRecordRead   Action = "record:read"
	ActionRecordDelete Action = "record:delete"

	ActionPatientList   Action = "patient:list"
	ActionPatientAssign Action = "patient:assign"
	ActionPatientUpdate Action = "patient:update"
	ActionPatientRemove Action = "patient:remove"

	// Registros del vet (listado propio / alta).
	ActionRecordList   Action = "record:list"
	ActionRecordCreate Action = "record:create"
	ActionStatsRead    Action = "stats:read"

	ActionPreferredManage  Action = "preferred:manage"
	ActionMembershipManage Action = "membership:manage"

	ActionDirectorySearch Action = "directory:search"
)

// Resource lleva los campos de ownership del recurso tocado.
// Vacío = acción sin recurso concreto (listar, crear).
type Resource struct {
	OwnerID  string // pet.owner_id / preferred.user_id
	VetID    string // vet_patients.vet_id / member.vet_user_id
	Assigned bool   // existe vet_patients(vet, pet) para el vet que actúa
}

// Decision es el resultado de Decide. Reason es legible, Kind mapea a HTTP.
type Decision struct {
	Allowed bool
	Kind    apperr.Kind
	Reason  string
}

func allow() Decision { return Decision{Allowed: true} }

func deny(reason string) Decision {
	return Decision{Kind: apperr.KindAuthorization, Reason: reason}
}

func unauthenticated() Decision {
	return Decision{Kind: apperr.KindAuthentication, Reason: "not authenticated"}
}

// Decide aplica la matriz de acceso.
func Decide(id *Identity, action Action, res Resource) Decision {
	if action == ActionLogin || action == ActionRegister {
		return allow()
	}
	if id == nil || strings.TrimSpace(id.ID) == "" {
		return unauthenticated()
	}

	switch action {
	case ActionSession, ActionDirectorySearch:
		return allow()

	case ActionUserManage, ActionOfficeManage:
		if id.IsAdmin() {
			return allow()
		}
		return deny("admin role required")

	case ActionPetCreate, ActionPetList:
		if id.IsAdmin() || id.IsOwner() {
			return allow()
		}
		return deny("owner account required")

	case ActionPetRead, ActionPetUpdate, ActionPetDelete, ActionRecordRead, ActionRecordDelete:
		if id.IsAdmin() {
			return allow()
		}
		if id.IsOwner() && res.OwnerID != "" && res.OwnerID == id.ID {
			return allow()
		}
		return deny("access denied")

	case ActionPatientList, ActionPatientAssign, ActionRecordList, ActionStatsRead:
		if id.IsVet() {
			return allow()
		}
		return deny("vet account required")

	case ActionPatientUpdate, ActionPatientRemove:
		if id.IsVet() && res.VetID != "" && res.VetID == id.ID {
			return allow()
		}
		return deny("access denied")

	case ActionRecordCreate:
		if !id.IsVet() {
			return deny("vet account required")
		}
		if !res.Assigned {
			return deny("pet is not assigned to this vet")
		}
		return allow()

	case ActionPreferredManage:
		if !id.IsOwner() {
			return deny("owner account required")
		}
		if res.OwnerID != "" && res.OwnerID != id.ID {
			return deny("access denied")
		}
		return allow()

	case ActionMembershipManage:
		if !id.IsVet() {
			return deny("vet account required")
		}
		if res.VetID != "" && res.VetID != id.ID {
			return deny("access denied")
		}
		return allow()
	}

	return deny("unknown action")
}

// Authorize es Decide en forma de error: nil = permitido.
func Authorize(id *Identity, action Action, res Resource) error {
	d := Decide(id, action, res)
	if d.Allowed {
		return nil
	}
	if d.Kind == apperr.KindAuthentication {
		return apperr.Unauthenticated(d.Reason)
	}
	return apperr.Forbidden(d.Reason)
}
