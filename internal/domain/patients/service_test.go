package patients_test

import (
	"context"
	"testing"
	"time"

	"petvet/internal/adapters/storage/memory"
	"petvet/internal/authz"
	"petvet/internal/domain/patients"
	"petvet/internal/domain/pets"
	"petvet/internal/domain/users"
	"petvet/internal/platform/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	svc   *patients.Service
	owner *authz.Identity
	vet   *authz.Identity
	vet2  *authz.Identity
	dog   pets.Pet
	cat   pets.Pet
}

func newEnv(t *testing.T) env {
	t.Helper()
	st := memory.New()
	ctx := context.Background()

	mk := func(id string, typ authz.UserType) *authz.Identity {
		u := users.User{ID: id, Username: id, Role: authz.RoleUser, Type: typ, CreatedAt: time.Now()}
		require.NoError(t, st.Users().Create(ctx, u))
		return u.Identity()
	}
	e := env{
		svc:   patients.NewService(st.Patients(), st.Pets()),
		owner: mk("owner", authz.TypeOwner),
		vet:   mk("vet", authz.TypeVet),
		vet2:  mk("vet2", authz.TypeVet),
	}

	petSvc := pets.NewService(st.Pets(), st.Records())
	var err error
	e.dog, err = petSvc.Create(ctx, e.owner, pets.Input{Name: "Rex", Species: "dog"})
	require.NoError(t, err)
	e.cat, err = petSvc.Create(ctx, e.owner, pets.Input{Name: "Tom", Species: "cat"})
	require.NoError(t, err)
	return e
}

func TestAssign(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	v, err := e.svc.Assign(ctx, e.vet, patients.AssignInput{PetID: e.dog.ID, Notes: " new "})
	require.NoError(t, err)
	assert.Equal(t, patients.StatusActive, v.Status)
	assert.Equal(t, "new", v.Notes)
	assert.Equal(t, "Rex", v.Pet.Name)
	assert.Equal(t, "owner", v.OwnerUsername)

	_, err = e.svc.Assign(ctx, e.vet, patients.AssignInput{PetID: e.dog.ID})
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindConflict, ae.Kind)
	assert.Equal(t, "already_assigned", ae.Code)

	// otro vet puede atender la misma mascota
	_, err = e.svc.Assign(ctx, e.vet2, patients.AssignInput{PetID: e.dog.ID})
	require.NoError(t, err)
}

func TestAssign_Validation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.svc.Assign(ctx, e.owner, patients.AssignInput{PetID: e.dog.ID})
	assert.True(t, apperr.Is(err, apperr.KindAuthorization))

	_, err = e.svc.Assign(ctx, e.vet, patients.AssignInput{})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = e.svc.Assign(ctx, e.vet, patients.AssignInput{PetID: e.dog.ID, Status: "sleeping"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = e.svc.Assign(ctx, e.vet, patients.AssignInput{PetID: "missing"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestList_Filters(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, err := e.svc.Assign(ctx, e.vet, patients.AssignInput{PetID: e.dog.ID})
	require.NoError(t, err)
	_, err = e.svc.Assign(ctx, e.vet, patients.AssignInput{PetID: e.cat.ID, Status: "inactive"})
	require.NoError(t, err)

	all, err := e.svc.List(ctx, e.vet, patients.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	cats, err := e.svc.List(ctx, e.vet, patients.Filter{Species: "cat"})
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "Tom", cats[0].Pet.Name)

	active, err := e.svc.List(ctx, e.vet, patients.Filter{Status: patients.StatusActive})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Rex", active[0].Pet.Name)

	none, err := e.svc.List(ctx, e.vet2, patients.Filter{})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdateAndRemove_OnlyOwningVet(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	v, err := e.svc.Assign(ctx, e.vet, patients.AssignInput{PetID: e.dog.ID, Notes: "keep"})
	require.NoError(t, err)

	st := "discharged"
	_, err = e.svc.Update(ctx, e.vet2, v.ID, patients.UpdateInput{Status: &st})
	assert.True(t, apperr.Is(err, apperr.KindAuthorization))
	assert.True(t, apperr.Is(e.svc.Remove(ctx, e.vet2, v.ID), apperr.KindAuthorization))

	up, err := e.svc.Update(ctx, e.vet, v.ID, patients.UpdateInput{Status: &st})
	require.NoError(t, err)
	assert.Equal(t, patients.StatusDischarged, up.Status)
	assert.Equal(t, "keep", up.Notes)

	bad := "gone"
	_, err = e.svc.Update(ctx, e.vet, v.ID, patients.UpdateInput{Status: &bad})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	require.NoError(t, e.svc.Remove(ctx, e.vet, v.ID))
	assert.True(t, apperr.Is(e.svc.Remove(ctx, e.vet, v.ID), apperr.KindNotFound))

	ok, err := e.svc.IsAssigned(ctx, e.vet.ID, e.dog.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
