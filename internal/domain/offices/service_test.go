package offices_test

import (
	"context"
	"testing"
	"time"

	"petvet/internal/adapters/storage/memory"
	"petvet/internal/authz"
	"petvet/internal/domain/offices"
	"petvet/internal/domain/users"
	"petvet/internal/platform/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	svc   *offices.Service
	admin *authz.Identity
	owner *authz.Identity
	other *authz.Identity
	vet   *authz.Identity
}

func newEnv(t *testing.T) env {
	t.Helper()
	st := memory.New()
	ctx := context.Background()

	mk := func(id string, role authz.Role, typ authz.UserType) *authz.Identity {
		u := users.User{ID: id, Username: id, Role: role, Type: typ, CreatedAt: time.Now()}
		require.NoError(t, st.Users().Create(ctx, u))
		return u.Identity()
	}
	return env{
		svc:   offices.NewService(st.Offices()),
		admin: mk("root", authz.RoleAdmin, authz.TypeOwner),
		owner: mk("owner", authz.RoleUser, authz.TypeOwner),
		other: mk("other", authz.RoleUser, authz.TypeOwner),
		vet:   mk("vet", authz.RoleUser, authz.TypeVet),
	}
}

func (e env) office(t *testing.T, name, address string) offices.PartneredOffice {
	t.Helper()
	o, err := e.svc.CreatePartnered(context.Background(), e.admin, offices.PartneredInput{Name: name, Address: address})
	require.NoError(t, err)
	return o
}

func TestPartnered_AdminOnly(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.svc.CreatePartnered(ctx, e.owner, offices.PartneredInput{Name: "A", Address: "B"})
	assert.True(t, apperr.Is(err, apperr.KindAuthorization))

	_, err = e.svc.ListPartnered(ctx, e.vet)
	assert.True(t, apperr.Is(err, apperr.KindAuthorization))

	_, err = e.svc.CreatePartnered(ctx, e.admin, offices.PartneredInput{Name: "A"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestPartnered_CRUD(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	o := e.office(t, " Happy Paws ", "1 Main St")
	assert.Equal(t, "Happy Paws", o.Name)

	up, err := e.svc.UpdatePartnered(ctx, e.admin, o.ID, offices.PartneredInput{Name: "Happy Paws", Address: "2 Main St"})
	require.NoError(t, err)
	assert.Equal(t, "2 Main St", up.Address)

	list, err := e.svc.ListPartnered(ctx, e.admin)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, e.svc.DeletePartnered(ctx, e.admin, o.ID))
	assert.True(t, apperr.Is(e.svc.DeletePartnered(ctx, e.admin, o.ID), apperr.KindNotFound))

	_, err = e.svc.UpdatePartnered(ctx, e.admin, o.ID, offices.PartneredInput{Name: "x", Address: "y"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestPreferred_AddListDuplicate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	o := e.office(t, "Happy Paws", "1 Main St")

	l, err := e.svc.AddLink(ctx, e.owner, offices.LinkPreferred, o.ID)
	require.NoError(t, err)
	assert.Equal(t, e.owner.ID, l.UserID)

	_, err = e.svc.AddLink(ctx, e.owner, offices.LinkPreferred, o.ID)
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindConflict, ae.Kind)
	assert.Equal(t, "already_added", ae.Code)

	views, err := e.svc.ListLinks(ctx, e.owner, offices.LinkPreferred)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Happy Paws", views[0].Name)

	_, err = e.svc.AddLink(ctx, e.owner, offices.LinkPreferred, "missing")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = e.svc.AddLink(ctx, e.owner, offices.LinkPreferred, " ")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestLinks_TypeGuard(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	o := e.office(t, "Happy Paws", "1 Main St")

	_, err := e.svc.AddLink(ctx, e.vet, offices.LinkPreferred, o.ID)
	assert.True(t, apperr.Is(err, apperr.KindAuthorization))

	_, err = e.svc.AddLink(ctx, e.owner, offices.LinkMember, o.ID)
	assert.True(t, apperr.Is(err, apperr.KindAuthorization))

	_, err = e.svc.AddLink(ctx, e.vet, offices.LinkMember, o.ID)
	require.NoError(t, err)
	_, err = e.svc.AddLink(ctx, e.vet, offices.LinkMember, o.ID)
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "already_member", ae.Code)
}

func TestClaim_MatchesNormalizedNameAndAddress(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	o := e.office(t, "Happy Paws", "1 Main St")

	l, err := e.svc.Claim(ctx, e.vet, offices.LinkMember, "  happy PAWS", "1 MAIN ST ")
	require.NoError(t, err)
	assert.Equal(t, o.ID, l.OfficeID)

	_, err = e.svc.Claim(ctx, e.owner, offices.LinkPreferred, "Happy Paws", "2 Main St")
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "office_not_found", ae.Code)

	_, err = e.svc.Claim(ctx, e.owner, offices.LinkPreferred, "Happy Paws", "")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestRemoveLink_OnlyOwnLinks(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	o := e.office(t, "Happy Paws", "1 Main St")
	l, err := e.svc.AddLink(ctx, e.owner, offices.LinkPreferred, o.ID)
	require.NoError(t, err)

	assert.True(t, apperr.Is(e.svc.RemoveLink(ctx, e.other, offices.LinkPreferred, l.ID), apperr.KindAuthorization))
	require.NoError(t, e.svc.RemoveLink(ctx, e.owner, offices.LinkPreferred, l.ID))
	assert.True(t, apperr.Is(e.svc.RemoveLink(ctx, e.owner, offices.LinkPreferred, l.ID), apperr.KindNotFound))
}

func TestDeletePartnered_CascadesLinks(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	o := e.office(t, "Happy Paws", "1 Main St")
	_, err := e.svc.AddLink(ctx, e.owner, offices.LinkPreferred, o.ID)
	require.NoError(t, err)

	require.NoError(t, e.svc.DeletePartnered(ctx, e.admin, o.ID))
	views, err := e.svc.ListLinks(ctx, e.owner, offices.LinkPreferred)
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestMatcher_FirstDuplicateWins(t *testing.T) {
	m := offices.NewMatcher([]offices.PartneredOffice{
		{ID: "a", Name: "Clinic", Address: "1 Main"},
		{ID: "b", Name: "clinic ", Address: " 1 main"},
	})
	o, ok := m.Match("CLINIC", "1 MAIN")
	require.True(t, ok)
	assert.Equal(t, "a", o.ID)

	_, ok = m.Match("Clinic", "1  Main")
	assert.False(t, ok)
}
