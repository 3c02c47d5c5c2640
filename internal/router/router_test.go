package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"petvet/internal/adapters/auth/session"
	"petvet/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const directoryPage = `<html><body><table>
<tr valign="top">
  <td class="vetText">Happy Paws <span class="distanceText">(0.4 miles)</span></td>
  <td class="vetText"><a href="vet_detail.php?id=7">Details</a></td>
</tr>
<tr><td><div class="vetText">1 Main St</div></td></tr>
<tr valign="top">
  <td class="vetText">Other Clinic</td>
  <td class="vetText"><a href="vet_detail.php?id=8">Details</a></td>
</tr>
<tr><td><div class="vetText">9 Side Rd</div></td></tr>
</table></body></html>`

type harness struct {
	t   *testing.T
	url string
}

func newHarness(t *testing.T) harness {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(directoryPage))
	}))
	t.Cleanup(upstream.Close)

	codec, err := session.New(bytes.Repeat([]byte("k"), 32), time.Hour)
	require.NoError(t, err)

	h, svcs, err := router.New(router.Options{
		Sessions:  codec,
		Directory: router.DirectoryOptions{BaseURL: upstream.URL + "/", PageTimeout: time.Second},
	})
	require.NoError(t, err)

	_, err = svcs.Users.EnsureAdmin(context.Background(), "root", "rootpw")
	require.NoError(t, err)

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return harness{t: t, url: ts.URL}
}

type client struct {
	h  harness
	hc *http.Client
}

func (h harness) anon() *client {
	jar, err := cookiejar.New(nil)
	require.NoError(h.t, err)
	return &client{h: h, hc: &http.Client{Jar: jar}}
}

func (h harness) register(username, typ string) *client {
	c := h.anon()
	st, body := c.do("POST", "/auth/register", map[string]any{"username": username, "password": "pw", "type": typ})
	require.Equal(h.t, http.StatusCreated, st, string(body))
	return c.login(username, "pw")
}

func (c *client) login(username, password string) *client {
	st, body := c.do("POST", "/auth/login", map[string]any{"username": username, "password": password})
	require.Equal(c.h.t, http.StatusOK, st, string(body))
	return c
}

func (c *client) do(method, path string, body any) (int, []byte) {
	c.h.t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.h.t, err)
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.h.url+path, rdr)
	require.NoError(c.h.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.hc.Do(req)
	require.NoError(c.h.t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(c.h.t, err)
	return resp.StatusCode, out
}

func (c *client) json(method, path string, body any, want int, dst any) {
	c.h.t.Helper()
	st, raw := c.do(method, path, body)
	require.Equal(c.h.t, want, st, string(raw))
	if dst != nil {
		require.NoError(c.h.t, json.Unmarshal(raw, dst))
	}
}

func errorCode(t *testing.T, raw []byte) string {
	t.Helper()
	var e struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(raw, &e))
	return e.Error
}

func TestHTTP_Health(t *testing.T) {
	h := newHarness(t)
	st, body := h.anon().do("GET", "/health", nil)
	assert.Equal(t, http.StatusOK, st)
	assert.Equal(t, "ok", string(body))
}

func TestHTTP_AnonymousIsRejectedBeforeBody(t *testing.T) {
	h := newHarness(t)
	c := h.anon()

	for _, path := range []string{"/pets", "/vet/records", "/vet/patients", "/admin/users"} {
		st, raw := c.do("POST", path, map[string]any{})
		assert.Equal(t, http.StatusUnauthorized, st, path)
		assert.Equal(t, "not_authenticated", errorCode(t, raw))
	}

	st, _ := c.do("GET", "/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, st)
}

func TestHTTP_SessionLifecycle(t *testing.T) {
	h := newHarness(t)
	c := h.register("ana", "owner")

	var me struct {
		Username string `json:"username"`
		Type     string `json:"type"`
	}
	c.json("GET", "/auth/me", nil, http.StatusOK, &me)
	assert.Equal(t, "ana", me.Username)
	assert.Equal(t, "owner", me.Type)

	c.json("POST", "/auth/logout", nil, http.StatusOK, nil)
	st, _ := c.do("GET", "/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, st)

	st, raw := h.anon().do("POST", "/auth/login", map[string]any{"username": "ana", "password": "bad"})
	assert.Equal(t, http.StatusUnauthorized, st)
	assert.Equal(t, "invalid_credentials", errorCode(t, raw))
}

func TestHTTP_OwnerVetFlow(t *testing.T) {
	h := newHarness(t)
	owner := h.register("ana", "owner")
	stranger := h.register("bob", "owner")
	vet := h.register("drvet", "vet")

	// 1) owner crea mascota
	var pet struct {
		ID string `json:"id"`
	}
	owner.json("POST", "/pets", map[string]any{"name": "Milo", "species": "dog", "birth_date": "2015-04-01"}, http.StatusCreated, &pet)
	require.NotEmpty(t, pet.ID)

	// 2) otro owner no la ve; un vet no puede crear mascotas
	st, _ := stranger.do("GET", "/pets/"+pet.ID, nil)
	assert.Equal(t, http.StatusForbidden, st)
	st, _ = vet.do("POST", "/pets", map[string]any{"name": "x", "species": "cat"})
	assert.Equal(t, http.StatusForbidden, st)

	// 3) vet sin asignación no puede cargar registros
	st, _ = vet.do("POST", "/vet/records", map[string]any{"pet_id": pet.ID, "visit_date": "2024-05-01", "reason": "checkup"})
	assert.Equal(t, http.StatusForbidden, st)

	// 4) asigna y carga
	var assignment struct {
		ID string `json:"id"`
	}
	vet.json("POST", "/vet/patients", map[string]any{"pet_id": pet.ID}, http.StatusCreated, &assignment)
	st, raw := vet.do("POST", "/vet/patients", map[string]any{"pet_id": pet.ID})
	assert.Equal(t, http.StatusConflict, st)
	assert.Equal(t, "already_assigned", errorCode(t, raw))

	var rec struct {
		ID      string `json:"id"`
		PetName string `json:"pet_name"`
	}
	vet.json("POST", "/vet/records", map[string]any{"pet_id": pet.ID, "visit_date": "2024-05-01", "reason": "checkup"}, http.StatusCreated, &rec)
	assert.Equal(t, "Milo", rec.PetName)

	// 5) el owner ve el historial en el detalle
	var detail struct {
		Name       string            `json:"name"`
		VetRecords []json.RawMessage `json:"vet_records"`
	}
	owner.json("GET", "/pets/"+pet.ID, nil, http.StatusOK, &detail)
	assert.Equal(t, "Milo", detail.Name)
	assert.Len(t, detail.VetRecords, 1)

	// 6) stats del vet
	var stats struct {
		TotalPatients int `json:"totalPatients"`
	}
	vet.json("GET", "/vet/stats", nil, http.StatusOK, &stats)
	assert.Equal(t, 1, stats.TotalPatients)
	st, _ = owner.do("GET", "/vet/stats", nil)
	assert.Equal(t, http.StatusForbidden, st)

	// 7) owner borra la mascota: desaparecen asignación y registros
	owner.json("DELETE", "/pets/"+pet.ID, nil, http.StatusOK, nil)
	var records []json.RawMessage
	vet.json("GET", "/vet/records", nil, http.StatusOK, &records)
	assert.Empty(t, records)
}

func TestHTTP_DirectoryAndOffices(t *testing.T) {
	h := newHarness(t)
	admin := h.anon().login("root", "rootpw")
	owner := h.register("ana", "owner")
	vet := h.register("drvet", "vet")

	var office struct {
		ID string `json:"id"`
	}
	admin.json("POST", "/admin/partnered-offices", map[string]any{"name": "Happy Paws", "address": "1 Main St"}, http.StatusCreated, &office)
	st, _ := owner.do("POST", "/admin/partnered-offices", map[string]any{"name": "x", "address": "y"})
	assert.Equal(t, http.StatusForbidden, st)

	var search struct {
		Vets []struct {
			Name       string `json:"name"`
			DetailLink string `json:"detail_link"`
			Partnered  bool   `json:"partnered"`
		} `json:"vets"`
	}
	owner.json("GET", "/directory/search?zip=22192", nil, http.StatusOK, &search)
	require.Len(t, search.Vets, 2)
	assert.Equal(t, "Happy Paws", search.Vets[0].Name)
	assert.True(t, search.Vets[0].Partnered)
	assert.False(t, search.Vets[1].Partnered)
	assert.Contains(t, search.Vets[0].DetailLink, "vet_detail.php?id=7")

	st, raw := owner.do("GET", "/directory/search?zip=abc", nil)
	assert.Equal(t, http.StatusBadRequest, st)
	assert.Equal(t, "invalid_zip", errorCode(t, raw))
	st, _ = h.anon().do("GET", "/directory/search?zip=22192", nil)
	assert.Equal(t, http.StatusUnauthorized, st)

	owner.json("POST", "/owner/preferred-offices", map[string]any{"vet_office_id": office.ID}, http.StatusOK, nil)
	st, _ = owner.do("POST", "/owner/preferred-offices", map[string]any{"vet_office_id": office.ID})
	assert.Equal(t, http.StatusConflict, st)

	vet.json("POST", "/vet/office-memberships/claim", map[string]any{"name": "happy paws", "address": "1 MAIN ST"}, http.StatusOK, nil)
	var memberships struct {
		Offices []struct {
			Name string `json:"name"`
		} `json:"offices"`
	}
	vet.json("GET", "/vet/office-memberships", nil, http.StatusOK, &memberships)
	require.Len(t, memberships.Offices, 1)
	assert.Equal(t, "Happy Paws", memberships.Offices[0].Name)
}

func TestHTTP_SessionFollowsCurrentUser(t *testing.T) {
	h := newHarness(t)
	admin := h.anon().login("root", "rootpw")
	owner := h.register("ana", "owner")
	vet := h.register("drvet", "vet")

	var list []struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	admin.json("GET", "/admin/users", nil, http.StatusOK, &list)
	ids := map[string]string{}
	for _, u := range list {
		ids[u.Username] = u.ID
	}
	require.NotEmpty(t, ids["ana"])
	require.NotEmpty(t, ids["drvet"])

	// promoción: vale sin volver a loguearse
	st, _ := owner.do("GET", "/admin/users", nil)
	assert.Equal(t, http.StatusForbidden, st)
	admin.json("PUT", "/admin/users/"+ids["ana"], map[string]any{"role": "admin"}, http.StatusOK, nil)
	owner.json("GET", "/admin/users", nil, http.StatusOK, nil)

	// borrado: la cookie sigue firmada pero ya no autentica
	vet.json("GET", "/vet/patients", nil, http.StatusOK, nil)
	admin.json("DELETE", "/admin/users/"+ids["drvet"], nil, http.StatusOK, nil)
	st, _ = vet.do("GET", "/vet/patients", nil)
	assert.Equal(t, http.StatusUnauthorized, st)
	st, _ = vet.do("POST", "/vet/office-memberships", map[string]any{"vet_office_id": "x"})
	assert.Equal(t, http.StatusUnauthorized, st)
}
