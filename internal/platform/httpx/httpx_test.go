package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"petvet/internal/platform/apperr"
	"petvet/internal/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func decodeErr(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var out errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestWriteError_MapsKinds(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{apperr.Validation("name is required"), http.StatusBadRequest, "validation_error"},
		{apperr.Unauthenticated("not authenticated"), http.StatusUnauthorized, "not_authenticated"},
		{apperr.Forbidden("access denied"), http.StatusForbidden, "access_denied"},
		{apperr.NotFound("pet not found"), http.StatusNotFound, "not_found"},
		{apperr.Conflict("username already exists").WithCode("username_taken"), http.StatusConflict, "username_taken"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tc.err)

		assert.Equal(t, tc.status, rec.Code)
		body := decodeErr(t, rec)
		assert.Equal(t, tc.code, body.Error)
	}
}

func TestWriteError_InternalIsGenericAndLogged(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	req := httptest.NewRequest(http.MethodGet, "/pets", nil)
	req = req.WithContext(logger.WithContext(req.Context(), logger.Wrap(zap.New(core))))

	rec := httptest.NewRecorder()
	WriteError(rec, req, apperr.Store("insert pet", errors.New("pq: relation \"pets\" does not exist")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeErr(t, rec)
	assert.Equal(t, "store_error", body.Error)
	assert.Equal(t, "internal error", body.Message)
	assert.Equal(t, 1, logs.Len())
}

func TestWriteError_PlainErrorIsInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal_error", decodeErr(t, rec).Error)
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Rex"}`))
	require.NoError(t, DecodeJSON(req, &dst))
	assert.Equal(t, "Rex", dst.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	assert.True(t, apperr.Is(DecodeJSON(req, &dst), apperr.KindValidation))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	assert.True(t, apperr.Is(DecodeJSON(req, &dst), apperr.KindValidation))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("birth_date", "2020-02-29")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "2020-02-29", *FormatDate(d))

	d, err = ParseDate("birth_date", " ")
	require.NoError(t, err)
	assert.Nil(t, d)
	assert.Nil(t, FormatDate(nil))

	_, err = ParseDate("birth_date", "29/02/2020")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}
