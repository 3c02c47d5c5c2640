package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"petvet/internal/platform/apperr"
	"petvet/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Límite de body JSON aceptado por los handlers.
const maxJSONBody = 1 << 20

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError traduce un error de aplicación a status + {"error","message"}.
// Los 5xx nunca exponen el detalle; se loguean con la causa y el request id.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	e, ok := apperr.As(err)
	if !ok {
		e = apperr.Wrap(apperr.KindInternal, "unexpected error", err)
	}

	status := e.Kind.HTTPStatus()
	msg := e.Message
	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("request failed", map[string]any{
			"error":      err,
			"kind":       e.Kind.String(),
			"path":       r.URL.Path,
			"request_id": chimw.GetReqID(r.Context()),
		})
		msg = "internal error"
	}

	WriteJSON(w, status, errorResponse{Error: e.Code, Message: msg})
}

// DecodeJSON decodifica el body en dst. Body vacío o JSON inválido => Validation.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return apperr.Validation("request body is required")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("request body is required")
		}
		return apperr.Validation("invalid json").WithCode("invalid_json")
	}
	return nil
}

// DateLayout es el formato de fechas (sin hora) en la API.
const DateLayout = "2006-01-02"

// ParseDate parsea YYYY-MM-DD. Vacío => nil.
func ParseDate(field, v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, v)
	if err != nil {
		return nil, apperr.Validation(field + " must be YYYY-MM-DD")
	}
	return &t, nil
}

// FormatDate es el inverso de ParseDate. nil => nil.
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}
