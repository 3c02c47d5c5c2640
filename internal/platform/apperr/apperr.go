package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind clasifica un error de aplicación. Cada Kind tiene un status HTTP fijo.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
	KindFetch
	KindStore
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindFetch:
		return "fetch"
	case KindStore:
		return "store"
	default:
		return "internal"
	}
}

// DefaultCode es el código estable que ve el cliente si no se define uno específico.
func (k Kind) DefaultCode() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindAuthentication:
		return "not_authenticated"
	case KindAuthorization:
		return "access_denied"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindFetch:
		return "fetch_failed"
	case KindStore:
		return "store_error"
	default:
		return "internal_error"
	}
}

// HTTPStatus mapea el Kind al status de respuesta.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// WithCode devuelve una copia con un código específico (ej: "username_taken").
func (e *Error) WithCode(code string) *Error {
	cp := *e
	cp.Code = code
	return &cp
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Code: kind.DefaultCode(), Message: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Code: kind.DefaultCode(), Message: msg, Err: err}
}

func Validation(msg string) *Error { return New(KindValidation, msg) }
func Unauthenticated(msg string) *Error { return New(KindAuthentication, msg) }
func Forbidden(msg string) *Error { return New(KindAuthorization, msg) }
func NotFound(msg string) *Error { return New(KindNotFound, msg) }
func Conflict(msg string) *Error { return New(KindConflict, msg) }

func Fetch(msg string, err error) *Error { return Wrap(KindFetch, msg, err) }
func Store(msg string, err error) *Error { return Wrap(KindStore, msg, err) }

// As extrae el *Error de la cadena, si existe.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf devuelve KindInternal para errores que no son *Error.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
