package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"petvet/internal/platform/apperr"
	"petvet/internal/platform/httpx"
	"petvet/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Recover captura panics, los loguea con stack y responde 500 genérico.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logger.FromContext(r.Context()).Error("panic recovered", map[string]any{
				"panic":      fmt.Sprint(rec),
				"stack":      string(debug.Stack()),
				"request_id": chimw.GetReqID(r.Context()),
			})
			httpx.WriteError(w, r, apperr.New(apperr.KindInternal, "panic"))
		}()

		next.ServeHTTP(w, r)
	})
}
