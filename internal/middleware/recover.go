package middleware

import (
	"net/http"
	"runtime/debug"

	"pet-care-manager/internal/platform/logger"
)

// Recover reemplaza a chi/middleware.Recoverer para que el panic quede en
// nuestro logger estructurado (con request_id) en vez de stderr.
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
			logger.FromContext(r.Context()).Error("panic recovered", logger.Fields{
				"panic": rec,
				"stack": string(debug.Stack()),
			})
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message":"internal error"}`))
		}()
		next.ServeHTTP(w, r)
	})
}
