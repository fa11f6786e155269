package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/rogerio-castellano/catalog-api/internal/http/respond"
	"github.com/rogerio-castellano/catalog-api/internal/logger"
)

// Recoverer turns a handler panic into a 500 JSON response. The panic value
// is only exposed to the client when exposeDetail is set.
func Recoverer(log *logger.Logger, exposeDetail bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				log.Error("panic recovered",
					"panic", rec,
					"request_id", chimw.GetReqID(r.Context()),
					"stack", string(debug.Stack()),
				)

				msg := "something went wrong"
				if exposeDetail {
					msg = fmt.Sprint(rec)
				}
				_ = respond.JSON(w, http.StatusInternalServerError, respond.ErrorResponse{
					Error:   "internal server error",
					Message: msg,
				})
			}()

			next.ServeHTTP(w, r)
		})
	}
}
