package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/storm-aslanbek/veridian/internal/handler"
	"github.com/storm-aslanbek/veridian/internal/logging"
)

// Recovery converts a panic into a 500 instead of tearing down the
// connection. Transfers in flight are not affected: a panic in one handler
// cannot roll back a committed balance adjustment, and compensation runs in
// the transfer engine, below this layer.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				logging.FromContext(r.Context()).Error("panic in handler",
					"panic", v,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				handler.RespondAppError(w, handler.ErrInternalError, nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
