package middleware

import (
	"net/http"
	"runtime/debug"

	perr "matchlog/internal/platform/errors"
	"matchlog/internal/platform/logger"
	pnet "matchlog/internal/platform/net"
	phttp "matchlog/internal/platform/net/http"
)

// RecoverJSON turns a handler panic into a logged 500 envelope
// http.ErrAbortHandler is re-panicked so the server aborts the connection
func RecoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			logger.C(r.Context()).Error().
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			reqID := pnet.RequestID(r.Context())
			if reqID != "" {
				w.Header().Set("X-Request-ID", reqID)
			}
			status, body := pnet.Failure(perr.PanicErrf("internal error"), reqID)
			phttp.JSON(w, status, body)
		}()
		next.ServeHTTP(w, r)
	})
}
