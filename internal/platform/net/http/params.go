package http

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
)

// URLParam returns the named path parameter of the matched route
func URLParam(r *stdhttp.Request, key string) string { return chi.URLParam(r, key) }
