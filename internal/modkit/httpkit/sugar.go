package httpkit

import "net/http"

// Get mounts a body-less GET handler returning a value or an error
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, Call(h))
}
