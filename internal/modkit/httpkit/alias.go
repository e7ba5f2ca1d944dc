// Package httpkit re-exports the platform http surface for modules
// Modules import this instead of internal/platform/net/http
package httpkit

import (
	"net/http"

	phttp "matchlog/internal/platform/net/http"
)

type (
	// Envelope is the JSON reply body
	Envelope = phttp.Envelope

	// Response is returned by return-style handlers
	Response = phttp.Response

	// Handler is the platform handler type
	Handler = phttp.Handler

	// Router is the routing seam
	Router = phttp.Router

	// EventStream writes server sent events
	EventStream = phttp.EventStream
)

// OK is a 200 reply
func OK(data any) Response { return phttp.OK(data) }

// Accepted is a 202 reply
func Accepted(data any) Response { return phttp.Accepted(data) }

// Error maps err to status and envelope
func Error(err error) Response { return phttp.Error(err) }

// Handle adapts a return-style handler
func Handle(fn func(*http.Request) Response) Handler { return phttp.Handle(fn) }

// Call adapts a handler returning a value or an error
// A returned Response is written as is
func Call(fn func(*http.Request) (any, error)) Handler {
	return phttp.Handle(func(r *http.Request) phttp.Response {
		out, err := fn(r)
		if err != nil {
			return phttp.Error(err)
		}
		if resp, ok := out.(phttp.Response); ok {
			return resp
		}
		return phttp.OK(out)
	})
}

// OpenEventStream starts a text/event-stream reply
func OpenEventStream(w http.ResponseWriter) (*EventStream, error) { return phttp.OpenEventStream(w) }

// RespondError writes the error envelope directly
func RespondError(w http.ResponseWriter, r *http.Request, err error) { phttp.RespondError(w, r, err) }

// Param returns a path parameter
func Param(r *http.Request, key string) string { return phttp.URLParam(r, key) }
