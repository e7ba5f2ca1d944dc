package http

import (
	"encoding/json"
	"fmt"
	stdhttp "net/http"

	perr "matchlog/internal/platform/errors"
)

// EventStream writes text/event-stream frames and flushes after each one
type EventStream struct {
	w stdhttp.ResponseWriter
	f stdhttp.Flusher
}

// OpenEventStream sends the stream headers and a 200
// It fails when the writer cannot flush, before anything is written
func OpenEventStream(w stdhttp.ResponseWriter) (*EventStream, error) {
	f, ok := w.(stdhttp.Flusher)
	if !ok {
		return nil, perr.Internalf("streaming unsupported by response writer")
	}
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(stdhttp.StatusOK)
	f.Flush()
	return &EventStream{w: w, f: f}, nil
}

// Send writes one frame: event line, data line, blank line
// Strings are sent verbatim, anything else as JSON
func (s *EventStream) Send(event string, data any) error {
	var payload []byte
	switch v := data.(type) {
	case string:
		payload = []byte(v)
	case []byte:
		payload = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeJSON, "encode event data")
		}
		payload = b
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	s.f.Flush()
	return nil
}
