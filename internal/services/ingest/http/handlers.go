// Package http accepts export uploads
package http

import (
	"io"
	stdhttp "net/http"
	"strings"

	"matchlog/internal/core/events"
	"matchlog/internal/modkit/httpkit"
	perr "matchlog/internal/platform/errors"
	"matchlog/internal/platform/logger"
	"matchlog/internal/platform/net/http/bind"
	"matchlog/internal/platform/net/middleware"
	dom "matchlog/internal/services/ingest/domain"
)

// FileField is the multipart field carrying matches.json
const FileField = "file"

// Handlers serves POST /uploads
type Handlers struct {
	Ingester dom.Ingester
	// MaxBytes caps the request body
	MaxBytes int64
}

// Register mounts POST / behind auth
func Register(r httpkit.Router, auth middleware.AuthPort, h *Handlers) {
	httpkit.Protected(r, auth, func(pr httpkit.Router) {
		pr.Post("/", httpkit.Call(h.upload))
	})
}

// @Summary Upload a Hinge export
// @Description Accepts the matches.json array as the body or as the multipart field "file"
// @Tags uploads
// @Accept json,mpfd
// @Produce json
// @Success 202 {object} domain.Upload
// @Failure 400 {object} httpkit.Envelope
// @Failure 401 {object} httpkit.Envelope
// @Router /uploads [post]
func (h *Handlers) upload(r *stdhttp.Request) (any, error) {
	uid, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}

	var evs []events.Event
	if isMultipart(r) {
		evs, err = h.fromForm(r)
	} else {
		evs, err = bind.ParseJSON[[]events.Event](r, bind.JSONOptions{MaxBytes: h.MaxBytes})
		if err == nil && evs == nil {
			err = perr.JSONErrf("export must be a JSON array")
		}
	}
	if err != nil {
		return nil, err
	}

	up, err := h.Ingester.Ingest(r.Context(), uid, evs)
	if err != nil {
		return nil, err
	}
	return httpkit.Accepted(up), nil
}

func isMultipart(r *stdhttp.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

func (h *Handlers) fromForm(r *stdhttp.Request) ([]events.Event, error) {
	if h.MaxBytes > 0 {
		r.Body = stdhttp.MaxBytesReader(nil, r.Body, h.MaxBytes)
	}
	f, _, err := r.FormFile(FileField)
	if err != nil {
		return nil, perr.WithField(perr.Wrap(err, perr.ErrorCodeValidation, "missing export file"), FileField)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.C(r.Context()).Debug().Err(err).Msg("close upload file")
		}
	}()
	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "read export file")
	}
	return events.Decode(raw)
}
