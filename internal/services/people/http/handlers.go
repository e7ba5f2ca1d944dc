// Package http serves the read endpoints for a signed in user
package http

import (
	stdhttp "net/http"
	"strconv"

	"matchlog/internal/modkit/httpkit"
	perr "matchlog/internal/platform/errors"
	"matchlog/internal/platform/net/http/bind"
	"matchlog/internal/platform/net/middleware"
	dom "matchlog/internal/services/people/domain"
)

// Handlers serves persons, matches, likes and summary
type Handlers struct {
	Reader dom.Reader
}

// Register mounts every route behind auth
func Register(r httpkit.Router, auth middleware.AuthPort, h *Handlers) {
	httpkit.Protected(r, auth, func(pr httpkit.Router) {
		httpkit.Get(pr, "/persons", h.persons)
		httpkit.Get(pr, "/matches", h.matches)
		httpkit.Get(pr, "/likes", h.likes)
		httpkit.Get(pr, "/summary", h.summary)
	})
}

type personsQuery struct {
	Page int `validate:"min=1"`
}

func parsePersonsQuery(r *stdhttp.Request) (personsQuery, error) {
	q := personsQuery{Page: 1}
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return q, perr.WithField(perr.Validationf("page must be a number"), "page")
		}
		q.Page = n
	}
	return q, bind.Struct(q)
}

// @Summary List persons
// @Tags people
// @Produce json
// @Param page query int false "1-based page, clamped to the last page"
// @Success 200 {object} domain.PersonsPage
// @Failure 404 {object} httpkit.Envelope
// @Router /persons [get]
func (h *Handlers) persons(r *stdhttp.Request) (any, error) {
	uid, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	q, err := parsePersonsQuery(r)
	if err != nil {
		return nil, err
	}
	return h.Reader.ListPersons(r.Context(), uid, q.Page)
}

// @Summary List matches
// @Tags people
// @Produce json
// @Router /matches [get]
func (h *Handlers) matches(r *stdhttp.Request) (any, error) {
	uid, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	return h.Reader.Matches(r.Context(), uid)
}

// @Summary List likes
// @Tags people
// @Produce json
// @Router /likes [get]
func (h *Handlers) likes(r *stdhttp.Request) (any, error) {
	uid, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	return h.Reader.Likes(r.Context(), uid)
}

// @Summary Upload summary
// @Tags people
// @Produce json
// @Success 200 {object} domain.Report
// @Router /summary [get]
func (h *Handlers) summary(r *stdhttp.Request) (any, error) {
	uid, err := httpkit.User(r)
	if err != nil {
		return nil, err
	}
	return h.Reader.Summary(r.Context(), uid)
}
