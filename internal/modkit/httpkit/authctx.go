package httpkit

import (
	"net/http"
	"strings"

	perr "matchlog/internal/platform/errors"
	pnet "matchlog/internal/platform/net"
)

// User returns the authenticated user id
func User(r *http.Request) (string, error) {
	uid := pnet.UserID(r.Context())
	if uid == "" {
		return "", perr.Unauthorizedf("missing bearer token")
	}
	return uid, nil
}

// BearerToken extracts the token from "Authorization: Bearer <token>", scheme case insensitive
func BearerToken(r *http.Request) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
		return "", perr.Unauthorizedf("missing bearer token")
	}
	return strings.TrimSpace(token), nil
}
