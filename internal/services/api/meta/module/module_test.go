package module

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"matchlog/internal/modkit"
	"matchlog/internal/platform/config"
	phttp "matchlog/internal/platform/net/http"
	kit "matchlog/internal/platform/testkit"

	"github.com/go-chi/chi/v5"
)

func TestMountsUnderMeta(t *testing.T) {
	m := New(modkit.Deps{Cfg: config.New()}, "matchlog-api")
	root := chi.NewRouter()
	m.MountRoutes(phttp.AdaptChi(root))

	rec := httptest.NewRecorder()
	root.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/meta/ready", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	kit.MustContain(t, rec.Body.String(), `"status":"skipped"`)
}

func TestNewRequiresServiceName(t *testing.T) {
	m := New(modkit.Deps{}, "")
	kit.MustPanic(t, func() { m.MountRoutes(phttp.AdaptChi(chi.NewRouter())) })
}
