package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"moviecat/cli/internal/config"
)

// recorder keeps the Authorization header of every request the fake API saw.
type recorder struct {
	mu    sync.Mutex
	auths []string
	ids   []string
}

func (r *recorder) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.mu.Lock()
		r.auths = append(r.auths, req.Header.Get("Authorization"))
		r.ids = append(r.ids, req.Header.Get("X-Request-ID"))
		r.mu.Unlock()
		next.ServeHTTP(w, req)
	})
}

func (r *recorder) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.auths) == 0 {
		return ""
	}
	return r.auths[len(r.auths)-1]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type staticSource string

func (s staticSource) Credential(context.Context) (string, bool) { return string(s), s != "" }

func testEndpoints() config.Endpoints {
	return config.Endpoints{
		Login:      "/api/auth/login",
		Register:   "/api/auth/register",
		Profile:    "/api/auth/profile",
		Categories: "/api/categories",
		Movies:     "/api/movies",
		Search:     "/api/search",
		History:    "/api/history",
	}
}

// newTestClient starts a chi-routed fake API and returns a client bound to it.
func newTestClient(t *testing.T, routes func(r chi.Router)) (*HTTP, *Pipeline, *recorder) {
	t.Helper()
	rec := &recorder{}
	r := chi.NewRouter()
	r.Use(rec.middleware)
	routes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	pipe, err := NewPipeline(PipelineOptions{Timeout: 2 * time.Second, UserAgent: "moviecat/test"})
	require.NoError(t, err)
	api := config.API{BaseURL: srv.URL + "/", Timeout: 2 * time.Second, Endpoints: testEndpoints()}
	return New(api, pipe, nil), pipe, rec
}
