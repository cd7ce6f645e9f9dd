package backend

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "moviecat/cli/internal/errors"
)

func okRoutes(r chi.Router) {
	r.Get("/api/categories", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "success", "data": []any{}})
	})
}

func TestPipeline_CredentialPrecedence(t *testing.T) {
	ctx := context.Background()
	h, pipe, rec := newTestClient(t, okRoutes)
	get := Request{Method: http.MethodGet, Path: "/api/categories"}

	_, err := h.Raw(ctx, get)
	require.NoError(t, err)
	assert.Empty(t, rec.last(), "no credential anywhere is not an error")

	pipe.SetSource(staticSource("from-store"))
	_, err = h.Raw(ctx, get)
	require.NoError(t, err)
	assert.Equal(t, "Bearer from-store", rec.last())

	pipe.SetDefaultCredential("abc123")
	_, err = h.Raw(ctx, get)
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc123", rec.last())

	explicit := get
	explicit.Token = "explicit"
	_, err = h.Raw(ctx, explicit)
	require.NoError(t, err)
	assert.Equal(t, "Bearer explicit", rec.last(), "a request's own bearer is kept")

	pipe.ClearDefaultCredential()
	assert.Empty(t, pipe.DefaultCredential())
	_, err = h.Raw(ctx, get)
	require.NoError(t, err)
	assert.Equal(t, "Bearer from-store", rec.last())

	rec.mu.Lock()
	ids := append([]string(nil), rec.ids...)
	rec.mu.Unlock()
	require.Len(t, ids, 5)
	assert.NotEqual(t, ids[0], ids[1])
	for _, id := range ids {
		assert.Len(t, id, 36)
	}
}

func TestPipeline_ClassifiesFailures(t *testing.T) {
	ctx := context.Background()
	h, pipe, _ := newTestClient(t, func(r chi.Router) {
		r.Get("/rejected", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"status": "error", "message": "token expired"})
		})
		r.Get("/boom", func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "kaput", http.StatusInternalServerError)
		})
		r.Get("/slow", func(w http.ResponseWriter, req *http.Request) {
			select {
			case <-req.Context().Done():
			case <-time.After(5 * time.Second):
			}
		})
	})

	_, err := h.Raw(ctx, Request{Method: http.MethodGet, Path: "/rejected"})
	assert.Equal(t, apperrors.Rejected, apperrors.KindOf(err))
	assert.Equal(t, "token expired", apperrors.MessageOf(err))

	_, err = h.Raw(ctx, Request{Method: http.MethodGet, Path: "/boom"})
	assert.Equal(t, apperrors.Response, apperrors.KindOf(err))

	short, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	_, err = h.Raw(short, Request{Method: http.MethodGet, Path: "/slow"})
	assert.Equal(t, apperrors.NoResponse, apperrors.KindOf(err))
	assert.Equal(t, "network request failed", apperrors.MessageOf(err))

	cancelled, stop := context.WithCancel(ctx)
	stop()
	_, err = h.Raw(cancelled, Request{Method: http.MethodGet, Path: "/boom"})
	assert.Equal(t, apperrors.Client, apperrors.KindOf(err))

	metrics, err := pipe.Metrics()
	require.NoError(t, err)
	got := map[string]float64{}
	for _, c := range metrics {
		got[c.Endpoint+" "+c.Outcome] = c.Count
	}
	assert.Equal(t, map[string]float64{
		"/rejected rejected": 1,
		"/boom response":     1,
		"/boom client":       1,
		"/slow no_response":  1,
	}, got)
}

func TestPipeline_UnreachableServer(t *testing.T) {
	pipe, err := NewPipeline(PipelineOptions{Timeout: time.Second})
	require.NoError(t, err)
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, "http://127.0.0.1:1/api", nil)
	require.NoError(t, err)

	_, err = pipe.Do(req, "unreachable")
	assert.Equal(t, apperrors.NoResponse, apperrors.KindOf(err))
}

func TestParseBearerToken(t *testing.T) {
	tests := map[string]string{
		"Bearer abc123":  "abc123",
		"bearer   xyz  ": "xyz",
		"BEARER\tt":      "t",
		"Basic dXNlcg==": "",
		"Bearer":         "",
		"Bearerabc":      "",
		"":               "",
	}
	for in, want := range tests {
		assert.Equal(t, want, parseBearerToken(in), in)
	}
}
