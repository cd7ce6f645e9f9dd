package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviecat/cli/internal/backend"
	"moviecat/cli/internal/config"
	apperrors "moviecat/cli/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

var inception = map[string]any{
	"id": 1, "title": "Inception", "release_date": "2010-07-16", "movie_type": "sci-fi",
	"director": "Christopher Nolan", "rating": 8.8,
}

type fakeCatalog struct {
	history []map[string]any
}

func (f *fakeCatalog) routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/api/categories", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, map[string]any{"status": "success", "data": []any{
			map[string]any{"id": 1, "name": "Action"}, map[string]any{"id": 2, "name": "Drama"},
		}})
	})
	r.Get("/api/movies", func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Query().Get("category_id") == "2" {
			writeJSON(w, 200, map[string]any{"status": "success", "data": []any{}})
			return
		}
		writeJSON(w, 200, map[string]any{"status": "success", "data": []any{inception}})
	})
	r.Get("/api/movies/{id}", func(w http.ResponseWriter, req *http.Request) {
		if chi.URLParam(req, "id") != "1" {
			writeJSON(w, 404, map[string]any{"status": "error", "message": "movie not found"})
			return
		}
		writeJSON(w, 200, map[string]any{"status": "success", "data": inception})
	})
	r.Get("/api/search", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, 200, map[string]any{"status": "success", "data": map[string]any{
			"movies": []any{inception}, "total": 1,
		}})
	})
	r.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				if req.Header.Get("Authorization") != "Bearer abc123" {
					writeJSON(w, 401, map[string]any{"msg": "Missing Authorization Header"})
					return
				}
				next.ServeHTTP(w, req)
			})
		})
		r.Get("/api/history", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, 200, map[string]any{"status": "success", "data": f.history})
		})
		r.Post("/api/history", func(w http.ResponseWriter, req *http.Request) {
			var in map[string]int
			_ = json.NewDecoder(req.Body).Decode(&in)
			item := map[string]any{"id": len(f.history) + 1, "movie_id": in["movie_id"], "progress": in["progress"],
				"watch_time": "2025-03-01T12:00:00"}
			f.history = append(f.history, item)
			writeJSON(w, 200, map[string]any{"status": "success", "message": "saved", "data": item})
		})
		r.Delete("/api/history/{id}", func(w http.ResponseWriter, req *http.Request) {
			for i, it := range f.history {
				if fmt.Sprint(it["id"]) == chi.URLParam(req, "id") {
					f.history = append(f.history[:i], f.history[i+1:]...)
					writeJSON(w, 200, map[string]any{"status": "success", "message": "deleted"})
					return
				}
			}
			writeJSON(w, 404, map[string]any{"status": "error", "message": "record not found"})
		})
		r.Delete("/api/history/clear", func(w http.ResponseWriter, _ *http.Request) {
			f.history = []map[string]any{}
			writeJSON(w, 200, map[string]any{"status": "success", "message": "cleared"})
		})
	})
	return r
}

func newClient(t *testing.T) (*Client, *backend.Pipeline) {
	t.Helper()
	srv := httptest.NewServer((&fakeCatalog{history: []map[string]any{}}).routes())
	t.Cleanup(srv.Close)
	pipe, err := backend.NewPipeline(backend.PipelineOptions{Timeout: 2 * time.Second})
	require.NoError(t, err)
	h := backend.New(config.API{BaseURL: srv.URL, Endpoints: config.Endpoints{
		Categories: "/api/categories", Movies: "/api/movies", Search: "/api/search", History: "/api/history",
	}}, pipe, nil)
	return New(h), pipe
}

func TestBrowse(t *testing.T) {
	ctx := context.Background()
	c, _ := newClient(t)

	cats, err := c.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Drama", cats[1].Name)

	movies, err := c.Movies(ctx, 0)
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, backend.ID("1"), movies[0].ID)
	assert.InDelta(t, 8.8, movies[0].Rating, 0.001)

	movies, err = c.Movies(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, movies)

	m, err := c.Movie(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Christopher Nolan", m.Director)

	_, err = c.Movie(ctx, 99)
	assert.Equal(t, apperrors.Rejected, apperrors.KindOf(err))
	assert.Equal(t, "movie not found", apperrors.MessageOf(err))

	res, err := c.Search(ctx, "incep")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)

	res, err = c.Search(ctx, "   ")
	require.NoError(t, err)
	assert.Empty(t, res.Movies)
}

func TestHistoryNeedsCredential(t *testing.T) {
	ctx := context.Background()
	c, pipe := newClient(t)

	_, err := c.History(ctx)
	assert.Equal(t, apperrors.Response, apperrors.KindOf(err))

	pipe.SetDefaultCredential("abc123")
	item, err := c.AddHistory(ctx, 1, 40)
	require.NoError(t, err)
	assert.Equal(t, backend.ID("1"), item.MovieID)

	items, err := c.History(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 40, items[0].Progress)

	second, err := c.AddHistory(ctx, 1, 90)
	require.NoError(t, err)
	require.NoError(t, c.RemoveHistory(ctx, 1))
	items, err = c.History(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, second.ID, items[0].ID)

	err = c.RemoveHistory(ctx, 1)
	assert.Equal(t, apperrors.Rejected, apperrors.KindOf(err))

	require.NoError(t, c.ClearHistory(ctx))
	items, err = c.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = c.AddHistory(ctx, 1, 150)
	assert.Equal(t, apperrors.Client, apperrors.KindOf(err))
}
