// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package catalog reads the movie catalog and manages the watch history of the
// logged-in account. It owns no credentials: every call goes through the
// backend pipeline, which attaches the session's bearer token.
package catalog

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"moviecat/cli/internal/backend"
	apperrors "moviecat/cli/internal/errors"
)

// Client is the catalog API.
type Client struct {
	h *backend.HTTP
}

// New returns a Client that sends its requests through h.
func New(h *backend.HTTP) *Client {
	return &Client{h: h}
}

// Categories lists all categories.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var out []Category
	err := c.h.Call(ctx, backend.Request{Method: http.MethodGet, Path: c.h.Endpoints().Categories}, &out)
	return out, err
}

// Movies lists movies, optionally only those of one category (categoryID > 0).
func (c *Client) Movies(ctx context.Context, categoryID int) ([]Movie, error) {
	r := backend.Request{Method: http.MethodGet, Path: c.h.Endpoints().Movies}
	if categoryID > 0 {
		r.Query = url.Values{"category_id": {strconv.Itoa(categoryID)}}
	}
	var out []Movie
	err := c.h.Call(ctx, r, &out)
	return out, err
}

// Movie returns one movie with its timestamps.
func (c *Client) Movie(ctx context.Context, id int) (Movie, error) {
	if id <= 0 {
		return Movie{}, apperrors.New(apperrors.Client, "movie id must be positive")
	}
	var out Movie
	err := c.h.Call(ctx, backend.Request{
		Method: http.MethodGet,
		Path:   c.h.Endpoints().Movies + "/" + strconv.Itoa(id),
		Label:  c.h.Endpoints().Movies + "/{id}",
	}, &out)
	return out, err
}

// Search finds movies whose title contains query. A blank query returns an
// empty result without calling the API.
func (c *Client) Search(ctx context.Context, query string) (SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return SearchResult{Movies: []Movie{}}, nil
	}
	var out SearchResult
	err := c.h.Call(ctx, backend.Request{
		Method: http.MethodGet,
		Path:   c.h.Endpoints().Search,
		Query:  url.Values{"query": {query}},
	}, &out)
	return out, err
}

// History lists the watch history of the logged-in account.
func (c *Client) History(ctx context.Context) ([]HistoryItem, error) {
	var out []HistoryItem
	err := c.h.Call(ctx, backend.Request{Method: http.MethodGet, Path: c.h.Endpoints().History}, &out)
	return out, err
}

type historyEntry struct {
	MovieID  int `json:"movie_id"`
	Progress int `json:"progress"`
}

// AddHistory records that movieID was watched up to progress percent.
func (c *Client) AddHistory(ctx context.Context, movieID, progress int) (HistoryItem, error) {
	if movieID <= 0 {
		return HistoryItem{}, apperrors.New(apperrors.Client, "movie id must be positive")
	}
	if progress < 0 || progress > 100 {
		return HistoryItem{}, apperrors.New(apperrors.Client, "progress must be between 0 and 100")
	}
	var out HistoryItem
	err := c.h.Call(ctx, backend.Request{
		Method: http.MethodPost,
		Path:   c.h.Endpoints().History,
		Body:   historyEntry{MovieID: movieID, Progress: progress},
	}, &out)
	return out, err
}

// RemoveHistory deletes one history entry.
func (c *Client) RemoveHistory(ctx context.Context, id int) error {
	return c.h.Call(ctx, backend.Request{
		Method: http.MethodDelete,
		Path:   c.h.Endpoints().History + "/" + strconv.Itoa(id),
		Label:  c.h.Endpoints().History + "/{id}",
	}, nil)
}

// ClearHistory deletes the whole watch history.
func (c *Client) ClearHistory(ctx context.Context) error {
	return c.h.Call(ctx, backend.Request{Method: http.MethodDelete, Path: c.h.Endpoints().History + "/clear"}, nil)
}
