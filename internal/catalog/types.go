// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package catalog

import "moviecat/cli/internal/backend"

// Category is a movie genre.
type Category struct {
	ID          backend.ID `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
}

// Movie is a catalog entry. ReleaseDate is YYYY-MM-DD or empty.
type Movie struct {
	ID          backend.ID `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ReleaseDate string     `json:"release_date"`
	MovieType   string     `json:"movie_type"`
	PosterURL   string     `json:"poster_url"`
	Director    string     `json:"director"`
	Rating      float64    `json:"rating"`
	CreatedAt   string     `json:"created_at,omitempty"`
	UpdatedAt   string     `json:"updated_at,omitempty"`
}

// SearchResult is the answer of a title search.
type SearchResult struct {
	Movies []Movie `json:"movies"`
	Total  int     `json:"total"`
}

// HistoryItem is one watched movie of the current account.
type HistoryItem struct {
	ID        backend.ID `json:"id"`
	MovieID   backend.ID `json:"movie_id"`
	Title     string     `json:"title"`
	PosterURL string     `json:"poster_url"`
	WatchTime string     `json:"watch_time"`
	Progress  int        `json:"progress"`
}
