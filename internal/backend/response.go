// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID is an account or record id that the API sends either as a JSON number
// or as a string. It is kept in its decimal string form.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("id %s is not an integer", b)
	}
	*id = ID(strconv.FormatInt(n, 10))
	return nil
}

func (id ID) String() string { return string(id) }

// shapeKind tags which of the accepted login response layouts was received.
type shapeKind int

const (
	shapeUnknown shapeKind = iota
	// shapeFlat: {"status", "token", "user_id", "username"}
	shapeFlat
	// shapeNested: {"status", "data": {"token", "user_id" | "id", "username"}}
	shapeNested
)

func (k shapeKind) String() string {
	switch k {
	case shapeFlat:
		return "flat"
	case shapeNested:
		return "nested"
	default:
		return "unknown"
	}
}

type loginFields struct {
	Token    string `json:"token"`
	UserID   ID     `json:"user_id"`
	ID       ID     `json:"id"`
	Username string `json:"username"`
}

type loginWire struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Data    *loginFields `json:"data"`
	loginFields
}

// loginShape is a login or register response decoded once into one of the
// accepted layouts.
type loginShape struct {
	kind     shapeKind
	status   string
	message  string
	token    string
	userID   ID
	username string
}

func (s loginShape) success() bool { return strings.EqualFold(s.status, "success") }

// complete reports whether the shape carries everything a session needs.
func (s loginShape) complete() bool { return s.token != "" && s.userID != "" }

func decodeLoginShape(body []byte) (loginShape, error) {
	var w loginWire
	if err := json.Unmarshal(body, &w); err != nil {
		return loginShape{}, err
	}
	s := loginShape{status: w.Status, message: w.Message}

	f := w.loginFields
	switch {
	case w.Data != nil && (w.Data.Token != "" || w.Data.UserID != "" || w.Data.ID != ""):
		s.kind = shapeNested
		f = *w.Data
	case f.Token != "" || f.UserID != "":
		s.kind = shapeFlat
	}

	s.token = strings.TrimSpace(f.Token)
	s.userID = f.UserID
	if s.userID == "" {
		s.userID = f.ID
	}
	s.username = f.Username
	return s, nil
}
