// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package sources

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// text accepts a JSON string, number, bool or null and keeps its textual form.
// Upstreams are inconsistent about quoting numeric fields.
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*t = ""
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = text(s)
	case '{', '[':
		*t = ""
	default:
		*t = text(b)
	}
	return nil
}

func (t text) String() string { return strings.TrimSpace(string(t)) }

// Float parses the value as a number.
func (t text) Float() (float64, bool) {
	f, err := strconv.ParseFloat(t.String(), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Int parses the value as an integer, returning 0 when it is not one.
func (t text) Int() int {
	n, err := strconv.Atoi(t.String())
	if err != nil {
		return 0
	}
	return n
}

// oneOrMany decodes either a single object or a list of objects into a list.
type oneOrMany[T any] []T

func (m *oneOrMany[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || string(b) == "null":
		*m = nil
	case b[0] == '[':
		var list []T
		if err := json.Unmarshal(b, &list); err != nil {
			return err
		}
		*m = list
	default:
		var one T
		if err := json.Unmarshal(b, &one); err != nil {
			return err
		}
		*m = oneOrMany[T]{one}
	}
	return nil
}
