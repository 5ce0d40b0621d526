// Package table serves the declarative admin tables the platform frontend
// renders: column and filter metadata plus validated, paginated row pages.
// Every request is checked against the table's declaration before any SQL
// runs; the model and the frontend never supply identifiers.
package table

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRequest wraps every request-validation failure so transport
// layers can map them to a client error.
var ErrInvalidRequest = errors.New("invalid table request")

// Column types understood by the frontend renderer.
const (
	TypeText     = "text"
	TypeNumber   = "number"
	TypeMoney    = "money"
	TypeDateTime = "datetime"
	TypeBadge    = "badge"
)

const (
	defaultPerPage = 25
	maxPerPage     = 100
)

type Column struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Type     string `json:"type"`
	Sortable bool   `json:"sortable,omitempty"`
	Align    string `json:"align,omitempty"`
}

type Filter struct {
	Key     string   `json:"key"`
	Label   string   `json:"label"`
	Type    string   `json:"type"`
	Options []string `json:"options,omitempty"`
}

type RowAction struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Confirm bool   `json:"confirm,omitempty"`
}

// Definition is everything the frontend needs to render one admin table.
// DefaultSort is "key:dir".
type Definition struct {
	Name        string      `json:"name"`
	Title       string      `json:"title"`
	Columns     []Column    `json:"columns"`
	Filters     []Filter    `json:"filters,omitempty"`
	Actions     []RowAction `json:"actions,omitempty"`
	DefaultSort string      `json:"default_sort"`
}

// Request is one page request as it arrives from the frontend.
type Request struct {
	Page    int               `json:"page"`
	PerPage int               `json:"per_page"`
	Sort    string            `json:"sort"`
	Dir     string            `json:"dir"`
	Search  string            `json:"search"`
	Filters map[string]string `json:"filters"`
}

type Page struct {
	Rows     []map[string]any `json:"rows"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	PerPage  int              `json:"per_page"`
	LastPage int              `json:"last_page"`
}

// normalize clamps paging and canonicalizes the sort direction. Key
// validation happens in validate, against the definition.
func (r Request) normalize() Request {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PerPage <= 0 {
		r.PerPage = defaultPerPage
	}
	if r.PerPage > maxPerPage {
		r.PerPage = maxPerPage
	}
	r.Sort = strings.TrimSpace(r.Sort)
	r.Dir = strings.ToLower(strings.TrimSpace(r.Dir))
	r.Search = strings.TrimSpace(r.Search)
	return r
}

// validate rejects undeclared sort and filter keys. This runs before any
// SQL is built; an invalid request never reaches the store.
func validate(def Definition, r Request) error {
	if r.Dir != "" && r.Dir != "asc" && r.Dir != "desc" {
		return fmt.Errorf("%w: sort direction %q must be asc or desc", ErrInvalidRequest, r.Dir)
	}
	if r.Sort != "" {
		col, ok := findColumn(def, r.Sort)
		if !ok {
			return fmt.Errorf("%w: unknown sort column %q on table %s", ErrInvalidRequest, r.Sort, def.Name)
		}
		if !col.Sortable {
			return fmt.Errorf("%w: column %q on table %s is not sortable", ErrInvalidRequest, r.Sort, def.Name)
		}
	}
	for key := range r.Filters {
		if !hasFilter(def, key) {
			return fmt.Errorf("%w: unknown filter %q on table %s", ErrInvalidRequest, key, def.Name)
		}
	}
	return nil
}

func findColumn(def Definition, key string) (Column, bool) {
	for _, col := range def.Columns {
		if col.Key == key {
			return col, true
		}
	}
	return Column{}, false
}

func hasFilter(def Definition, key string) bool {
	for _, f := range def.Filters {
		if f.Key == key {
			return true
		}
	}
	return false
}
