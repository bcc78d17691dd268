package store

import (
	"fmt"
	"slices"
)

// Predicate is a single equality clause on one record field.
// A nil *Predicate matches every record.
//
// For list-valued fields (follow edges) a string value matches when the list
// contains it, and a non-empty list value matches when the list contains every
// element. An empty list value matches nothing.
type Predicate struct {
	Field  string `json:"field"`
	Equals any    `json:"equals"`
}

// Where builds a predicate
func Where(field string, equals any) *Predicate {
	return &Predicate{Field: field, Equals: equals}
}

func (p *Predicate) String() string {
	if p == nil {
		return "<all>"
	}
	return fmt.Sprintf("%s == %v", p.Field, p.Equals)
}

type fielded interface {
	FieldValue(field string) (any, bool)
}

func (p *Predicate) matches(rec fielded) bool {
	if p == nil {
		return true
	}
	got, ok := rec.FieldValue(p.Field)
	if !ok {
		return false
	}

	if list, isList := got.([]string); isList {
		want, ok := stringList(p.Equals)
		if !ok || len(want) == 0 {
			return false
		}
		for _, w := range want {
			if !slices.Contains(list, w) {
				return false
			}
		}
		return true
	}

	return scalarEqual(got, p.Equals)
}

// stringList accepts a string, []string or a decoded JSON array of strings
func stringList(v any) ([]string, bool) {
	switch want := v.(type) {
	case string:
		return []string{want}, true
	case []string:
		return want, true
	case []any:
		out := make([]string, 0, len(want))
		for _, item := range want {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

// scalarEqual compares strings and integers. Integers may arrive as float64
// when the predicate was decoded from JSON.
func scalarEqual(got, want any) bool {
	switch g := got.(type) {
	case string:
		w, ok := want.(string)
		return ok && g == w
	case int:
		switch w := want.(type) {
		case int:
			return g == w
		case int64:
			return int64(g) == w
		case float64:
			return float64(g) == w
		}
	}
	return false
}
