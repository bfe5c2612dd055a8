package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Operator is the comparison applied by a Cond.
type Operator string

const (
	OpEq       Operator = "eq"
	OpGte      Operator = "gte"
	OpLte      Operator = "lte"
	OpIn       Operator = "in"
	OpContains Operator = "contains"
)

// Filter is a storage-agnostic predicate over logical field names.
// Storage adapters translate it into their own representation.
type Filter interface {
	isFilter()
}

// And matches when every child matches. An empty And matches everything.
type And []Filter

// Or matches when at least one child matches. An empty Or matches nothing.
type Or []Filter

// Cond compares a single field with a value.
type Cond struct {
	Field string
	Op    Operator
	Value any
}

// AllWords matches when the field contains every word, in any order, case-insensitively.
type AllWords struct {
	Field string
	Words []string
}

func (And) isFilter()      {}
func (Or) isFilter()       {}
func (Cond) isFilter()     {}
func (AllWords) isFilter() {}

// SearchClause builds the OR-across-fields clause for a free-text search term.
// It returns nil when the term has no words or no fields are searchable.
func SearchClause(term string, fields []string) Filter {
	words := strings.Fields(strings.ToLower(term))
	if len(words) == 0 || len(fields) == 0 {
		return nil
	}
	clause := make(Or, 0, len(fields))
	for _, f := range fields {
		clause = append(clause, AllWords{Field: f, Words: words})
	}
	return clause
}

// Getter resolves a logical field of a document.
type Getter func(field string) (any, bool)

// Evaluate applies f to a document. It defines the reference semantics that
// storage translations must agree with, and backs in-memory collections.
func Evaluate(f Filter, get Getter) bool {
	switch v := f.(type) {
	case nil:
		return true
	case And:
		for _, child := range v {
			if !Evaluate(child, get) {
				return false
			}
		}
		return true
	case Or:
		for _, child := range v {
			if Evaluate(child, get) {
				return true
			}
		}
		return false
	case AllWords:
		raw, ok := get(v.Field)
		if !ok {
			return false
		}
		text := strings.ToLower(stringify(raw))
		for _, w := range v.Words {
			if !strings.Contains(text, strings.ToLower(w)) {
				return false
			}
		}
		return true
	case Cond:
		raw, ok := get(v.Field)
		if !ok {
			return false
		}
		return evalCond(v, raw)
	default:
		return false
	}
}

func evalCond(c Cond, actual any) bool {
	switch c.Op {
	case OpEq:
		cmp, ok := compare(actual, c.Value)
		return ok && cmp == 0
	case OpGte:
		cmp, ok := compare(actual, c.Value)
		return ok && cmp >= 0
	case OpLte:
		cmp, ok := compare(actual, c.Value)
		return ok && cmp <= 0
	case OpIn:
		values, ok := c.Value.([]any)
		if !ok {
			return false
		}
		for _, want := range values {
			if cmp, ok := compare(actual, want); ok && cmp == 0 {
				return true
			}
		}
		return false
	case OpContains:
		needle, ok := c.Value.(string)
		if !ok {
			return false
		}
		return strings.Contains(strings.ToLower(stringify(actual)), strings.ToLower(needle))
	}
	return false
}

// compare orders two scalar values of compatible types.
func compare(a, b any) (int, bool) {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		if !ok {
			return 0, false
		}
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		}
		return 0, true
	}
	switch av := a.(type) {
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return av.Compare(bv), true
	case *time.Time:
		if av == nil {
			return 0, false
		}
		return compare(*av, b)
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, false
		}
		if av == bv {
			return 0, true
		}
		return 1, true
	case uuid.UUID:
		return strings.Compare(av.String(), stringify(b)), true
	case *uuid.UUID:
		if av == nil {
			return 0, false
		}
		return compare(*av, b)
	}
	return strings.Compare(stringify(a), stringify(b)), true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	}
	return fmt.Sprint(v)
}
