package query

import (
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/pkg/apperror"
)

// Query-string keys understood by every list endpoint.
const (
	ParamPage       = "page"
	ParamLimit      = "limit"
	ParamSearch     = "search"
	ParamSearchTerm = "searchTerm"
	ParamSortBy     = "sortBy"
	ParamSortOrder  = "sortOrder"
)

// SortOrder is the direction of a Sort.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// Sort orders results by a single logical field. Ties are left to the storage.
type Sort struct {
	Field string
	Order SortOrder
}

// DefaultSort is used when an entity declares none.
var DefaultSort = Sort{Field: "createdAt", Order: Desc}

// ValueKind tells BuildSpec how to parse a raw filter value.
type ValueKind int

const (
	String ValueKind = iota
	Number
	Time
	Bool
	UUID
)

// FieldRule maps a query parameter onto a filter condition.
type FieldRule struct {
	Field string
	Op    Operator
	Kind  ValueKind
}

// EntityConfig declares how one entity can be searched, filtered and sorted.
type EntityConfig struct {
	Name         string
	SearchFields []string
	Filters      map[string]FieldRule // keyed by query parameter
	SortFields   []string
	DefaultSort  Sort
}

// Params holds raw, untrusted list parameters.
type Params map[string]string

// FromValues keeps the first value of every key.
func FromValues(values url.Values) Params {
	p := make(Params, len(values))
	for k, v := range values {
		if len(v) > 0 {
			p[k] = v[0]
		}
	}
	return p
}

// With returns a copy of p with key set to value.
func (p Params) With(key, value string) Params {
	out := make(Params, len(p)+1)
	for k, v := range p {
		out[k] = v
	}
	out[key] = value
	return out
}

// Limits bounds page sizes.
type Limits struct {
	DefaultLimit int
	MaxLimit     int
}

// DefaultLimits is page=1, limit=10, capped at 100.
var DefaultLimits = Limits{DefaultLimit: 10, MaxLimit: 100}

// Spec is a normalized list request.
type Spec struct {
	Page   int
	Limit  int
	Search string
	Filter And
	Sort   Sort
}

// Skip is the number of items before the requested page.
func (s Spec) Skip() int {
	return (s.Page - 1) * s.Limit
}

// BuildSpec validates raw params against cfg. Missing or non-numeric page/limit
// fall back to defaults; explicit values below 1 are rejected.
func BuildSpec(params Params, cfg EntityConfig, limits Limits) (Spec, error) {
	if limits.DefaultLimit < 1 {
		limits.DefaultLimit = DefaultLimits.DefaultLimit
	}
	if limits.MaxLimit < limits.DefaultLimit {
		limits.MaxLimit = limits.DefaultLimit
	}

	page, err := parsePositive(params, ParamPage, 1)
	if err != nil {
		return Spec{}, err
	}
	limit, err := parsePositive(params, ParamLimit, limits.DefaultLimit)
	if err != nil {
		return Spec{}, err
	}
	if limit > limits.MaxLimit {
		limit = limits.MaxLimit
	}
	// Skip must stay representable.
	if page > math.MaxInt/limit {
		return Spec{}, apperror.NewValidation(apperror.ReasonInvalidPagination, "page is too large", ParamPage)
	}

	spec := Spec{Page: page, Limit: limit, Filter: And{}}

	// Deterministic order keeps the generated storage query stable.
	keys := make([]string, 0, len(cfg.Filters))
	for k := range cfg.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		raw, ok := params[key]
		raw = strings.TrimSpace(raw)
		if !ok || raw == "" {
			continue
		}
		if !utf8.ValidString(raw) {
			return Spec{}, apperror.NewValidation(apperror.ReasonInvalidFilter,
				key+" must be valid UTF-8", key)
		}
		rule := cfg.Filters[key]
		value, err := parseValue(rule, raw)
		if err != nil {
			return Spec{}, apperror.NewValidation(apperror.ReasonInvalidFilter,
				"invalid value for filter "+key, key)
		}
		spec.Filter = append(spec.Filter, Cond{Field: rule.Field, Op: rule.Op, Value: value})
	}

	term := params[ParamSearchTerm]
	if term == "" {
		term = params[ParamSearch]
	}
	spec.Search = strings.TrimSpace(term)
	if !utf8.ValidString(spec.Search) {
		return Spec{}, apperror.NewValidation(apperror.ReasonInvalidFilter, "search must be valid UTF-8", ParamSearch)
	}
	if clause := SearchClause(spec.Search, cfg.SearchFields); clause != nil {
		spec.Filter = append(spec.Filter, clause)
	}

	spec.Sort, err = buildSort(params, cfg)
	if err != nil {
		return Spec{}, err
	}
	return spec, nil
}

func parsePositive(params Params, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(params[key])
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback, nil
	}
	if n < 1 {
		return 0, apperror.NewValidation(apperror.ReasonInvalidPagination, key+" must be at least 1", key)
	}
	return n, nil
}

func buildSort(params Params, cfg EntityConfig) (Sort, error) {
	s := cfg.DefaultSort
	if s.Field == "" {
		s = DefaultSort
	}
	if by := strings.TrimSpace(params[ParamSortBy]); by != "" {
		allowed := false
		for _, f := range cfg.SortFields {
			if f == by {
				allowed = true
				break
			}
		}
		if !allowed {
			return Sort{}, apperror.NewValidation(apperror.ReasonInvalidSort, "cannot sort by "+by, ParamSortBy)
		}
		s.Field = by
	}
	if order := strings.TrimSpace(params[ParamSortOrder]); order != "" {
		switch SortOrder(strings.ToLower(order)) {
		case Asc:
			s.Order = Asc
		case Desc:
			s.Order = Desc
		default:
			return Sort{}, apperror.NewValidation(apperror.ReasonInvalidSort, "sortOrder must be asc or desc", ParamSortOrder)
		}
	}
	return s, nil
}

func parseValue(rule FieldRule, raw string) (any, error) {
	if rule.Op == OpIn {
		parts := strings.Split(raw, ",")
		values := make([]any, 0, len(parts))
		for _, part := range parts {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			v, err := parseScalar(rule.Kind, part)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		return values, nil
	}
	return parseScalar(rule.Kind, raw)
}

func parseScalar(kind ValueKind, raw string) (any, error) {
	switch kind {
	case Number:
		return strconv.ParseFloat(raw, 64)
	case Time:
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t, nil
		}
		return time.Parse(time.DateOnly, raw)
	case Bool:
		return strconv.ParseBool(raw)
	case UUID:
		return uuid.Parse(raw)
	}
	return raw, nil
}
