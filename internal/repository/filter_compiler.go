package repository

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/KwaminaWhyte/pm-tnt-backend-sub001/internal/query"
)

// likeEscaper escapes LIKE metacharacters; Postgres uses backslash by default.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// CompileFilter renders a query.Filter as a WHERE fragment with "?" placeholders.
// columns maps logical field names to SQL columns; unknown fields are an error so
// that nothing from the request reaches the SQL text unchecked. An empty result
// means no restriction.
func CompileFilter(f query.Filter, columns map[string]string) (string, []interface{}, error) {
	if f == nil {
		return "", nil, nil
	}
	if and, ok := f.(query.And); ok && len(and) == 0 {
		return "", nil, nil
	}
	expr, err := toSqlizer(f, columns)
	if err != nil {
		return "", nil, err
	}
	return expr.ToSql()
}

func toSqlizer(f query.Filter, columns map[string]string) (sq.Sqlizer, error) {
	switch v := f.(type) {
	case query.And:
		out := make(sq.And, 0, len(v))
		for _, child := range v {
			s, err := toSqlizer(child, columns)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	case query.Or:
		out := make(sq.Or, 0, len(v))
		for _, child := range v {
			s, err := toSqlizer(child, columns)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	case query.AllWords:
		col, err := column(columns, v.Field)
		if err != nil {
			return nil, err
		}
		out := make(sq.And, 0, len(v.Words))
		for _, w := range v.Words {
			out = append(out, sq.ILike{col: "%" + likeEscaper.Replace(w) + "%"})
		}
		return out, nil
	case query.Cond:
		col, err := column(columns, v.Field)
		if err != nil {
			return nil, err
		}
		value := sqlValue(v.Value)
		switch v.Op {
		case query.OpEq, query.OpIn:
			return sq.Eq{col: value}, nil
		case query.OpGte:
			return sq.GtOrEq{col: value}, nil
		case query.OpLte:
			return sq.LtOrEq{col: value}, nil
		case query.OpContains:
			return sq.ILike{col: "%" + likeEscaper.Replace(fmt.Sprint(v.Value)) + "%"}, nil
		}
		return nil, fmt.Errorf("unsupported operator %q", v.Op)
	}
	return nil, fmt.Errorf("unsupported filter %T", f)
}

// sqlValue flattens values squirrel would otherwise expand into an IN list.
// uuid.UUID is a byte array, so it goes out as its string form.
func sqlValue(v any) any {
	switch val := v.(type) {
	case uuid.UUID:
		return val.String()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = sqlValue(item)
		}
		return out
	}
	return v
}

func column(columns map[string]string, field string) (string, error) {
	col, ok := columns[field]
	if !ok {
		return "", fmt.Errorf("field %q is not mapped to a column", field)
	}
	return col, nil
}

// orderColumn resolves a sort field, falling back to created_at.
func orderColumn(columns map[string]string, s query.Sort) (string, bool) {
	col, ok := columns[s.Field]
	if !ok {
		col = "created_at"
	}
	return col, s.Order == query.Desc
}
