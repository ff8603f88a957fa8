package query

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PaesslerAG/jsonpath"

	"github.com/hrntsm/dmkit/internal/domain"
)

// Document converts metadata rows into the generic JSON shape queries run
// against:
//
//	[ [ {"key": "...", "value": "..."}, ... ], ... ]
//
// Row i is the object at geometry index i.
func Document(rows []domain.MetadataRow) []any {
	out := make([]any, 0, len(rows))
	for _, row := range rows {
		items := make([]any, 0, len(row))
		for _, us := range row {
			items = append(items, map[string]any{
				"key":   us.Key,
				"value": us.Value,
			})
		}
		out = append(out, items)
	}
	return out
}

// Select evaluates a JSONPath expression against rows.
//
// Examples:
//   - $[0]                         user strings of the first object
//   - $[*][?(@.key=="material")].value  every "material" value
func Select(rows []domain.MetadataRow, expr string) (any, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, &domain.OpError{
			Op:   "query.select",
			Kind: domain.KindInvalidParameter,
			Err:  fmt.Errorf("empty jsonpath expression: %w", domain.ErrInvalidParameter),
		}
	}

	val, err := jsonpath.Get(expr, Document(rows))
	if err != nil {
		return nil, &domain.OpError{
			Op:   "query.select",
			Kind: domain.KindInvalidParameter,
			Err:  fmt.Errorf("jsonpath %q: %v: %w", expr, err, domain.ErrInvalidParameter),
		}
	}
	return val, nil
}

// Values runs Select and flattens the result into strings, in result order.
// Non-string leaves are JSON encoded.
func Values(rows []domain.MetadataRow, expr string) ([]string, error) {
	val, err := Select(rows, expr)
	if err != nil {
		return nil, err
	}

	var out []string
	if err := flatten(val, &out); err != nil {
		return nil, &domain.OpError{
			Op:   "query.values",
			Kind: domain.KindExecution,
			Err:  err,
		}
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func flatten(v any, out *[]string) error {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		*out = append(*out, t)
		return nil
	case []any:
		for _, item := range t {
			if err := flatten(item, out); err != nil {
				return err
			}
		}
		return nil
	case float64, bool, int, int64, uint64:
		*out = append(*out, fmt.Sprint(t))
		return nil
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("cannot convert %T to string: %w", t, err)
		}
		*out = append(*out, string(b))
		return nil
	}
}
