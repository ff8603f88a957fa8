// Package template expands {{name}} placeholders in user-configured strings
// such as the export file name.
package template

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hrntsm/dmkit/internal/domain"
)

// RenderString replaces {{name}} placeholders with vars values.
// It returns an error if a variable is missing or a placeholder is malformed.
func RenderString(input string, vars map[string]string) (string, error) {
	var out strings.Builder
	rest := input
	for {
		start := strings.Index(rest, "{{")
		if start == -1 {
			out.WriteString(rest)
			return out.String(), nil
		}
		out.WriteString(rest[:start])
		rest = rest[start+2:]

		end := strings.Index(rest, "}}")
		if end == -1 {
			return "", invalid(input, "unclosed placeholder")
		}

		key := strings.TrimSpace(rest[:end])
		if key == "" {
			return "", invalid(input, "empty placeholder")
		}

		value, ok := vars[key]
		if !ok {
			return "", invalid(input, fmt.Sprintf("unknown placeholder %q", key))
		}
		out.WriteString(value)
		rest = rest[end+2:]
	}
}

// FilenameVars are the placeholders available to export.filename.
func FilenameVars(shape domain.PendingShape, now time.Time) map[string]string {
	return map[string]string{
		"kind":     shape.Kind.String(),
		"radius":   strconv.FormatFloat(shape.Radius, 'g', -1, 64),
		"diameter": strconv.FormatFloat(shape.Diameter(), 'g', -1, 64),
		"date":     now.Format("20060102"),
		"time":     now.Format("150405"),
	}
}

// Filename renders an export file name for shape. A nil shape leaves the
// pattern as is, so the exporter can report the missing shape itself.
func Filename(pattern string, shape *domain.PendingShape, now time.Time) (string, error) {
	if shape == nil {
		return pattern, nil
	}
	return RenderString(pattern, FilenameVars(*shape, now))
}

func invalid(input, msg string) error {
	return &domain.OpError{
		Op:   "template.render",
		Kind: domain.KindInvalidConfig,
		Err:  fmt.Errorf("%s in %q: %w", msg, input, domain.ErrInvalidConfig),
	}
}
