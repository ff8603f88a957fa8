package tui

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hrntsm/dmkit/internal/domain"
)

var reLine = regexp.MustCompile(`(?i)\bline\s+(\d+)\b`)

// userMessage turns an error into a short toast. Details stay in the log.
func userMessage(err error) string {
	if err == nil {
		return ""
	}

	var oe *domain.OpError
	if !errors.As(err, &oe) {
		if looksLikeYAMLProblem(err.Error()) {
			if line := extractLine(err.Error()); line != "" {
				return "Invalid YAML line " + line
			}
			return "Invalid YAML"
		}
		return "Unexpected error (see logs)"
	}

	name := ""
	if strings.TrimSpace(oe.Path) != "" {
		name = filepath.Base(oe.Path)
	}

	switch oe.Kind {
	case domain.KindNoShape:
		return "No sphere to export yet"

	case domain.KindMalformedDocument:
		if name != "" {
			return name + " is not a readable .3dm file"
		}
		return "Not a readable .3dm file"

	case domain.KindCapabilityUnavailable:
		return "Geometry kernel unavailable, try again"

	case domain.KindInvalidParameter:
		if strings.HasPrefix(oe.Op, "builder.") {
			return "Radius must be greater than zero"
		}
		if oe.Op == "fsfile.read" {
			return "Not a regular file (or too large): " + name
		}
		return "Invalid value"

	case domain.KindNotFound:
		if errors.Is(err, domain.ErrNotFound) && strings.Contains(err.Error(), "no file selected") {
			return "No file selected"
		}
		if strings.Contains(oe.Op, "workspacefinder") {
			return "Workspace not found"
		}
		if name != "" {
			return "File not found: " + name
		}
		return "Not found"

	case domain.KindInvalidConfig:
		base := "config"
		if name != "" {
			base = name
		}
		if line := extractLine(err.Error()); line != "" {
			return "Invalid YAML at " + base + " line " + line
		}
		if looksLikeYAMLProblem(err.Error()) {
			return "Invalid YAML at " + base
		}
		return "Invalid config"

	case domain.KindExecution:
		if strings.HasPrefix(oe.Op, "fsfile.") {
			return "Could not access file (see logs)"
		}
		return "Unexpected error (see logs)"

	default:
		return "Unexpected error (see logs)"
	}
}

func looksLikeYAMLProblem(s string) bool {
	ls := strings.ToLower(s)
	return strings.Contains(ls, "yaml:") || strings.Contains(ls, "did not find expected") || strings.Contains(ls, "cannot unmarshal")
}

func extractLine(s string) string {
	m := reLine.FindStringSubmatch(s)
	if len(m) == 2 {
		return m[1]
	}
	return ""
}
