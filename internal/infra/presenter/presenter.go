// Package presenter renders extracted metadata rows for humans and tools.
package presenter

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/hrntsm/dmkit/internal/domain"
	"github.com/hrntsm/dmkit/internal/ports"
)

const (
	FormatPretty = "pretty"
	FormatJSON   = "json"
	FormatYAML   = "yaml"
)

// NoImport is printed by the pretty presenter when rows is nil.
const NoImport = "No file imported yet."

// New returns the presenter for format. An empty format means pretty.
func New(format string) (ports.MetadataPresenter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatPretty, "":
		return NewPretty(), nil
	case FormatJSON:
		return JSON{}, nil
	case FormatYAML, "yml":
		return YAML{}, nil
	default:
		return nil, &domain.OpError{
			Op:   "presenter.new",
			Kind: domain.KindInvalidParameter,
			Err:  fmt.Errorf("unsupported format %q (expected pretty|json|yaml): %w", format, domain.ErrInvalidParameter),
		}
	}
}

// Pretty draws one Index | Key | Value table per geometry.
type Pretty struct {
	heading lipgloss.Style
	border  lipgloss.Border
}

type PrettyOption func(*Pretty)

func WithHeadingStyle(s lipgloss.Style) PrettyOption {
	return func(p *Pretty) { p.heading = s }
}

func WithBorder(b lipgloss.Border) PrettyOption {
	return func(p *Pretty) { p.border = b }
}

func NewPretty(opts ...PrettyOption) *Pretty {
	p := &Pretty{
		heading: lipgloss.NewStyle(),
		border:  lipgloss.NormalBorder(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var _ ports.MetadataPresenter = (*Pretty)(nil)

func (p *Pretty) Present(w io.Writer, rows []domain.MetadataRow) error {
	_, err := io.WriteString(w, p.Render(rows))
	return err
}

// Render is Present without the writer, for callers that compose views.
func (p *Pretty) Render(rows []domain.MetadataRow) string {
	if rows == nil {
		return NoImport + "\n"
	}

	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(p.heading.Render("Geometry Index: " + strconv.Itoa(i)))
		b.WriteByte('\n')

		t := table.New().
			Border(p.border).
			Headers("Index", "Key", "Value")
		for j, us := range row {
			t.Row(strconv.Itoa(j), us.Key, us.Value)
		}
		b.WriteString(t.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// geometryEntry is the machine-readable shape of one row.
type geometryEntry struct {
	Index       int                 `json:"index" yaml:"index"`
	UserStrings []domain.UserString `json:"user_strings" yaml:"user_strings"`
}

func entries(rows []domain.MetadataRow) []geometryEntry {
	if rows == nil {
		return nil
	}
	out := make([]geometryEntry, len(rows))
	for i, row := range rows {
		us := []domain.UserString(row)
		if us == nil {
			us = []domain.UserString{}
		}
		out[i] = geometryEntry{Index: i, UserStrings: us}
	}
	return out
}

// JSON writes an indented array, or null when nothing was imported.
type JSON struct{}

func (JSON) Present(w io.Writer, rows []domain.MetadataRow) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries(rows))
}

// YAML writes a sequence, or null when nothing was imported.
type YAML struct{}

func (YAML) Present(w io.Writer, rows []domain.MetadataRow) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(entries(rows)); err != nil {
		return err
	}
	return enc.Close()
}

var (
	_ ports.MetadataPresenter = JSON{}
	_ ports.MetadataPresenter = YAML{}
)
