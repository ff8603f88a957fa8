package reportstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hrntsm/dmkit/internal/domain"
	"github.com/hrntsm/dmkit/internal/ports"
)

// DefaultDir is relative to the workspace root.
const DefaultDir = ".dmkit/reports"

type JSONStore struct {
	dir        string
	writeIndex bool
	now        func() time.Time
}

type Option func(*JSONStore)

// WithIndex enables an append-only index.jsonl next to the reports.
func WithIndex(enabled bool) Option {
	return func(s *JSONStore) { s.writeIndex = enabled }
}

func WithNow(now func() time.Time) Option {
	return func(s *JSONStore) { s.now = now }
}

// WithDir overrides the report directory. Relative paths are joined to root.
func WithDir(dir string) Option {
	return func(s *JSONStore) {
		if strings.TrimSpace(dir) != "" {
			s.dir = dir
		}
	}
}

func NewJSONStore(root string, opts ...Option) *JSONStore {
	s := &JSONStore{
		dir: DefaultDir,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if !filepath.IsAbs(s.dir) {
		s.dir = filepath.Join(root, filepath.FromSlash(s.dir))
	}
	return s
}

var _ ports.ReportStore = (*JSONStore)(nil)

// SaveReport writes r as <timestamp>_<source>.json and returns the file stem.
func (s *JSONStore) SaveReport(r domain.InspectionReport) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", &domain.OpError{Op: "reportstore.mkdir", Kind: domain.KindExecution, Path: s.dir, Err: err}
	}

	if r.InspectedAt.IsZero() {
		r.InspectedAt = s.now()
	}
	r.InspectedAt = r.InspectedAt.UTC()
	if r.Objects == nil {
		r.Objects = []domain.MetadataRow{}
	}

	slug := slugify(strings.TrimSuffix(filepath.Base(r.Source), filepath.Ext(r.Source)))
	if slug == "" {
		slug = "report"
	}

	filename := fmt.Sprintf("%s_%s.json", r.InspectedAt.Format("20060102T150405.000Z"), slug)
	id := strings.TrimSuffix(filename, ".json")
	path := filepath.Join(s.dir, filename)

	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", &domain.OpError{Op: "reportstore.marshal", Kind: domain.KindExecution, Path: path, Err: err}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return "", &domain.OpError{Op: "reportstore.write", Kind: domain.KindExecution, Path: tmp, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", &domain.OpError{Op: "reportstore.rename", Kind: domain.KindExecution, Path: path, Err: err}
	}

	if s.writeIndex {
		_ = s.appendIndex(id, filename, r)
	}
	return id, nil
}

func (s *JSONStore) appendIndex(id, filename string, r domain.InspectionReport) error {
	type entry struct {
		ID          string    `json:"id"`
		File        string    `json:"file"`
		Source      string    `json:"source"`
		Objects     int       `json:"objects"`
		InspectedAt time.Time `json:"inspected_at"`
	}
	line, err := json.Marshal(entry{
		ID:          id,
		File:        filename,
		Source:      r.Source,
		Objects:     len(r.Objects),
		InspectedAt: r.InspectedAt,
	})
	if err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(s.dir, "index.jsonl"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(append(line, '\n'))
	return err
}

// slugify keeps [a-z0-9] and collapses everything else into single dashes.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	b.Grow(len(s))

	dash := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.Trim(b.String(), "-")
}
