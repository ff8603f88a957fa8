package fsworkspace

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hrntsm/dmkit/internal/domain"
	"github.com/hrntsm/dmkit/internal/ports"
)

//go:embed templates
var templatesFS embed.FS

const gitignoreHeader = "# dmkit"

var gitignoreEntries = []string{
	".dmkit/",
	"exports/",
}

type Initializer struct{}

func NewInitializer() *Initializer {
	return &Initializer{}
}

var _ ports.WorkspaceInitializer = (*Initializer)(nil)

// Init lays out a workspace under spec.Root. Existing files are kept unless
// force is set.
func (i *Initializer) Init(spec domain.WorkspaceSpec, force bool) error {
	root := filepath.Clean(spec.Root)

	for _, d := range []string{"exports", filepath.Join(".dmkit", "logs")} {
		dir := filepath.Join(root, d)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &domain.OpError{Op: "fsworkspace.mkdir", Kind: domain.KindExecution, Path: dir, Err: err}
		}
	}

	if err := ensureGitignore(root); err != nil {
		return &domain.OpError{Op: "fsworkspace.gitignore", Kind: domain.KindExecution, Path: root, Err: err}
	}

	return fs.WalkDir(templatesFS, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		dst := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(p, "templates/")))
		if !force {
			if _, statErr := os.Stat(dst); statErr == nil {
				return nil
			}
		}

		b, err := fs.ReadFile(templatesFS, p)
		if err != nil {
			return err
		}
		if err := os.WriteFile(dst, b, 0o644); err != nil {
			return &domain.OpError{Op: "fsworkspace.write", Kind: domain.KindExecution, Path: dst, Err: err}
		}
		return nil
	})
}

// ensureGitignore adds the dmkit entries that .gitignore is missing, creating
// the file if needed.
func ensureGitignore(root string) error {
	path := filepath.Join(root, ".gitignore")

	b, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	existing := string(b)

	present := map[string]bool{}
	for _, line := range strings.Split(existing, "\n") {
		present[strings.TrimSpace(line)] = true
	}

	var add []string
	if !present[gitignoreHeader] {
		add = append(add, gitignoreHeader)
	}
	for _, e := range gitignoreEntries {
		if !present[e] {
			add = append(add, e)
		}
	}
	if len(add) == 0 || (len(add) == 1 && add[0] == gitignoreHeader && existing != "") {
		return nil
	}

	var out strings.Builder
	out.WriteString(existing)
	if existing != "" {
		if !strings.HasSuffix(existing, "\n") {
			out.WriteByte('\n')
		}
		out.WriteByte('\n')
	}
	for _, line := range add {
		out.WriteString(line)
		out.WriteByte('\n')
	}

	return os.WriteFile(path, []byte(out.String()), 0o644)
}
