package tui

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hrntsm/dmkit/internal/domain"
	"github.com/hrntsm/dmkit/internal/infra/fsfile"
	"github.com/hrntsm/dmkit/internal/infra/presenter"
	"github.com/hrntsm/dmkit/internal/usecase"
)

type screen int

const (
	screenHome screen = iota
	screenCreate
	screenCheck
)

const (
	itemCreate = "Create Sphere"
	itemCheck  = "Check Uploaded File"
	itemInit   = "Init Workspace"
	itemQuit   = "Quit"
)

type menuItem struct {
	title string
	desc  string
}

func (m menuItem) Title() string       { return m.title }
func (m menuItem) Description() string { return m.desc }
func (m menuItem) FilterValue() string { return m.title }

type model struct {
	theme Theme
	deps  Deps
	log   *slog.Logger

	scr  screen
	menu list.Model

	builder  *usecase.PrimitiveBuilder
	exporter *usecase.ExportShape
	importer *usecase.ImportMetadata
	pres     *presenter.Pretty

	radius float64
	slider progress.Model

	path     textinput.Model
	rows     []domain.MetadataRow
	imported string

	busy        bool
	kernelReady bool
	kernelErr   error

	toast   string
	toastID int

	workspaceFound bool
	workspaceRoot  string
}

func Run(deps Deps) error {
	m := newModel(deps)
	p := tea.NewProgram(wrapSafe(m, m.log), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(deps Deps) model {
	t := DefaultTheme()

	log := deps.Logger
	if log == nil {
		log = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	items := []list.Item{
		menuItem{itemCreate, "Pick a radius and download the sphere as .3dm"},
		menuItem{itemCheck, "Read the user strings stored in a .3dm file"},
		menuItem{itemInit, "Create dmkit.yaml, exports/ and .dmkit/ here"},
		menuItem{itemQuit, "Exit dmkit"},
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "dmkit"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	ti := textinput.New()
	ti.Placeholder = "path/to/model.3dm"
	ti.Prompt = "File: "
	ti.CharLimit = 4096
	ti.Width = 60

	cfg := deps.Config
	return model{
		theme: t,
		deps:  deps,
		log:   log,
		scr:   screenHome,
		menu:  l,

		builder:  usecase.NewPrimitiveBuilder(cfg.Sphere.Center),
		exporter: usecase.NewExportShape(deps.Kernels, fsfile.NewDirSink(deps.ExportDir)),
		importer: usecase.NewImportMetadata(deps.Kernels),
		pres:     presenter.NewPretty(presenter.WithHeadingStyle(t.Title), presenter.WithBorder(lipgloss.RoundedBorder())),

		radius: cfg.Sphere.DefaultRadius,
		slider: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		path:   ti,

		workspaceFound: deps.WorkspaceFound,
		workspaceRoot:  deps.WorkspaceRoot,
	}
}

func (m model) Init() tea.Cmd {
	return cmdWaitKernel(m.deps)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w, h := msg.Width, msg.Height
		m.menu.SetSize(w-4, h-10)
		m.slider.Width = max(10, min(w-12, 60))
		m.path.Width = max(10, w-16)
		return m, nil

	case kernelReadyMsg:
		m.kernelReady = msg.err == nil
		m.kernelErr = msg.err
		return m, nil

	case workspaceRefreshedMsg:
		m.workspaceFound = msg.found
		m.workspaceRoot = msg.root
		return m, nil

	case initWorkspaceDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.log.Error("workspace.init.failed", "root", msg.root, "err", msg.err)
			return m.withToast(userMessage(msg.err), exportToast)
		}
		m.log.Info("workspace.init.ok", "root", msg.root)
		var cmd tea.Cmd
		m, cmd = m.withToast("Workspace created at "+msg.root, exportToast)
		return m, tea.Batch(cmd, cmdRefreshWorkspace(m.deps))

	case exportDoneMsg:
		m.busy = false
		if msg.err != nil {
			return m.withToast(userMessage(msg.err), exportToast)
		}
		return m.withToast("Downloaded "+msg.location, exportToast)

	case importDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.rows = nil
			m.imported = ""
			return m.withToast(userMessage(msg.err), importToast)
		}
		m.rows = msg.rows
		m.imported = msg.name
		return m.withToast(fmt.Sprintf("Read %d object(s) from %s", len(msg.rows), clampString(msg.name, 40)), importToast)

	case toastExpiredMsg:
		if msg.id == m.toastID {
			m.toast = ""
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.scr {
		case screenHome:
			return m.updateHome(msg)
		case screenCreate:
			return m.updateCreate(msg)
		case screenCheck:
			return m.updateCheck(msg)
		}
	}

	switch m.scr {
	case screenHome:
		var cmd tea.Cmd
		m.menu, cmd = m.menu.Update(msg)
		return m, cmd
	case screenCheck:
		var cmd tea.Cmd
		m.path, cmd = m.path.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.menu.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.menu, cmd = m.menu.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "enter":
		it, ok := m.menu.SelectedItem().(menuItem)
		if !ok {
			return m, nil
		}
		switch it.title {
		case itemQuit:
			return m, tea.Quit

		case itemCreate:
			m.scr = screenCreate
			if _, built := m.builder.PendingShape(); !built {
				return m.setRadius(m.radius)
			}
			return m, nil

		case itemCheck:
			m.scr = screenCheck
			return m, m.path.Focus()

		case itemInit:
			if m.busy {
				return m, nil
			}
			root, err := os.Getwd()
			if err != nil {
				return m.withToast(userMessage(err), exportToast)
			}
			m.busy = true
			return m, cmdInitWorkspaceHere(m.deps, root)
		}
	}

	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

func (m model) updateCreate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b", "q":
		m.scr = screenHome
		return m, nil

	case "left", "h":
		return m.setRadius(m.radius - 1)
	case "right", "l":
		return m.setRadius(m.radius + 1)
	case "pgdown", "H":
		return m.setRadius(m.radius - 10)
	case "pgup", "L":
		return m.setRadius(m.radius + 10)

	case "d", "enter":
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, cmdExport(m.exporter, m.deps.Config.Export.Filename, m.builder.Pending(), m.log)
	}
	return m, nil
}

// setRadius moves the slider and rebuilds the pending sphere. Zero is a slider
// position but not a valid radius: the previous sphere stays pending and the
// slider snaps back to it.
func (m model) setRadius(r float64) (model, tea.Cmd) {
	m.radius = clampRadius(r, m.deps.Config.Sphere.MaxRadius)
	if err := m.builder.SetRadius(m.radius); err != nil {
		m.log.Debug("builder.rejected", "radius", m.radius, "err", err)
		if shape, ok := m.builder.PendingShape(); ok {
			m.radius = shape.Radius
		}
		return m.withToast(userMessage(err), importToast)
	}
	return m, nil
}

func clampRadius(r, maxRadius float64) float64 {
	if maxRadius <= 0 {
		maxRadius = domain.DefaultConfig().Sphere.MaxRadius
	}
	return min(max(r, 0), maxRadius)
}

func (m model) updateCheck(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.path.Blur()
		m.scr = screenHome
		return m, nil

	case "enter":
		if m.busy {
			return m, nil
		}
		path := strings.TrimSpace(m.path.Value())
		if path == "" {
			return m.withToast("No file selected", importToast)
		}
		m.busy = true
		return m, cmdImport(m.importer, path, m.log)
	}

	var cmd tea.Cmd
	m.path, cmd = m.path.Update(msg)
	return m, cmd
}

func (m model) withToast(text string, d time.Duration) (model, tea.Cmd) {
	m.toastID++
	m.toast = text
	return m, cmdExpireToast(m.toastID, d)
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("dmkit") + "\n" +
		m.theme.Subtitle.Render("Sphere export and .3dm user string inspection") + "\n"

	status := m.statusLine()

	var body string
	switch m.scr {
	case screenHome:
		help := m.theme.Help.Render("↑/↓ navigate • enter open • / search • q quit")
		body = m.theme.Card.Render(m.menu.View()) + "\n" + help

	case screenCreate:
		body = m.theme.Card.Render(m.viewCreate()) + "\n" +
			m.theme.Help.Render("←/→ radius ±1 • pgup/pgdown ±10 • d download • esc back")

	case screenCheck:
		body = m.theme.Card.Render(m.viewCheck()) + "\n" +
			m.theme.Help.Render("enter read file • esc back")

	default:
		body = "unknown state"
	}

	out := header + "\n" + status + "\n\n" + body
	if m.toast != "" {
		out += "\n\n" + m.theme.Toast.Render(m.toast)
	}
	return wrap.Render(out)
}

func (m model) statusLine() string {
	ws := "No workspace (defaults in use) • Init Workspace creates one"
	if m.workspaceFound {
		ws = "Workspace: " + clampString(m.workspaceRoot, 60)
	}

	kernel := "Kernel: loading…"
	switch {
	case m.kernelErr != nil:
		kernel = "Kernel: unavailable"
	case m.kernelReady:
		kernel = "Kernel: ready"
	}
	return m.theme.Help.Render(ws + " • " + kernel)
}

func (m model) viewCreate() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render(itemCreate))
	b.WriteString("\n\n")

	maxR := m.deps.Config.Sphere.MaxRadius
	fmt.Fprintf(&b, "Radius %g / %g\n", m.radius, maxR)
	b.WriteString(m.slider.ViewAs(sliderPercent(m.radius, maxR)))
	b.WriteString("\n\n")

	if shape, ok := m.builder.PendingShape(); ok {
		fmt.Fprintf(&b, "The generated sphere's diameter is %g (center %s).", shape.Diameter(), shape.Center)
	} else {
		b.WriteString(m.theme.Subtitle.Render("No sphere yet: move the slider above zero."))
	}

	b.WriteString("\n")
	b.WriteString(m.theme.Subtitle.Render("Saves to " + clampString(m.deps.ExportDir, 60)))
	if m.busy {
		b.WriteString("\n\nExporting…")
	}
	return b.String()
}

func sliderPercent(r, maxR float64) float64 {
	if maxR <= 0 {
		return 0
	}
	return min(max(r/maxR, 0), 1)
}

func (m model) viewCheck() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render(itemCheck))
	b.WriteString("\n\n")
	b.WriteString(m.path.View())
	b.WriteString("\n\n")

	if m.busy {
		b.WriteString("Reading…\n\n")
	}
	if m.imported != "" {
		b.WriteString(m.theme.Subtitle.Render("From " + clampString(m.imported, 60)))
		b.WriteString("\n")
	}
	b.WriteString(m.pres.Render(m.rows))
	return b.String()
}
