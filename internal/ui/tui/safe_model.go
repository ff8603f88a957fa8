package tui

import (
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
)

const panicToast = "Unexpected error (see logs)"

// safeModel keeps the program alive when Update or View panics: the panic is
// logged, the user lands on the home screen and a toast explains what happened.
type safeModel struct {
	m   model
	log *slog.Logger
}

func wrapSafe(m model, log *slog.Logger) safeModel {
	if log == nil {
		log = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return safeModel{m: m, log: log}
}

func (s safeModel) Init() tea.Cmd {
	return s.m.Init()
}

func (s safeModel) Update(msg tea.Msg) (tm tea.Model, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			s.logPanic("tui.update", r, fmt.Sprintf("%T", msg))

			s.m.scr = screenHome
			s.m.busy = false
			s.m, cmd = s.m.withToast(panicToast, importToast)
			tm = s
		}
	}()

	inner, c := s.m.Update(msg)
	switch v := inner.(type) {
	case model:
		s.m = v
	case safeModel:
		s = v
	}
	return s, c
}

func (s safeModel) View() (out string) {
	defer func() {
		if r := recover(); r != nil {
			s.logPanic("tui.view", r, "")
			out = panicToast
		}
	}()
	return s.m.View()
}

func (s safeModel) logPanic(where string, r any, msgType string) {
	s.log.Error("panic.recovered",
		"where", where,
		"screen", int(s.m.scr),
		"msg_type", msgType,
		"panic", fmt.Sprint(r),
		"stack", string(debug.Stack()),
	)
}

var _ tea.Model = (*safeModel)(nil)
