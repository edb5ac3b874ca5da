package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"logdeck/internal/config"
	"logdeck/internal/stream"
)

func initialModel(ctx context.Context, cfg *config.Config, eng *stream.Engine) *Model {
	m := &Model{
		ctx:     ctx,
		cfg:     cfg,
		eng:     eng,
		styles:  NewStyles(cfg.Theme == config.ThemeDark),
		keymap:  DefaultKeyMap(),
		input:   textinput.New(),
		sevIdx:  -1,
		srcIdx:  -1,
		sources: eng.SourceNames(),
	}
	m.input.CharLimit = 256
	m.logsVP = viewport.New(80, 20)

	m.tbl = table.New(table.WithFocused(true), table.WithHeight(20))
	m.tbl.SetColumns(defaultColumns(120))
	ts := table.DefaultStyles()
	ts.Header = m.styles.Header.PaddingRight(1)
	ts.Cell = lipgloss.NewStyle().PaddingRight(1)
	ts.Selected = m.styles.Selected
	m.tbl.SetStyles(ts)

	m.notify, m.cancelNotify = eng.Subscribe()
	return m
}

func defaultColumns(width int) []table.Column {
	msgW := width - (2 + 19 + 6 + 12 + 8)
	if msgW < 20 {
		msgW = 20
	}
	return []table.Column{
		{Title: " ", Width: 1}, // pin marker
		{Title: "time", Width: 19},
		{Title: "sev", Width: 5},
		{Title: "source", Width: 12},
		{Title: "message", Width: msgW},
	}
}

// Run starts the Logs view. The engine is activated for every
// configured service up front; the source filter narrows the active
// set afterwards.
func Run(ctx context.Context, cfg *config.Config, eng *stream.Engine) error {
	m := initialModel(ctx, cfg, eng)
	eng.SetActiveServices(ctx, m.sources)
	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err := p.Run()
	m.cancelNotify()
	eng.Close()
	return err
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(waitNotify(m.notify), tick())
}

func waitNotify(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return notifyMsg{}
	}
}

func tick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(time.Time) tea.Msg { return tickMsg{} })
}
