package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"logdeck/internal/config"
	"logdeck/internal/filter"
	"logdeck/internal/model"
	"logdeck/internal/stream"
)

type editTarget int

const (
	editNone editTarget = iota
	editQuery
	editExpr
)

// Model is the bubbletea state for the Logs view. It owns one engine
// for the lifetime of the view and renders its filtered snapshot.
type Model struct {
	ctx context.Context
	cfg *config.Config
	eng *stream.Engine

	// engine change signal
	notify       <-chan struct{}
	cancelNotify func()

	// UI widgets
	tbl    table.Model
	input  textinput.Model
	logsVP viewport.Model
	styles Styles
	keymap KeyMap

	// filter state mirrored into the engine
	criteria  filter.Criteria
	filterErr error
	sevIdx    int // index into model.Severities, -1 = all
	srcIdx    int // index into sources, -1 = all
	sources   []string

	// data
	filtered []model.LogEntry

	// view state
	editing    editTarget
	showLogs   bool
	lastMsg    string
	termWidth  int
	termHeight int
}

type notifyMsg struct{}
type tickMsg struct{}
