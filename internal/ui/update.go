package ui

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"logdeck/internal/export"
	"logdeck/internal/filter"
	"logdeck/internal/model"
	"logdeck/internal/util/logx"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth, m.termHeight = msg.Width, msg.Height
		m.tbl.SetColumns(defaultColumns(msg.Width))
		h := msg.Height - 6
		if h < 5 {
			h = 5
		}
		m.tbl.SetHeight(h)
		m.logsVP.Width = msg.Width - 2
		m.logsVP.Height = h
		m.refresh()
		return m, nil

	case notifyMsg:
		m.refresh()
		return m, waitNotify(m.notify)

	case tickMsg:
		// The coalesced signal covers admissions; the tick keeps the
		// histogram and per-source status fresh in between.
		m.refresh()
		return m, tick()

	case tea.KeyMsg:
		if m.editing != editNone {
			return m.updateEditing(msg)
		}
		return m.updateKeys(msg)
	}

	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	return m, cmd
}

func (m *Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		val := m.input.Value()
		if m.editing == editQuery {
			m.criteria.Query = val
		} else {
			m.criteria.Expr = val
		}
		m.editing = editNone
		m.input.Blur()
		m.applyFilter()
		return m, nil
	case tea.KeyEsc:
		m.editing = editNone
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	km := m.keymap
	switch {
	case keyMatches(msg, km.Quit):
		return m, tea.Quit

	case keyMatches(msg, km.AppLogs):
		m.showLogs = !m.showLogs
		if m.showLogs {
			m.logsVP.SetContent(logx.Dump())
			m.logsVP.GotoBottom()
		}
		return m, nil

	case keyMatches(msg, km.Search):
		m.editing = editQuery
		m.input.Prompt = "/"
		m.input.Placeholder = "search text"
		if m.criteria.UseRegex {
			m.input.Placeholder = "search regex"
		}
		m.input.SetValue(m.criteria.Query)
		m.input.Focus()
		return m, nil

	case keyMatches(msg, km.Expr):
		m.editing = editExpr
		m.input.Prompt = "expr> "
		m.input.Placeholder = `severity == "error" && source != "db"`
		m.input.SetValue(m.criteria.Expr)
		m.input.Focus()
		return m, nil

	case keyMatches(msg, km.Regex):
		m.criteria.UseRegex = !m.criteria.UseRegex
		m.applyFilter()
		return m, nil

	case keyMatches(msg, km.Severity):
		m.sevIdx++
		if m.sevIdx >= len(model.Severities) {
			m.sevIdx = -1
		}
		if m.sevIdx < 0 {
			m.criteria.Severity = filter.All
		} else {
			m.criteria.Severity = string(model.Severities[m.sevIdx])
		}
		m.applyFilter()
		return m, nil

	case keyMatches(msg, km.Source):
		m.srcIdx++
		if m.srcIdx >= len(m.sources) {
			m.srcIdx = -1
		}
		if m.srcIdx < 0 {
			m.criteria.Source = filter.All
			m.eng.SetActiveServices(m.ctx, m.sources)
		} else {
			name := m.sources[m.srcIdx]
			m.criteria.Source = name
			// Narrowing to one service deactivates the others'
			// channels; reverting to all re-fetches their history.
			m.eng.SetActiveServices(m.ctx, []string{name})
		}
		m.applyFilter()
		return m, nil

	case keyMatches(msg, km.Pin):
		if e, ok := m.selected(); ok {
			pinned := m.eng.TogglePin(e.ID)
			if pinned {
				m.lastMsg = fmt.Sprintf("pinned #%d", e.ID)
			} else {
				m.lastMsg = fmt.Sprintf("unpinned #%d", e.ID)
			}
			m.refresh()
		}
		return m, nil

	case keyMatches(msg, km.Clear):
		m.eng.Clear()
		m.lastMsg = "cleared"
		m.refresh()
		return m, nil

	case keyMatches(msg, km.ClearFilter):
		m.criteria = filter.Criteria{}
		m.sevIdx, m.srcIdx = -1, -1
		m.eng.SetActiveServices(m.ctx, m.sources)
		m.applyFilter()
		return m, nil

	case keyMatches(msg, km.ExportText):
		m.exportTo("text")
		return m, nil

	case keyMatches(msg, km.ExportJSON):
		m.exportTo("json")
		return m, nil

	case keyMatches(msg, km.ExportCSV):
		path := exportPath("csv")
		if err := export.WriteCSV(path, m.filtered); err != nil {
			m.lastMsg = "export failed: " + err.Error()
		} else {
			m.lastMsg = "exported " + path
		}
		return m, nil

	case keyMatches(msg, km.Top):
		m.tbl.SetCursor(0)
		return m, nil

	case keyMatches(msg, km.Bottom):
		if n := len(m.tbl.Rows()); n > 0 {
			m.tbl.SetCursor(n - 1)
		}
		return m, nil
	}

	if m.showLogs {
		var cmd tea.Cmd
		m.logsVP, cmd = m.logsVP.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	return m, cmd
}

func (m *Model) applyFilter() {
	m.eng.SetFilter(m.criteria)
	m.refresh()
}

func (m *Model) exportTo(format string) {
	out, err := m.eng.ExportAs(format)
	if err != nil {
		m.lastMsg = "export failed: " + err.Error()
		return
	}
	ext := "txt"
	if format == "json" {
		ext = "json"
	}
	path := exportPath(ext)
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		m.lastMsg = "export failed: " + err.Error()
		return
	}
	m.lastMsg = "exported " + path
}

func exportPath(ext string) string {
	return fmt.Sprintf("logdeck-export-%d.%s", time.Now().Unix(), ext)
}

// selected returns the entry under the cursor.
func (m *Model) selected() (model.LogEntry, bool) {
	c := m.tbl.Cursor()
	if c < 0 || c >= len(m.filtered) {
		return model.LogEntry{}, false
	}
	return m.filtered[c], true
}

// refresh rebuilds the table rows from a fresh filtered snapshot,
// keeping the cursor stuck to the newest row when it was there.
func (m *Model) refresh() {
	wasAtBottom := false
	if prev := len(m.tbl.Rows()); prev > 0 {
		if c := m.tbl.Cursor(); c >= prev-1 {
			wasAtBottom = true
		}
	}
	m.filtered, m.filterErr = m.eng.Snapshot()
	rows := make([]table.Row, 0, len(m.filtered))
	for _, e := range m.filtered {
		marker := " "
		if m.eng.Pinned(e.ID) {
			marker = "●"
		}
		rows = append(rows, table.Row{
			marker,
			e.Timestamp.Format(model.TimeLayout),
			string(e.Severity),
			e.Source,
			e.Message,
		})
	}
	m.tbl.SetRows(rows)
	if wasAtBottom && len(rows) > 0 {
		m.tbl.SetCursor(len(rows) - 1)
	}
}
