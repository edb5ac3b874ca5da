package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"logdeck/internal/filter"
	"logdeck/internal/model"
	"logdeck/internal/version"
)

var histBlocks = []rune("▁▂▃▄▅▆▇█")

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("logdeck "+version.String()) + "  " + m.styles.Status.Render(m.filterSummary()))
	b.WriteString("\n")
	b.WriteString(m.histogram())
	b.WriteString("\n")
	if m.editing != editNone {
		b.WriteString(m.input.View())
	} else {
		b.WriteString(m.styles.Help.Render("/ search  f expr  r regex  s/S severity/source  p pin  C clear  e/E/x export  L logs  q quit"))
	}
	b.WriteString("\n")
	if m.showLogs {
		b.WriteString(m.logsVP.View())
	} else {
		b.WriteString(m.tbl.View())
	}
	b.WriteString("\n")
	b.WriteString(m.footer())
	return b.String()
}

func (m *Model) filterSummary() string {
	parts := []string{}
	if s := m.criteria.Source; s != "" && s != filter.All {
		parts = append(parts, "source="+s)
	}
	if s := m.criteria.Severity; s != "" && s != filter.All {
		parts = append(parts, "severity="+s)
	}
	if m.criteria.Query != "" {
		q := m.criteria.Query
		if m.criteria.UseRegex {
			parts = append(parts, "query=/"+q+"/")
		} else {
			parts = append(parts, "query="+q)
		}
	}
	if m.criteria.Expr != "" {
		parts = append(parts, "expr="+m.criteria.Expr)
	}
	if len(parts) == 0 {
		return "all sources, all severities"
	}
	return strings.Join(parts, " ")
}

// histogram renders the last buckets as one bar per minute, scaled to
// the busiest bucket and colored by the most severe series present.
func (m *Model) histogram() string {
	buckets := m.eng.Buckets(time.Minute)
	if len(buckets) == 0 {
		return m.styles.Status.Render("(no entries)")
	}
	max := 0
	for _, bk := range buckets {
		if t := bk.Total(); t > max {
			max = t
		}
	}
	var b strings.Builder
	for _, bk := range buckets {
		idx := bk.Total() * (len(histBlocks) - 1) / max
		if idx >= len(histBlocks) {
			idx = len(histBlocks) - 1
		}
		sev := model.SeverityInfo
		if bk.Warn > 0 {
			sev = model.SeverityWarn
		}
		if bk.Error > 0 {
			sev = model.SeverityError
		}
		b.WriteString(m.styles.Severity[sev].Render(string(histBlocks[idx])))
	}
	last := buckets[len(buckets)-1]
	b.WriteString(m.styles.Status.Render(fmt.Sprintf("  %s  err=%d warn=%d info=%d",
		last.Key.Format("15:04"), last.Error, last.Warn, last.Info)))
	return b.String()
}

func (m *Model) footer() string {
	left := fmt.Sprintf("%d/%d entries • %d pinned", len(m.filtered), m.eng.BufferLen(), m.eng.PinCount())
	parts := []string{m.styles.Status.Render(left)}
	if m.filterErr != nil {
		parts = append(parts, m.styles.Warn.Render("invalid filter: "+m.filterErr.Error()))
	}
	if st := m.eng.Status(); len(st) > 0 {
		names := make([]string, 0, len(st))
		for n := range st {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			parts = append(parts, m.styles.Warn.Render(n+": "+st[n]))
		}
	}
	if m.lastMsg != "" {
		parts = append(parts, m.styles.Status.Render(m.lastMsg))
	}
	return strings.Join(parts, " • ")
}
