package parse

import (
	"regexp"
	"strings"
	"time"

	"logdeck/internal/model"
)

var tsPrefix = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})[T ](\d{2}:\d{2}:\d{2})`)

// Parse converts one raw text line into an entry for the given
// source. Blank and whitespace-only lines are not admitted (ok is
// false). A leading YYYY-MM-DD[T ]HH:MM:SS timestamp is extracted
// with the separator normalized to a space; lines without one use the
// observation time, so they sort by admission time and may interleave
// imperfectly with timestamped lines from other sources.
//
// The returned entry has no ID yet; the multiplexer assigns one at
// admission.
func Parse(source, raw string, observed time.Time) (model.LogEntry, bool) {
	msg := strings.TrimSpace(raw)
	if msg == "" {
		return model.LogEntry{}, false
	}
	ts := observed.Truncate(time.Second)
	if m := tsPrefix.FindStringSubmatch(msg); m != nil {
		if t, err := time.ParseInLocation(model.TimeLayout, m[1]+" "+m[2], observed.Location()); err == nil {
			ts = t
		}
	}
	return model.LogEntry{
		Source:    source,
		Timestamp: ts,
		Severity:  Classify(msg),
		Message:   msg,
	}, true
}

// Classify infers a severity with a case-insensitive substring scan.
// Priority: error > warn > debug > info; a line mentioning both
// "warning" and "error" tokens classifies as error. Unclassifiable
// lines degrade to info.
func Classify(line string) model.Severity {
	l := strings.ToLower(line)
	switch {
	case strings.Contains(l, "fatal"), strings.Contains(l, "exception"), strings.Contains(l, "error"):
		return model.SeverityError
	case strings.Contains(l, "warn"):
		return model.SeverityWarn
	case strings.Contains(l, "debug"), strings.Contains(l, "trace"):
		return model.SeverityDebug
	default:
		return model.SeverityInfo
	}
}
