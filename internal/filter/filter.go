package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Knetic/govaluate"

	"logdeck/internal/model"
)

// All selects every source or severity in a Criteria field.
const All = "all"

// Criteria is the pure filter input applied to the canonical buffer.
// It is not persisted by the engine.
type Criteria struct {
	Source   string // All (or empty) or a service name
	Severity string // All (or empty) or a severity
	Query    string // substring match, or regex when UseRegex
	UseRegex bool
	Expr     string // optional expression over source/severity/message/ts
}

// Evaluator holds the compiled form of a Criteria so a full pass over
// the buffer compiles the query once.
type Evaluator struct {
	re   *regexp.Regexp
	expr *govaluate.EvaluableExpression
}

// NewEvaluator compiles the criteria. A broken regex or expression is
// returned as an error so the caller can surface the invalid-filter
// state; it never degrades to substring matching.
func NewEvaluator(c Criteria) (*Evaluator, error) {
	ev := &Evaluator{}
	if c.UseRegex && c.Query != "" {
		re, err := regexp.Compile("(?i)" + c.Query)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern: %w", err)
		}
		ev.re = re
	}
	if strings.TrimSpace(c.Expr) != "" {
		expr, err := govaluate.NewEvaluableExpression(c.Expr)
		if err != nil {
			return nil, fmt.Errorf("invalid expression: %w", err)
		}
		ev.expr = expr
	}
	return ev, nil
}

// Match evaluates one entry. Text queries match against the message
// or the source name, case-insensitively.
func (e *Evaluator) Match(entry model.LogEntry, c Criteria) bool {
	if c.Source != "" && c.Source != All && entry.Source != c.Source {
		return false
	}
	if c.Severity != "" && c.Severity != All && string(entry.Severity) != c.Severity {
		return false
	}
	if c.Query != "" {
		if e.re != nil {
			if !e.re.MatchString(entry.Message) && !e.re.MatchString(entry.Source) {
				return false
			}
		} else {
			q := strings.ToLower(c.Query)
			if !strings.Contains(strings.ToLower(entry.Message), q) &&
				!strings.Contains(strings.ToLower(entry.Source), q) {
				return false
			}
		}
	}
	if e.expr != nil {
		result, err := e.expr.Evaluate(map[string]any{
			"source":   entry.Source,
			"severity": string(entry.Severity),
			"message":  entry.Message,
			"ts":       entry.Timestamp.Format(model.TimeLayout),
		})
		if err != nil {
			return false
		}
		b, ok := result.(bool)
		if !ok || !b {
			return false
		}
	}
	return true
}

// Apply filters entries preserving their order. On an invalid filter
// it returns no entries plus the compile error: fail closed, and
// distinct from a legitimately empty result.
func Apply(entries []model.LogEntry, c Criteria) ([]model.LogEntry, error) {
	ev, err := NewEvaluator(c)
	if err != nil {
		return nil, err
	}
	out := make([]model.LogEntry, 0, len(entries))
	for _, e := range entries {
		if ev.Match(e, c) {
			out = append(out, e)
		}
	}
	return out, nil
}
