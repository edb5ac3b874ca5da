package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"logdeck/internal/model"
)

// ToText renders one entry per line as
// [timestamp] [SEVERITY] [source] message, newline-joined.
func ToText(entries []model.LogEntry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("[%s] [%s] [%s] %s",
			e.Timestamp.Format(model.TimeLayout),
			strings.ToUpper(string(e.Severity)),
			e.Source,
			e.Message))
	}
	return strings.Join(lines, "\n")
}

// jsonEntry pins the export field names for downstream tooling,
// independent of the model struct.
type jsonEntry struct {
	ID        uint64 `json:"id"`
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
}

// ToJSON renders entries as a JSON array with stable field names.
func ToJSON(entries []model.LogEntry) (string, error) {
	out := make([]jsonEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, jsonEntry{
			ID:        e.ID,
			Source:    e.Source,
			Timestamp: e.Timestamp.Format(model.TimeLayout),
			Severity:  string(e.Severity),
			Message:   e.Message,
		})
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WriteCSV writes the view to a spreadsheet-friendly file.
func WriteCSV(path string, entries []model.LogEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "timestamp", "severity", "source", "message"}); err != nil {
		return err
	}
	for _, e := range entries {
		row := []string{
			strconv.FormatUint(e.ID, 10),
			e.Timestamp.Format(model.TimeLayout),
			string(e.Severity),
			e.Source,
			e.Message,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
