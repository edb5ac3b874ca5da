package ui

import tea "github.com/charmbracelet/bubbletea"

type KeyMap struct {
	Quit        tea.Key
	Search      tea.Key
	Expr        tea.Key
	Regex       tea.Key
	Severity    tea.Key
	Source      tea.Key
	Pin         tea.Key
	Clear       tea.Key
	ClearFilter tea.Key
	ExportText  tea.Key
	ExportJSON  tea.Key
	ExportCSV   tea.Key
	AppLogs     tea.Key
	Top         tea.Key
	Bottom      tea.Key
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:        tea.Key{Type: tea.KeyRunes, Runes: []rune{'q'}},
		Search:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'/'}},
		Expr:        tea.Key{Type: tea.KeyRunes, Runes: []rune{'f'}},
		Regex:       tea.Key{Type: tea.KeyRunes, Runes: []rune{'r'}},
		Severity:    tea.Key{Type: tea.KeyRunes, Runes: []rune{'s'}},
		Source:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'S'}},
		Pin:         tea.Key{Type: tea.KeyRunes, Runes: []rune{'p'}},
		Clear:       tea.Key{Type: tea.KeyRunes, Runes: []rune{'C'}},
		ClearFilter: tea.Key{Type: tea.KeyRunes, Runes: []rune{'F'}},
		ExportText:  tea.Key{Type: tea.KeyRunes, Runes: []rune{'e'}},
		ExportJSON:  tea.Key{Type: tea.KeyRunes, Runes: []rune{'E'}},
		ExportCSV:   tea.Key{Type: tea.KeyRunes, Runes: []rune{'x'}},
		AppLogs:     tea.Key{Type: tea.KeyRunes, Runes: []rune{'L'}},
		Top:         tea.Key{Type: tea.KeyRunes, Runes: []rune{'g'}},
		Bottom:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'G'}},
	}
}

func keyMatches(msg tea.KeyMsg, k tea.Key) bool {
	if k.Type != tea.KeyRunes {
		return msg.Type == k.Type
	}
	if len(k.Runes) > 0 {
		return msg.String() == string(k.Runes)
	}
	return false
}
