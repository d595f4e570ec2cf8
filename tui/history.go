package tui

import "strings"

// History keeps recently entered commands for Up/Down recall. The oldest
// entry is dropped once the limit is reached.
type History struct {
	entries []string
	limit   int
	pos     int // len(entries) while editing fresh input
}

// NewHistory creates a history holding at most limit commands.
func NewHistory(limit int) *History {
	return &History{limit: limit}
}

// Push records cmd. Blank input and repeats of the newest entry are ignored.
func (h *History) Push(cmd string) {
	if strings.TrimSpace(cmd) == "" {
		return
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == cmd {
		h.pos = n
		return
	}
	h.entries = append(h.entries, cmd)
	if len(h.entries) > h.limit {
		h.entries = h.entries[len(h.entries)-h.limit:]
	}
	h.pos = len(h.entries)
}

// Prev steps back to an older entry, stopping at the oldest.
func (h *History) Prev() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.pos > 0 {
		h.pos--
	}
	return h.entries[h.pos], true
}

// Next steps forward. Moving past the newest entry returns to fresh input
// and reports false.
func (h *History) Next() (string, bool) {
	if h.pos >= len(h.entries) {
		return "", false
	}
	h.pos++
	if h.pos == len(h.entries) {
		return "", false
	}
	return h.entries[h.pos], true
}

// ResetCursor returns to fresh input.
func (h *History) ResetCursor() {
	h.pos = len(h.entries)
}

// Len reports how many commands are stored.
func (h *History) Len() int { return len(h.entries) }
