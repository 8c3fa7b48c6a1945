package ui

import (
	"math"
	"strings"
	"testing"

	"spool/internal/driver"
)

func TestProgressModelTracksFiles(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("compile", []string{"a.yarn", "b.yarn"}, events).(*progressModel)

	steps := []driver.Event{
		{File: "a.yarn", Stage: driver.StageLoad, Status: driver.StatusWorking},
		{File: "a.yarn", Stage: driver.StageParse, Status: driver.StatusWorking},
		{File: "b.yarn", Stage: driver.StageCompile, Status: driver.StatusError},
		{File: "unknown.yarn", Stage: driver.StageCompile, Status: driver.StatusDone},
		{Stage: driver.StageCompile, Status: driver.StatusWorking},
	}
	for _, ev := range steps {
		m.Update(eventMsg(ev))
	}

	if m.items[0].status != "parsing" || m.items[1].status != "error" {
		t.Errorf("items = %+v", m.items)
	}
	if got := m.percent(); math.Abs(got-0.7) > 1e-9 {
		t.Errorf("percent = %v", got)
	}
	if m.runLabel != "compiling" {
		t.Errorf("run label = %q", m.runLabel)
	}

	view := m.View()
	for _, want := range []string{"compile (compiling)", "parsing", "error", "a.yarn", "b.yarn"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	_, cmd := m.Update(doneMsg{})
	if !m.done || cmd == nil {
		t.Errorf("done message must finish the model")
	}
	if !strings.HasPrefix(strings.TrimSpace(stripANSI(m.View())), "done: compile") {
		t.Errorf("final view:\n%s", m.View())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.yarn", 20, "short.yarn"},
		{"dialogue/very/long/path.yarn", 12, "dialogue/..."},
		{"abcdef", 3, "abc"},
		{"日本語.yarn", 5, "日..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			inEsc = false
		case !inEsc:
			b.WriteRune(r)
		}
	}
	return b.String()
}
