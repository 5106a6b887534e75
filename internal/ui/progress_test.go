package ui

import (
	"fmt"
	"strings"
	"testing"

	"cutesy/internal/driver"
)

func apply(m *progressModel, events ...driver.Event) {
	for _, ev := range events {
		m.Update(eventMsg(ev))
	}
}

func TestProgressStatuses(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("cutesy", []string{"a.html", "b.html", "c.html"}, events).(*progressModel)

	apply(m,
		driver.Event{File: "a.html", Stage: driver.StageLint, Status: driver.StatusWorking},
		driver.Event{File: "b.html", Stage: driver.StageLint, Status: driver.StatusDone},
		driver.Event{File: "c.html", Stage: driver.StageLint, Status: driver.StatusSkipped},
		driver.Event{File: "unknown.html", Stage: driver.StageLint, Status: driver.StatusDone},
	)

	want := map[string]string{"a.html": "linting", "b.html": "done", "c.html": "skipped"}
	for _, item := range m.items {
		if item.label() != want[item.path] {
			t.Errorf("%s: status %q, want %q", item.path, item.label(), want[item.path])
		}
	}
	if got := m.percent(); got < 0.79 || got > 0.81 {
		t.Errorf("percent = %v, want 0.8", got)
	}

	view := m.View()
	for _, s := range []string{"cutesy 2/3", "linting", "skipped", "b.html"} {
		if !strings.Contains(view, s) {
			t.Errorf("view misses %q:\n%s", s, view)
		}
	}
}

func TestProgressDone(t *testing.T) {
	events := make(chan driver.Event)
	close(events)
	m := NewProgressModel("cutesy", []string{"a.html"}, events).(*progressModel)
	msg := m.next()()
	if _, ok := msg.(doneMsg); !ok {
		t.Fatalf("closed channel produced %T", msg)
	}
	m.Update(msg)
	if !m.done || !strings.Contains(m.View(), "done: cutesy") {
		t.Errorf("model not finished:\n%s", m.View())
	}
}

func TestProgressWindow(t *testing.T) {
	files := make([]string, 30)
	for i := range files {
		files[i] = fmt.Sprintf("f%02d.html", i)
	}
	m := NewProgressModel("cutesy", files, nil).(*progressModel)
	apply(m,
		driver.Event{File: "f29.html", Stage: driver.StageLint, Status: driver.StatusWorking},
		driver.Event{File: "f03.html", Stage: driver.StageLint, Status: driver.StatusDone},
	)
	rows, hidden := m.visible()
	if len(rows) != 2 || hidden != 28 {
		t.Fatalf("rows=%d hidden=%d", len(rows), hidden)
	}
	if rows[0].path != "f29.html" || rows[1].path != "f03.html" {
		t.Errorf("rows = %+v", rows)
	}
	if !strings.Contains(m.View(), "28 more") {
		t.Errorf("view misses hidden count")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.html", 20, "short.html"},
		{"templates/very/long/path.html", 12, "templates..."},
		{"abcdef", 3, "abc"},
		{"日本語.html", 6, "日..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
