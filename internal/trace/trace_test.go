package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelDriver, ScopeDriver, true},
		{LevelDriver, ScopePass, false},
		{LevelPass, ScopePass, true},
		{LevelPass, ScopeFile, false},
		{LevelFile, ScopeFile, true},
		{LevelDebug, ScopeNode, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestStartSpanNestsUnderContext(t *testing.T) {
	ring := NewRingTracer(16, LevelFile)
	ctx := WithTracer(context.Background(), ring)

	ctx, outer := StartSpan(ctx, ScopeDriver, "compile")
	_, inner := StartSpan(ctx, ScopePass, "register_strings")
	inner.WithExtra("files", "2").End("")
	outer.End("")

	events := ring.Snapshot()
	if len(events) != 4 {
		t.Fatalf("events = %d, want 4", len(events))
	}
	if events[1].ParentID != outer.ID() {
		t.Errorf("inner parent = %d, want %d", events[1].ParentID, outer.ID())
	}
	if events[2].Extra["files"] != "2" {
		t.Errorf("extra lost: %v", events[2].Extra)
	}
	want := []string{"begin:compile", "begin:register_strings", "end:register_strings", "end:compile"}
	for i, n := range ring.Names() {
		if n != want[i] {
			t.Errorf("event %d = %s, want %s", i, n, want[i])
		}
	}
}

func TestSpanEndsOnce(t *testing.T) {
	ring := NewRingTracer(16, LevelPass)
	span := Begin(ring, ScopePass, "get_declarations", 0).WithInt("files", 3)
	span.End("first")
	span.End("second")

	events := ring.Snapshot()
	if len(events) != 2 {
		t.Fatalf("events = %v, want begin and one end", ring.Names())
	}
	end := events[1]
	if end.Detail != "first" || end.Extra["files"] != "3" {
		t.Errorf("end event = %+v", end)
	}
	if events[0].Seq >= end.Seq {
		t.Errorf("seq not increasing: %d, %d", events[0].Seq, end.Seq)
	}
}

func TestFilteredSpanIsInert(t *testing.T) {
	ring := NewRingTracer(16, LevelPass)
	span := Begin(ring, ScopeFile, "parse:a.yarn", 0)
	if span.ID() != 0 {
		t.Errorf("filtered span has id %d", span.ID())
	}
	span.WithInt("nodes", 1).End("")
	if n := len(ring.Snapshot()); n != 0 {
		t.Errorf("filtered span emitted %d events", n)
	}
}

func TestGoroutineID(t *testing.T) {
	main := getGoroutineID()
	if main == 0 {
		t.Fatal("goroutine id not parsed")
	}
	done := make(chan uint64)
	go func() { done <- getGoroutineID() }()
	if other := <-done; other == 0 || other == main {
		t.Errorf("ids %d and %d", main, other)
	}
}

func TestDisabledTracerIsInert(t *testing.T) {
	ctx, span := StartSpan(context.Background(), ScopeDriver, "compile")
	if span.ID() != 0 {
		t.Error("nop span must have no id")
	}
	if span.End("") != 0 {
		t.Error("nop span must report zero duration")
	}
	if CurrentSpan(ctx).SpanID != 0 {
		t.Error("context must not carry a nop span")
	}
}

func TestRingWraps(t *testing.T) {
	ring := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		Point(ring, ScopeNode, name, "", 0)
	}
	names := ring.Names()
	if strings.Join(names, ",") != "point:b,point:c" {
		t.Fatalf("names = %v", names)
	}
}

func TestStreamFormats(t *testing.T) {
	var text bytes.Buffer
	st := NewStreamTracer(&text, LevelPass, FormatText)
	Begin(st, ScopePass, "get_declarations", 0).WithExtra("b", "2").WithExtra("a", "1").End("ok")
	out := text.String()
	if !strings.Contains(out, "→ get_declarations") || !strings.Contains(out, "(ok) {a=1, b=2}") {
		t.Fatalf("text output:\n%s", out)
	}

	var nd bytes.Buffer
	st = NewStreamTracer(&nd, LevelPass, FormatNDJSON)
	Begin(st, ScopePass, "find_tracking_nodes", 0).End("")
	lines := strings.Split(strings.TrimSpace(nd.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("ndjson lines = %d", len(lines))
	}
	var ev map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &ev); err != nil {
		t.Fatal(err)
	}
	if ev["kind"] != "end" || ev["scope"] != "pass" {
		t.Errorf("decoded = %v", ev)
	}
}

func TestNewPicksTracer(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("off level: %v, %v", tr, err)
	}
	tr, err = New(Config{Level: LevelPass, RingSize: 8})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := tr.(*RingTracer); !ok {
		t.Errorf("ring size set but got %T", tr)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}
