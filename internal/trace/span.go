package trace

import (
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// NextSeq returns the next event sequence number. Sinks stamp it when they
// store or write an event, so Seq follows output order.
func NextSeq() uint64 { return seqCounter.Add(1) }

// NextSpanID returns a unique span ID; 0 is never returned.
func NextSpanID() uint64 { return spanCounter.Add(1) }

// getGoroutineID reads the id from the "goroutine N [...]" stack header.
// Pass 1 parses files on errgroup workers; the id tells their spans apart.
func getGoroutineID() uint64 {
	var buf [64]byte
	header := string(buf[:runtime.Stack(buf[:], false)])
	fields := strings.Fields(strings.TrimPrefix(header, "goroutine "))
	if len(fields) == 0 {
		return 0
	}
	gid, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return 0
	}
	return gid
}

// Span is one begin/end pair: the whole compile, a pass, or one file's
// parse. A Span from a disabled tracer, or one filtered out by level, is
// inert: every method is a no-op and ID returns 0.
type Span struct {
	tracer   Tracer
	id       uint64
	parentID uint64
	gid      uint64
	scope    Scope
	name     string
	started  time.Time
	extra    map[string]string
	ended    atomic.Bool
}

func inert() *Span { return &Span{} }

func (s *Span) live() bool {
	return s != nil && s.tracer != nil && s.tracer.Enabled()
}

// Begin emits the begin event of a span under parent (0 for a root).
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return inert()
	}
	s := &Span{
		tracer:   t,
		id:       NextSpanID(),
		parentID: parent,
		gid:      getGoroutineID(),
		scope:    scope,
		name:     name,
		started:  time.Now(),
	}
	t.Emit(s.event(KindSpanBegin, s.started, ""))
	return s
}

func (s *Span) event(kind Kind, at time.Time, detail string) *Event {
	ev := &Event{
		Time:     at,
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parentID,
		GID:      s.gid,
		Name:     s.name,
		Detail:   detail,
	}
	if kind == KindSpanEnd {
		ev.Extra = s.extra
	}
	return ev
}

// End emits the end event with detail and the extras collected so far and
// returns the span's duration. Only the first call emits; later calls
// return the duration again.
func (s *Span) End(detail string) time.Duration {
	if !s.live() {
		return 0
	}
	now := time.Now()
	if s.ended.CompareAndSwap(false, true) {
		s.tracer.Emit(s.event(KindSpanEnd, now, detail))
	}
	return now.Sub(s.started)
}

// WithExtra attaches a key/value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if !s.live() {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string)
	}
	s.extra[key] = value
	return s
}

// WithInt attaches a count, e.g. files or diagnostics of a pass.
func (s *Span) WithInt(key string, n int) *Span {
	if !s.live() {
		return s
	}
	return s.WithExtra(key, strconv.Itoa(n))
}

// ID returns the span ID, 0 for an inert span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}
