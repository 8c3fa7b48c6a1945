package driver

import (
	"strings"
	"time"

	"spool/internal/trace"
)

// Stage describes where a file is in the pipeline.
type Stage string

const (
	StageLoad    Stage = "load"
	StageParse   Stage = "parse"
	StageCompile Stage = "compile"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for a file, or for the whole run when File is empty.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use: loading and parsing report from worker goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(ev Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- ev
}

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(ev Event) { f(ev) }

func emit(sink ProgressSink, ev Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}

// progressTracer turns the compiler's per-file parse spans into progress
// events and passes every event the wrapped tracer wants through to it.
type progressTracer struct {
	next trace.Tracer
	sink ProgressSink
}

func newProgressTracer(next trace.Tracer, sink ProgressSink) trace.Tracer {
	if sink == nil {
		return next
	}
	if next == nil {
		next = trace.Nop
	}
	return &progressTracer{next: next, sink: sink}
}

func (p *progressTracer) Emit(ev *trace.Event) {
	if ev.Scope == trace.ScopeFile {
		if name, ok := strings.CutPrefix(ev.Name, "parse:"); ok {
			switch ev.Kind {
			case trace.KindSpanBegin:
				p.sink.OnEvent(Event{File: name, Stage: StageParse, Status: StatusWorking})
			case trace.KindSpanEnd:
				p.sink.OnEvent(Event{File: name, Stage: StageCompile, Status: StatusWorking})
			}
		}
	}
	if p.next.Enabled() && p.next.Level().ShouldEmit(ev.Scope) {
		p.next.Emit(ev)
	}
}

func (p *progressTracer) Flush() error { return p.next.Flush() }
func (p *progressTracer) Close() error { return p.next.Close() }
func (p *progressTracer) Enabled() bool { return true }

// Level is at least LevelFile so per-file spans reach Emit.
func (p *progressTracer) Level() trace.Level {
	return max(p.next.Level(), trace.LevelFile)
}
