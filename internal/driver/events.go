package driver

import "time"

// Stage describes a per-file pipeline phase.
type Stage string

const (
	// StageRead loads the file into the FileSet.
	StageRead Stage = "read"
	// StageParse classifies lines and builds statements.
	StageParse Stage = "parse"
	// StageFormat renders the diagram.
	StageFormat Stage = "format"
	// StageVerify re-parses the output.
	StageVerify Stage = "verify"
	// StageWrite writes the result back to disk.
	StageWrite Stage = "write"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the file is waiting for a worker.
	StatusQueued Status = "queued"
	// StatusWorking indicates the file is being processed.
	StatusWorking Status = "working"
	// StatusDone indicates the file is finished.
	StatusDone Status = "done"
	// StatusError indicates the file failed.
	StatusError Status = "error"
)

// Event reports progress for a file.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
	Cached  bool
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use: events arrive from worker goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// SinkFunc adapts a plain function to ProgressSink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(evt Event) {
	if f != nil {
		f(evt)
	}
}

func emit(s ProgressSink, evt Event) {
	if s == nil {
		return
	}
	s.OnEvent(evt)
}
