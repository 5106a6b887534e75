package driver

import "time"

// Stage describes what the driver is doing with a file.
type Stage string

const (
	// StageRead is loading the file from disk.
	StageRead Stage = "read"
	// StageLint is checking or fixing the document.
	StageLint Stage = "lint"
	// StageWrite is writing the fixed document back.
	StageWrite Stage = "write"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the file is waiting for a worker.
	StatusQueued Status = "queued"
	// StatusWorking indicates the stage is running.
	StatusWorking Status = "working"
	// StatusDone indicates the file is finished.
	StatusDone Status = "done"
	// StatusSkipped indicates the file isn't an HTML5 document.
	StatusSkipped Status = "skipped"
	// StatusError indicates the file failed to load, lint or write.
	StatusError Status = "error"
)

// Final reports whether no further events follow for the file.
func (s Status) Final() bool {
	return s == StatusDone || s == StatusSkipped || s == StatusError
}

// Event reports progress for a file.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Sinks are called from worker
// goroutines and must be safe for concurrent use.
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

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
