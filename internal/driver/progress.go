package driver

// Stage describes a high-level build phase.
type Stage string

const (
	// StageModule covers constants and global initializers.
	StageModule Stage = "module"
	// StageBody covers lowering one function body.
	StageBody Stage = "body"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for a function, or for the module as a whole when
// Function is empty.
type Event struct {
	Function string
	Stage    Stage
	Status   Status
	Err      error
}

// ProgressSink receives build events. Build calls OnEvent from worker
// goroutines, so implementations must be safe for concurrent use.
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
