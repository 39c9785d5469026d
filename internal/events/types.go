package events

// Event type constants for kelindar/event.
const (
	TypeRecordingStarted uint32 = iota + 1
	TypeRecordingFinished
	TypeTranscodeStage
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// RecordingStartedEvent fires once the encoder process is running.
type RecordingStartedEvent struct {
	Output string
	PID    int
}

// Type returns the event type identifier for RecordingStartedEvent.
func (e RecordingStartedEvent) Type() uint32 { return TypeRecordingStarted }

// RecordingFinishedEvent fires when the encoder process exits.
type RecordingFinishedEvent struct {
	Output string
	Err    error
}

// Type returns the event type identifier for RecordingFinishedEvent.
func (e RecordingFinishedEvent) Type() uint32 { return TypeRecordingFinished }

// TranscodeStageEvent fires as each GIF transcode stage starts.
type TranscodeStageEvent struct {
	Stage  int // 1 = palette generation, 2 = palette-constrained encode
	Source string
}

// Type returns the event type identifier for TranscodeStageEvent.
func (e TranscodeStageEvent) Type() uint32 { return TypeTranscodeStage }
