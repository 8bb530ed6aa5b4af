package meeting

// Stage identifies a step of the note-processing pipeline. Events form
// a closed set so every call site handles the same cases instead of
// probing optional callbacks.
type Stage string

const (
	StageValidating   Stage = "validating"
	StageTranscribing Stage = "transcribing"
	StageSummarizing  Stage = "summarizing"
	StageWriting      Stage = "writing"
	StageDone         Stage = "done"
	StageFailed       Stage = "failed"
)

// Event is a coarse progress notification. Events fire synchronously
// relative to step completion and carry no correctness contract.
type Event struct {
	Stage   Stage
	Step    int
	Total   int
	Message string
	Err     error
}

// Observer receives pipeline events. A nil observer is valid.
type Observer func(Event)

func (o Observer) emit(e Event) {
	if o != nil {
		o(e)
	}
}
