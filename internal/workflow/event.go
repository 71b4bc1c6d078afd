package workflow

// Event is the interface for all agent loop events.
// Consumers handle events via type switch.
type Event interface {
	isEvent()
}

// ThinkingEvent is emitted before each model round.
type ThinkingEvent struct {
	Iteration int
}

func (ThinkingEvent) isEvent() {}

// TextEvent is emitted when the model ends its turn with text.
type TextEvent struct {
	Text string
}

func (TextEvent) isEvent() {}

// ToolStartEvent is emitted when a requested tool starts executing.
type ToolStartEvent struct {
	ToolName string
	Input    string
}

func (ToolStartEvent) isEvent() {}

// ToolEndEvent is emitted when a requested tool finished, successfully or not.
type ToolEndEvent struct {
	ToolName string
	Output   string
	IsError  bool
}

func (ToolEndEvent) isEvent() {}

// DoneEvent is emitted when a run completes. Err is nil on success.
type DoneEvent struct {
	Err error
}

func (DoneEvent) isEvent() {}
