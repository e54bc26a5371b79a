package autosave

// Status is the save state of one open document editor.
type Status int

const (
	StatusIdle Status = iota
	StatusUnsaved
	StatusSaving
	StatusSaved
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusUnsaved:
		return "unsaved"
	case StatusSaving:
		return "saving"
	case StatusSaved:
		return "saved"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Transition is delivered to subscribers on every status change.
type Transition struct {
	From Status
	To   Status
	// Err is set for transitions into StatusError.
	Err error
}
