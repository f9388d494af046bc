package models

type StateKind string

const (
	StateLoading StateKind = "LOADING"
	StateSuccess StateKind = "SUCCESS"
	StateEmpty   StateKind = "EMPTY"
	StateError   StateKind = "ERROR"
)

// ResultState is what observers render. Exactly one Kind is current;
// Stations is only set for StateSuccess and Message only for StateError.
type ResultState struct {
	Kind     StateKind `json:"state"`
	Stations []Station `json:"stations,omitempty"`
	Message  string    `json:"message,omitempty"`
}

func Loading() ResultState {
	return ResultState{Kind: StateLoading}
}

func Success(stations []Station) ResultState {
	return ResultState{Kind: StateSuccess, Stations: stations}
}

func Empty() ResultState {
	return ResultState{Kind: StateEmpty}
}

func Failed(message string) ResultState {
	return ResultState{Kind: StateError, Message: message}
}

// HasData reports whether stations (or an empty match) have been shown.
func (r ResultState) HasData() bool {
	return r.Kind == StateSuccess || r.Kind == StateEmpty
}
