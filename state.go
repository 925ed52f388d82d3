package afe4400

import "fmt"

// State is the run state of a Loop.
type State int32

const (
	// Idle is the state of a Loop that has not been started.
	Idle State = iota
	// Initializing is the state while the register program is applied.
	Initializing
	// Steady is the state while samples are acquired.
	Steady
	// Stopped is reached after a stop request. It is terminal.
	Stopped
	// Failed is reached on a fatal error. It is terminal.
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Initializing:
		return "initializing"
	case Steady:
		return "steady"
	case Stopped:
		return "stopped"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == Stopped || s == Failed
}
