package capture

// State is the lifecycle phase of a capture session.
type State string

const (
	StateIdle      State = "idle"
	StateAcquiring State = "acquiring"
	StateScanning  State = "scanning"
	StateDecoded   State = "decoded"
	StateStopped   State = "stopped"
	StateFailed    State = "failed"
)

// validTransitions defines the allowed state machine transitions.
// Stop() is reachable from every non-terminal state; Decoded always drains
// into Stopped so the camera is never held after a successful scan.
var validTransitions = map[State][]State{
	StateIdle:      {StateAcquiring},
	StateAcquiring: {StateScanning, StateFailed, StateStopped},
	StateScanning:  {StateDecoded, StateStopped},
	StateDecoded:   {StateStopped},
	StateFailed:    {StateStopped},
	StateStopped:   {StateAcquiring},
}

// CanTransitionTo reports whether a transition from s to next is valid.
func (s State) CanTransitionTo(next State) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
