package session

// transitions lists the phases reachable from each phase.
var transitions = map[Phase][]Phase{
	PhaseIdle:       {PhaseConnecting, PhaseError},
	PhaseConnecting: {PhaseConnected, PhaseError, PhaseIdle},
	PhaseConnected:  {PhaseIdle, PhaseError},
	PhaseError:      {PhaseConnecting, PhaseError, PhaseIdle},
}

// CanTransition reports whether from -> to is a legal phase change.
func CanTransition(from, to Phase) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
