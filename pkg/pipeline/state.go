package pipeline

//go:generate go run github.com/dmarkham/enumer -type State -trimprefix State -transform snake -output state_gen.go

// State is the per-request authentication state. It is never persisted; each
// request gets its own linear walk through the machine.
type State int

const (
	// StateNotAttempted is the initial state.
	StateNotAttempted State = iota
	// StateCredentialsExtracted means raw material was read from the request.
	StateCredentialsExtracted
	// StatePrincipalResolved means the directory returned a principal.
	StatePrincipalResolved
	// StateVerified means the credential check passed.
	StateVerified
	// StateSuccess is terminal: the request continues downstream.
	StateSuccess
	// StateFailed is terminal: a failure response was written.
	StateFailed
)

// Terminal reports whether no further transition is allowed.
func (s State) Terminal() bool {
	return s == StateSuccess || s == StateFailed
}

// CanTransition reports whether moving from s to next is a legal step:
// one forward step along the happy path, or a jump to StateFailed from any
// of the three middle states. StateNotAttempted never transitions to
// StateFailed; a request with no attempt takes the challenge path instead.
func (s State) CanTransition(next State) bool {
	if s.Terminal() {
		return false
	}
	if next == StateFailed {
		return s != StateNotAttempted
	}
	return next == s+1
}

// attempt tracks one request's walk through the state machine.
type attempt struct {
	state State
}

// advance moves the attempt to next. Illegal transitions indicate a pipeline
// bug and panic.
func (a *attempt) advance(next State) {
	if !a.state.CanTransition(next) {
		panic("pipeline: illegal state transition " + a.state.String() + " -> " + next.String())
	}
	a.state = next
}
