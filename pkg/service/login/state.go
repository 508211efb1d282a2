package login

// State is a step of a login attempt.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateAuthenticating
	StateRelaying
	StateNavigated
	StateFormError
	StateBackendError
)

var stateNames = map[State]string{
	StateIdle:           "idle",
	StateValidating:     "validating",
	StateAuthenticating: "authenticating",
	StateRelaying:       "relaying",
	StateNavigated:      "navigated",
	StateFormError:      "form_error",
	StateBackendError:   "backend_error",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether an attempt ends in s.
func (s State) Terminal() bool {
	return s == StateNavigated || s == StateFormError || s == StateBackendError
}
