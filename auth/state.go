package auth

// Stage is a step of the login state machine. Stages only move forward:
//
//	Ready -> SessionTokenReceived -> AuthCodeReceived -> LoggedIn
//
// with Failed reachable from every non-terminal stage.
type Stage int

const (
	StageReady Stage = iota
	StageSessionTokenReceived
	StageAuthCodeReceived
	StageLoggedIn
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageReady:
		return "Ready"
	case StageSessionTokenReceived:
		return "SessionTokenReceived"
	case StageAuthCodeReceived:
		return "AuthCodeReceived"
	case StageLoggedIn:
		return "LoggedIn"
	case StageFailed:
		return "Failed"
	}
	return "Unknown"
}

// Terminal reports whether no further requests follow this stage.
func (s Stage) Terminal() bool {
	return s == StageLoggedIn || s == StageFailed
}

// step names the request issued on entry to s.
func (s Stage) step() string {
	switch s {
	case StageReady:
		return "primary authentication"
	case StageSessionTokenReceived:
		return "authorization request"
	case StageAuthCodeReceived:
		return "token exchange"
	}
	return s.String()
}

// canTransition is the transition table.
func canTransition(from, to Stage) bool {
	if from.Terminal() {
		return false
	}
	if to == StageFailed {
		return true
	}
	return to == from+1
}

// state is a stage plus the input its entry action needs.
type state struct {
	stage        Stage
	sessionToken string
	code         string
	tokens       *Tokens
	err          *Error
}

func failed(err *Error) state {
	return state{stage: StageFailed, err: err}
}

func (s state) result() Result {
	if s.stage == StageLoggedIn {
		return Result{Tokens: s.tokens}
	}
	if s.err == nil {
		return Result{Err: errLoginFailed}
	}
	return Result{Err: s.err}
}
