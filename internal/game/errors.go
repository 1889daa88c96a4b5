// internal/game/errors.go
package game

import (
	"errors"
	"fmt"
	"strings"
)

// Illegal transitions: the action does not fit the current phase or seat.
var (
	ErrWrongPhase  = errors.New("action not allowed in current phase")
	ErrNotYourTurn = errors.New("not this seat's turn")
	ErrGameOver    = errors.New("game is not in progress")
)

// Invalid targets: the phase is right but the payload is not.
var (
	ErrCardNotInHand  = errors.New("card not in hand")
	ErrInvalidTarget  = errors.New("target not among pending match options")
	ErrNoBomb         = errors.New("month is not a bomb option")
	ErrMissingPayload = errors.New("action payload missing")
	ErrUnknownAction  = errors.New("unknown action type")
)

// ErrMissingTarget is returned by Execute when a choice outcome is applied
// without a target. It signals a caller bug, not a game-rule violation.
var ErrMissingTarget = errors.New("choice match requires a target")

// TransitionError describes a rejected transition. The input state is never
// modified when one is returned.
type TransitionError struct {
	Op       string
	Phase    Phase
	Expected []Phase
	Err      error
}

func (e *TransitionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %v", e.Op, e.Err)
	if len(e.Expected) > 0 {
		names := make([]string, len(e.Expected))
		for i, p := range e.Expected {
			names[i] = string(p)
		}
		fmt.Fprintf(&b, " (phase %s, expected %s)", e.Phase, strings.Join(names, " or "))
	}
	return b.String()
}

func (e *TransitionError) Unwrap() error { return e.Err }

// IsRuleViolation reports whether err is a recoverable rejection (wrong phase,
// wrong seat, or bad payload) that the caller should re-prompt for.
func IsRuleViolation(err error) bool {
	var te *TransitionError
	return errors.As(err, &te)
}

func phaseError(op string, s *GameState, expected ...Phase) error {
	return &TransitionError{Op: op, Phase: s.Phase, Expected: expected, Err: ErrWrongPhase}
}

func inputError(op string, s *GameState, err error, format string, args ...interface{}) error {
	return &TransitionError{Op: op, Phase: s.Phase, Err: fmt.Errorf("%w: "+format, append([]interface{}{err}, args...)...)}
}
