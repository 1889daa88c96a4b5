// internal/autoplay/autoplay.go
package autoplay

import (
	"errors"
	"fmt"

	"github.com/jason-s-yu/gostop/internal/ai"
	"github.com/jason-s-yu/gostop/internal/game"
	"github.com/sirupsen/logrus"
)

// MaxSteps bounds a single Run unless the Runner sets its own limit. A correct
// state machine ends a round in well under this many transitions.
const MaxSteps = 200

// ErrRunaway means Run hit MaxSteps without reaching a human decision or the
// end of the round. It indicates an engine defect.
var ErrRunaway = errors.New("autoplay: step limit exceeded")

// Runner advances a round until a human seat must decide.
type Runner struct {
	Rng game.Rand
	Log logrus.FieldLogger
	// MaxSteps overrides the package limit when positive.
	MaxSteps int
	// OnStep, if set, sees every state Run produces. a is nil for the draw and
	// capture steps that need no decision.
	OnStep func(next *game.GameState, seat int, a *game.Action)
}

// Run is shorthand for a Runner without a step hook.
func Run(s *game.GameState, rng game.Rand, log logrus.FieldLogger) (*game.GameState, error) {
	r := &Runner{Rng: rng, Log: log}
	return r.Run(s)
}

// Run draws and resolves for any seat, decides for AI seats with the policy
// matching the round's difficulty, and stops when a human seat must act or
// the round is idle or over.
func (r *Runner) Run(s *game.GameState) (*game.GameState, error) {
	log := r.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	policy, err := ai.ForDifficulty(s.Difficulty, r.Rng)
	if err != nil {
		return nil, err
	}

	limit := r.MaxSteps
	if limit <= 0 {
		limit = MaxSteps
	}

	for step := 0; step < limit; step++ {
		if s.Phase == game.PhaseIdle || s.Terminal() {
			return s, nil
		}
		seat := s.ActingSeat()

		var (
			next   *game.GameState
			action *game.Action
		)
		switch s.Phase {
		case game.PhaseDraw:
			next, err = game.DrawCard(s)
		case game.PhaseResolveCapture:
			next, err = game.ResolveCapture(s)
		default:
			if !s.Players[seat].AI {
				return s, nil
			}
			a, derr := ai.Decide(policy, s, seat)
			if derr != nil {
				return nil, fmt.Errorf("seat %d in %s: %w", seat, s.Phase, derr)
			}
			action = &a
			next, err = game.Apply(s, seat, a, r.Rng)
		}
		if err != nil {
			return nil, fmt.Errorf("autoplay step %d: %w", step, err)
		}

		fields := logrus.Fields{"game": s.ID, "seat": seat, "from": s.Phase, "to": next.Phase}
		if action != nil {
			fields["action"] = action.Kind
		}
		log.WithFields(fields).Debug("autoplay step")

		if r.OnStep != nil {
			r.OnStep(next, seat, action)
		}
		s = next
	}

	log.WithFields(logrus.Fields{"game": s.ID, "phase": s.Phase, "limit": limit}).Error("autoplay step limit exceeded")
	return nil, ErrRunaway
}
