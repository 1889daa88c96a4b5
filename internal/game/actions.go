// internal/game/actions.go
package game

import (
	"encoding/json"
	"fmt"

	"github.com/jason-s-yu/gostop/internal/card"
)

// ActionKind is the tag of an Action.
type ActionKind string

const (
	ActionPlayHandCard      ActionKind = "play-hand-card"
	ActionSelectMatchTarget ActionKind = "select-match-target"
	ActionDeclareGo         ActionKind = "declare-go"
	ActionDeclareStop       ActionKind = "declare-stop"
	ActionDeclareBomb       ActionKind = "declare-bomb"
	ActionTimeout           ActionKind = "timeout"
)

// Action is a client request. Only the field named by Kind is read.
type Action struct {
	Kind     ActionKind  `json:"type"`
	CardID   *card.ID    `json:"cardId,omitempty"`
	TargetID *card.ID    `json:"targetId,omitempty"`
	Month    *card.Month `json:"month,omitempty"`
}

func PlayCard(id card.ID) Action { return Action{Kind: ActionPlayHandCard, CardID: &id} }

func SelectTarget(id card.ID) Action { return Action{Kind: ActionSelectMatchTarget, TargetID: &id} }

func Go() Action { return Action{Kind: ActionDeclareGo} }

func Stop() Action { return Action{Kind: ActionDeclareStop} }

func Bomb(m card.Month) Action { return Action{Kind: ActionDeclareBomb, Month: &m} }

func TimeoutAction() Action { return Action{Kind: ActionTimeout} }

// ParseAction decodes an action message and checks its payload is present.
func ParseAction(data []byte) (Action, error) {
	var a Action
	if err := json.Unmarshal(data, &a); err != nil {
		return Action{}, fmt.Errorf("decode action: %w", err)
	}
	return a, a.validate()
}

func (a Action) validate() error {
	switch a.Kind {
	case ActionPlayHandCard:
		if a.CardID == nil {
			return fmt.Errorf("%w: %s needs cardId", ErrMissingPayload, a.Kind)
		}
	case ActionSelectMatchTarget:
		if a.TargetID == nil {
			return fmt.Errorf("%w: %s needs targetId", ErrMissingPayload, a.Kind)
		}
	case ActionDeclareBomb:
		if a.Month == nil {
			return fmt.Errorf("%w: %s needs month", ErrMissingPayload, a.Kind)
		}
	case ActionDeclareGo, ActionDeclareStop, ActionTimeout:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, a.Kind)
	}
	return nil
}

// Apply runs a on behalf of seat. The seat must be the one the current phase
// waits on.
func Apply(s *GameState, seat int, a Action, rng Rand) (*GameState, error) {
	op := string(a.Kind)
	if s.Phase == PhaseIdle || s.Phase == PhaseGameOver {
		return nil, &TransitionError{Op: op, Phase: s.Phase, Err: ErrGameOver}
	}
	if seat != s.ActingSeat() {
		return nil, &TransitionError{Op: op, Phase: s.Phase, Err: fmt.Errorf("%w: seat %d", ErrNotYourTurn, seat)}
	}
	if err := a.validate(); err != nil {
		return nil, &TransitionError{Op: op, Phase: s.Phase, Err: err}
	}

	switch a.Kind {
	case ActionPlayHandCard:
		return PlayHandCard(s, *a.CardID)
	case ActionSelectMatchTarget:
		return SelectMatchTarget(s, *a.TargetID)
	case ActionDeclareGo:
		return DeclareGo(s)
	case ActionDeclareStop:
		return DeclareStop(s)
	case ActionDeclareBomb:
		return DeclareBomb(s, *a.Month)
	case ActionTimeout:
		return Timeout(s, rng)
	}
	return nil, &TransitionError{Op: op, Phase: s.Phase, Err: ErrUnknownAction}
}

// Timeout takes the default action for the current phase: a random hand card,
// the first pending option, or stop. Draw and resolve-capture need no input
// and simply advance.
func Timeout(s *GameState, rng Rand) (*GameState, error) {
	switch s.Phase {
	case PhasePlayHand:
		hand := s.Players[s.TurnIndex].Hand
		if len(hand) == 0 {
			return nil, inputError("timeout", s, ErrCardNotInHand, "seat %d has no cards", s.TurnIndex)
		}
		return PlayHandCard(s, hand[rng.Intn(len(hand))])
	case PhaseHandMatchSelect, PhaseDrawMatchSelect:
		if len(s.PendingOptions) == 0 {
			return nil, inputError("timeout", s, ErrInvalidTarget, "no pending options")
		}
		return SelectMatchTarget(s, s.PendingOptions[0])
	case PhaseGoStop:
		return DeclareStop(s)
	case PhaseDraw:
		return DrawCard(s)
	case PhaseResolveCapture:
		return ResolveCapture(s)
	}
	return nil, phaseError("timeout", s, PhasePlayHand, PhaseHandMatchSelect, PhaseDrawMatchSelect, PhaseGoStop)
}
