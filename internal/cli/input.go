package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jason-s-yu/gostop/internal/card"
	"github.com/jason-s-yu/gostop/internal/game"
)

// errQuit is returned by ParseCommand for "q" and "quit".
var errQuit = errors.New("quit")

const helpText = `commands:
  p <card>   play a card from your hand
  s <card>   pick the table card to capture
  b <month>  bomb: play every card of a month
  go | stop  decide after reaching 3 points
  t          let the clock run out
  q          quit`

// ParseCommand turns one input line into an action.
func ParseCommand(line string) (game.Action, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return game.Action{}, errors.New("empty command")
	}

	arg := func() (int, error) {
		if len(fields) != 2 {
			return 0, fmt.Errorf("%s needs one number", fields[0])
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", fields[1])
		}
		return n, nil
	}

	switch fields[0] {
	case "p", "play":
		n, err := arg()
		if err != nil {
			return game.Action{}, err
		}
		return game.PlayCard(card.ID(n)), nil
	case "s", "select":
		n, err := arg()
		if err != nil {
			return game.Action{}, err
		}
		return game.SelectTarget(card.ID(n)), nil
	case "b", "bomb":
		n, err := arg()
		if err != nil {
			return game.Action{}, err
		}
		return game.Bomb(card.Month(n)), nil
	case "go":
		return game.Go(), nil
	case "stop":
		return game.Stop(), nil
	case "t", "timeout":
		return game.TimeoutAction(), nil
	case "q", "quit":
		return game.Action{}, errQuit
	}
	return game.Action{}, fmt.Errorf("unknown command %q", fields[0])
}
