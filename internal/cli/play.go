package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jason-s-yu/gostop/internal/autoplay"
	"github.com/jason-s-yu/gostop/internal/game"
	"github.com/jason-s-yu/gostop/internal/session"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const humanSeat = 0

func newPlayCmd(root *rootOptions) *cobra.Command {
	var delay time.Duration
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a three-round series against two AI seats",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, rng, log, err := root.parse()
			if err != nil {
				return err
			}
			p := &player{
				in:    bufio.NewScanner(cmd.InOrStdin()),
				out:   cmd.OutOrStdout(),
				rng:   rng,
				log:   log,
				delay: delay,
			}
			return p.series(d)
		},
	}
	cmd.Flags().DurationVar(&delay, "delay", 300*time.Millisecond, "pause after each AI move")
	return cmd
}

type player struct {
	in    *bufio.Scanner
	out   io.Writer
	rng   game.Rand
	log   logrus.FieldLogger
	delay time.Duration
}

func (p *player) series(d game.Difficulty) error {
	seats := game.DefaultSeats()
	names := make([]string, len(seats))
	for i, s := range seats {
		names[i] = s.Name
	}

	sess := session.New(d)
	fmt.Fprintln(p.out, helpText)
	for !sess.Over() {
		headColor.Fprintf(p.out, "\n### round %d of %d ###\n", sess.Round+1, sess.MaxRounds)
		st, err := sess.NewRound(p.rng, seats)
		if err != nil {
			return err
		}
		if st, err = p.round(st); err != nil {
			if errors.Is(err, errQuit) {
				fmt.Fprintln(p.out, "bye")
				return nil
			}
			return err
		}
		RenderResult(p.out, st)
		if _, err := sess.Record(st); err != nil {
			return err
		}
	}
	RenderRanking(p.out, sess, names)
	return nil
}

// round plays st to the end, prompting on the human seat's decisions.
func (p *player) round(st *game.GameState) (*game.GameState, error) {
	runner := &autoplay.Runner{Rng: p.rng, Log: p.log, OnStep: p.announce}
	for {
		var err error
		if st, err = runner.Run(st); err != nil {
			return nil, err
		}
		if st.Terminal() {
			return st, nil
		}

		RenderView(p.out, game.ViewFor(st, humanSeat, nil))
		fmt.Fprint(p.out, "> ")
		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return nil, err
			}
			return nil, errQuit
		}
		a, err := ParseCommand(p.in.Text())
		if errors.Is(err, errQuit) {
			return nil, err
		}
		if err != nil {
			printError(p.out, err)
			continue
		}

		next, err := game.Apply(st, humanSeat, a, p.rng)
		if err != nil {
			if game.IsRuleViolation(err) {
				printError(p.out, err)
				continue
			}
			return nil, err
		}
		st = next
	}
}

// announce narrates AI decisions.
func (p *player) announce(next *game.GameState, seat int, a *game.Action) {
	if a == nil || seat == humanSeat {
		return
	}
	fmt.Fprintf(p.out, "%s: %s\n", next.Players[seat].Name, describe(a))
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
}

func describe(a *game.Action) string {
	switch a.Kind {
	case game.ActionPlayHandCard:
		return "plays " + FormatCard(*a.CardID)
	case game.ActionSelectMatchTarget:
		return "takes " + FormatCard(*a.TargetID)
	case game.ActionDeclareBomb:
		return fmt.Sprintf("bombs month %d", int(*a.Month))
	case game.ActionDeclareGo:
		return "calls go"
	case game.ActionDeclareStop:
		return "calls stop"
	}
	return string(a.Kind)
}
