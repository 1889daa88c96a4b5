package cli

import (
	"fmt"

	"github.com/jason-s-yu/gostop/internal/autoplay"
	"github.com/jason-s-yu/gostop/internal/game"
	"github.com/jason-s-yu/gostop/internal/session"
	"github.com/spf13/cobra"
)

func newSimulateCmd(root *rootOptions) *cobra.Command {
	var rounds int
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Let three AI seats play a series",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, rng, log, err := root.parse()
			if err != nil {
				return err
			}
			if rounds < 1 {
				return fmt.Errorf("rounds must be at least 1, got %d", rounds)
			}
			out := cmd.OutOrStdout()

			seats := []game.SeatConfig{
				{Name: "AI 0", AI: true},
				{Name: "AI 1", AI: true},
				{Name: "AI 2", AI: true},
			}
			names := []string{seats[0].Name, seats[1].Name, seats[2].Name}

			sess := session.New(d)
			sess.MaxRounds = rounds
			for !sess.Over() {
				st, err := sess.NewRound(rng, seats)
				if err != nil {
					return err
				}
				if st, err = autoplay.Run(st, rng, log); err != nil {
					return err
				}
				fmt.Fprintf(out, "round %d: ", sess.Round+1)
				RenderResult(out, st)
				if _, err := sess.Record(st); err != nil {
					return err
				}
			}
			RenderRanking(out, sess, names)
			return nil
		},
	}
	cmd.Flags().IntVarP(&rounds, "rounds", "r", session.Rounds, "rounds to play")
	return cmd
}
