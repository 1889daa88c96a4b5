// Package cli is the terminal front end: play a series against the AI, or
// watch the AI play itself.
package cli

import (
	"github.com/jason-s-yu/gostop/internal/game"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	difficulty string
	seed       int64
	verbose    bool
}

// NewRootCmd builds the gostop command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "gostop",
		Short: "Three-player Go-Stop in the terminal",
		Long: `gostop plays three-player Go-Stop with the hwatu deck.
Play a three-round series against two AI seats, or let three AI seats play one out.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.difficulty, "difficulty", "d", string(game.Normal), "AI difficulty: easy, normal or hard")
	root.PersistentFlags().Int64Var(&opts.seed, "seed", 0, "random seed; 0 picks one from the clock")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log every engine step")

	root.AddCommand(newPlayCmd(opts), newSimulateCmd(opts))
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func (o *rootOptions) parse() (game.Difficulty, game.Rand, *logrus.Logger, error) {
	d, err := game.ParseDifficulty(o.difficulty)
	if err != nil {
		return "", nil, nil, err
	}
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)
	if o.verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return d, game.NewRand(o.seed), log, nil
}
