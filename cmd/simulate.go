package cmd

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/they4kman/chromasweep/director/constraint"
	"github.com/they4kman/chromasweep/game"
	"golang.org/x/sync/errgroup"
)

var (
	numGames    int
	parallelism int
)

type simulationResult struct {
	won, lost, stuck atomic.Int64
}

func (result *simulationResult) Fields() logrus.Fields {
	won, lost, stuck := result.won.Load(), result.lost.Load(), result.stuck.Load()
	total := won + lost + stuck

	winRate := 0.0
	if total > 0 {
		winRate = float64(won) / float64(total)
	}
	return logrus.Fields{
		"games":    total,
		"won":      won,
		"lost":     lost,
		"stuck":    stuck,
		"win_rate": fmt.Sprintf("%.3f", winRate),
	}
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Let the director play many games and report how it fares",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := buildConfig(cmd)
		if err != nil {
			return err
		}
		config.WaveDelay = 0

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		result, err := simulate(ctx, config, numGames, parallelism)
		if err != nil {
			return err
		}

		fields := result.Fields()
		log.WithFields(fields).Info("simulation finished")
		fmt.Fprintf(cmd.OutOrStdout(), "won %d/%d (win rate %s)\n", fields["won"], fields["games"], fields["win_rate"])
		return nil
	},
}

// simulate plays numGames director games, game i seeded with config.Seed+i
func simulate(ctx context.Context, config game.GameConfig, numGames, parallelism int) (*simulationResult, error) {
	if config.Seed == 0 {
		config.Seed = rand.Uint64()
	}
	width, height := config.Dimensions()
	maxMoves := 4 * width * height

	result := &simulationResult{}
	group, ctx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		group.SetLimit(parallelism)
	}

	for i := 0; i < numGames; i++ {
		gameConfig := config
		gameConfig.Seed = config.Seed + uint64(i)

		group.Go(func() error {
			session, err := game.NewSession(gameConfig)
			if err != nil {
				return err
			}
			defer session.Close()

			director := constraint.New(rand.New(rand.NewPCG(gameConfig.Seed, uint64(i))))
			state, err := game.RunDirector(ctx, session, director, maxMoves)
			if err != nil {
				return err
			}

			switch state {
			case game.Won:
				result.won.Add(1)
			case game.Lost:
				result.lost.Add(1)
			default:
				result.stuck.Add(1)
			}
			return nil
		})
	}

	return result, group.Wait()
}

func init() {
	simulateCmd.Flags().IntVarP(&numGames, "games", "n", 100, "Number of games to play")
	simulateCmd.Flags().IntVarP(&parallelism, "parallel", "p", 8, "Games played at once")

	rootCmd.AddCommand(simulateCmd)
}
