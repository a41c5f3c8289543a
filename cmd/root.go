package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/they4kman/chromasweep/director/constraint"
	"github.com/they4kman/chromasweep/game"
)

var (
	flagConfig   = game.NewGameConfig()
	configPath   string
	boardPath    string
	logLevel     string
	reverseFlags bool
	useDirector  bool
	dumpBoard    bool
	noColor      bool
	animate      bool
)

var rootCmd = &cobra.Command{
	Use:   "chromasweep",
	Short: "Play Minesweeper with colour-coded traps",
	Long: `chromasweep is a Minesweeper game where every trap has a colour.
Numbers count the traps around them, and a trap only counts as found once it
is flagged with its own colour.

Run with no arguments to play in the terminal
	chromasweep

Use the director flag to make the computer play for you
	chromasweep -director
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadEnv(); err != nil {
			return err
		}
		return setupLogging(logLevel)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := buildConfig(cmd)
		if err != nil {
			return err
		}
		if !animate {
			config.WaveDelay = 0
		}

		session, err := game.NewSession(config)
		if err != nil {
			return err
		}
		defer session.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		out := cmd.OutOrStdout()
		if useDirector {
			err = watchDirector(ctx, out, session)
		} else {
			err = play(ctx, cmd.InOrStdin(), out, session)
		}
		if err != nil {
			return err
		}

		if dumpBoard {
			if snapshot := session.Snapshot(); snapshot != nil {
				fmt.Fprint(out, snapshot.Serialize())
			}
		}
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildConfig(cmd *cobra.Command) (game.GameConfig, error) {
	flagConfig.Policy.FlagDirection = 1
	if reverseFlags {
		flagConfig.Policy.FlagDirection = -1
	}
	return loadGameConfig(cmd, flagConfig, configPath, boardPath)
}

const playHelp = `commands:
  d X Y        discover a cell (chords a visible number)
  f X Y        cycle flag forwards
  b X Y        cycle flag backwards
  t X Y COLOR  place/remove a flag of COLOR
  s X Y        secondary action (flag, or chord if configured)
  p            print the board
  q            quit`

func play(ctx context.Context, in io.Reader, out io.Writer, session *game.Session) error {
	colored := !noColor
	config := session.Config()

	palette := config.Colors
	if config.Snapshot != nil {
		palette = config.Snapshot.Palette
	}

	renderLegend(out, palette, colored)
	fmt.Fprintln(out, playHelp)

	onWave := func(wave []*game.Cell) {
		if animate {
			session.View(func(grid *game.Grid) { renderGrid(out, grid, colored) })
		}
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		var (
			x, y int
			err  error
		)
		switch fields[0] {
		case "q", "quit":
			return nil
		case "p", "print":
			session.View(func(grid *game.Grid) { renderGrid(out, grid, colored) })
			continue
		case "d", "f", "b", "t", "s":
			if x, y, err = parseCoords(fields); err != nil {
				fmt.Fprintln(out, err)
				continue
			}
		default:
			fmt.Fprintln(out, playHelp)
			continue
		}

		switch fields[0] {
		case "d":
			_, err = session.Discover(ctx, x, y, onWave)
		case "f":
			err = session.Flag(ctx, x, y, 1)
		case "b":
			err = session.Flag(ctx, x, y, -1)
		case "s":
			_, err = session.Secondary(ctx, x, y, onWave)
		case "t":
			if len(fields) < 4 {
				fmt.Fprintln(out, "usage: t X Y COLOR")
				continue
			}
			err = session.FlagWith(ctx, x, y, game.Color(strings.ToLower(fields[3])))
		}
		if err != nil {
			return err
		}

		session.View(func(grid *game.Grid) { renderGrid(out, grid, colored) })

		switch state := session.State(); state {
		case game.Won:
			fmt.Fprintln(out, "WIN!")
			return nil
		case game.Lost:
			fmt.Fprintln(out, "LOSE :(")
			return nil
		}
	}
}

func parseCoords(fields []string) (int, int, error) {
	if len(fields) < 3 {
		return 0, 0, fmt.Errorf("usage: %s X Y", fields[0])
	}
	x, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid x: %w", err)
	}
	y, err := strconv.Atoi(fields[2])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid y: %w", err)
	}
	return x, y, nil
}

func watchDirector(ctx context.Context, out io.Writer, session *game.Session) error {
	director := constraint.New(rand.New(rand.NewPCG(session.Seed(), uint64(time.Now().UnixNano()))))

	width, height := session.Config().Dimensions()
	state, err := game.RunDirector(ctx, session, director, 4*width*height)
	if err != nil {
		return err
	}

	session.View(func(grid *game.Grid) { renderGrid(out, grid, !noColor) })
	fmt.Fprintf(out, "director finished: %s\n", state)
	return nil
}

func init() {
	flags := rootCmd.PersistentFlags()

	// Define our root -help without a shorthand, as we'll use -h for --height
	// Ref: https://github.com/spf13/cobra/issues/291
	flags.Bool("help", false, "Help for this command")

	flags.IntVarP(&flagConfig.Width, "width", "w", flagConfig.Width, "Width of the grid, in cells")
	flags.IntVarP(&flagConfig.Height, "height", "h", flagConfig.Height, "Height of the grid, in cells")
	flags.Float64Var(&flagConfig.Difficulty, "difficulty", flagConfig.Difficulty, "Fraction of cells holding a trap")
	flags.Var(newPaletteValue(game.DefaultPalette(), &flagConfig.Colors), "colors", "Comma-separated trap colours, in flag cycling order")
	flags.Uint64Var(&flagConfig.Seed, "seed", 0, "Random seed (0 picks one)")
	flags.DurationVar(&flagConfig.WaveDelay, "wave-delay", flagConfig.WaveDelay, "Pause between waves of a cascade, with --animate")
	flags.BoolVar(&reverseFlags, "reverse-flags", false, "Cycle flags backwards on the secondary action")
	flags.BoolVar(&flagConfig.Policy.ChordOnSecondary, "chord-on-secondary", false, "Secondary action on a number chords it")
	flags.StringVar(&configPath, "config", "", "YAML config file (or $"+envConfig+")")
	flags.StringVar(&boardPath, "board", "", "YAML snapshot of a fixed board to play")
	flags.StringVar(&logLevel, "log-level", "", "Log level (or $"+envLogLevel+")")
	flags.BoolVar(&noColor, "no-color", false, "Disable coloured output")

	rootCmd.Flags().BoolVarP(&useDirector, "director", "d", false, "Make the computer play")
	rootCmd.Flags().BoolVar(&dumpBoard, "dump", false, "Print a snapshot of the final board")
	rootCmd.Flags().BoolVar(&animate, "animate", false, "Print every wave of a cascade")
}
