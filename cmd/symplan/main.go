// Command symplan runs the bundled benchmark instances through the
// planning engine: a solve command for one instance, a bench command for
// the whole suite with result recording.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"symplan/internal/config"
	"symplan/internal/domains"
	"symplan/internal/logging"
	"symplan/internal/planner"
	"symplan/internal/results"
	"symplan/internal/search"
)

var (
	verbose    bool
	configPath string
	generator  string
	algorithm  string
	timeout    time.Duration

	logger *zap.Logger
	cfg    *config.Config
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	planStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	statStyle   = lipgloss.NewStyle().Faint(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

var rootCmd = &cobra.Command{
	Use:   "symplan",
	Short: "symplan - classical planning engine",
	Long: `symplan searches the reachable state space of a classical planning
task for a cost-minimizing ground action sequence, using lifted or
grounded applicable-action generation over packed bitset states.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = config.LoadOrDefault(configPath)
		if err != nil {
			return err
		}
		return logging.Initialize(".", logging.Options{
			DebugMode:  cfg.Logging.DebugMode,
			Categories: cfg.Logging.Categories,
			Level:      cfg.Logging.Level,
			JSONFormat: cfg.Logging.JSONFormat,
		})
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func plannerOptions() (planner.Options, error) {
	opts := planner.DefaultOptions()
	gen := cfg.Planner.Generator
	if generator != "" {
		gen = generator
	}
	alg := cfg.Planner.Algorithm
	if algorithm != "" {
		alg = algorithm
	}
	switch gen {
	case "lifted":
		opts.Generator = planner.GeneratorLifted
	case "grounded", "":
		opts.Generator = planner.GeneratorGrounded
	default:
		return opts, fmt.Errorf("unknown generator %q (want lifted or grounded)", gen)
	}
	switch alg {
	case "astar":
		opts.Algorithm = planner.AlgorithmAStar
		opts.Heuristic = search.BlindHeuristic{}
	case "brfs", "":
		opts.Algorithm = planner.AlgorithmBrFS
	default:
		return opts, fmt.Errorf("unknown algorithm %q (want brfs or astar)", alg)
	}
	if timeout > 0 {
		opts.Timeout = timeout
	} else if d, err := cfg.TimeoutDuration(); err != nil {
		return opts, err
	} else {
		opts.Timeout = d
	}
	opts.MaxMemoryMB = cfg.Limits.MaxMemoryMB
	return opts, nil
}

var solveCmd = &cobra.Command{
	Use:   "solve [instance]",
	Short: "Solve one bundled benchmark instance",
	Long: `Builds the named benchmark instance and searches it. Available
instances: ` + fmt.Sprint(domains.Names()),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := plannerOptions()
		if err != nil {
			return err
		}
		if verbose {
			opts.Handler = search.NewDebugEventHandler(logger)
		} else {
			opts.Handler = search.NewDefaultEventHandler(os.Stdout)
		}

		problem, err := domains.Build(args[0])
		if err != nil {
			return err
		}
		logger.Debug("instance built",
			zap.String("problem", problem.Name),
			zap.Int("objects", len(problem.Objects)),
			zap.Int("actions", len(problem.Domain.Actions)))

		result, err := planner.New(problem, opts).Solve(cmd.Context())
		if err != nil {
			fmt.Println(errStyle.Render("error: " + err.Error()))
			return err
		}

		printResult(result)
		return nil
	},
}

func printResult(result *planner.Result) {
	fmt.Println(headerStyle.Render(fmt.Sprintf("%s: %s", result.Problem, result.Status)))
	if result.Status == search.StatusSolved {
		fmt.Print(planStyle.Render(result.Plan.String()))
		fmt.Println(statStyle.Render(fmt.Sprintf("plan length %d, cost %g",
			result.Plan.Length(), result.Plan.Cost)))
	}
	stats := result.Statistics
	fmt.Println(statStyle.Render(fmt.Sprintf(
		"expanded %d, generated %d, cache %d/%d, setup %s, total %s",
		stats.Expanded, stats.Generated,
		stats.GroundActionCacheHits, stats.GroundActionCacheHits+stats.GroundActionCacheMisses,
		result.SetupTime.Round(time.Millisecond), result.TotalTime.Round(time.Millisecond))))
	logging.Stats("run %s problem=%s status=%s expanded=%d generated=%d",
		result.RunID, result.Problem, result.Status, stats.Expanded, stats.Generated)
}

var benchDB string

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run the full benchmark suite and record the results",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := plannerOptions()
		if err != nil {
			return err
		}

		var store *results.Store
		if benchDB != "" {
			store, err = results.Open(benchDB)
			if err != nil {
				return err
			}
			defer store.Close()
		}

		instances := make([]planner.Instance, 0, len(domains.Names()))
		for _, name := range domains.Names() {
			problem, err := domains.Build(name)
			if err != nil {
				return err
			}
			instOpts := opts
			instOpts.Handler = search.NewMinimalEventHandler()
			instances = append(instances, planner.Instance{Problem: problem, Options: instOpts})
		}

		// Instances are independent problems with independent factories,
		// the one parallelism the engine's threading model allows.
		runs, err := planner.SolvePortfolio(context.Background(), instances)
		if err != nil {
			return err
		}

		for _, result := range runs {
			length := 0
			cost := 0.0
			if result.Status == search.StatusSolved {
				length = result.Plan.Length()
				cost = result.Plan.Cost
			}
			fmt.Printf("%-14s %-12s length=%-3d expanded=%-6d generated=%-6d %s\n",
				result.Problem, result.Status, length,
				result.Statistics.Expanded, result.Statistics.Generated,
				result.TotalTime.Round(time.Millisecond))

			if store != nil {
				err := store.Insert(results.Record{
					RunID:      result.RunID.String(),
					Problem:    result.Problem,
					Generator:  string(opts.Generator),
					Algorithm:  string(opts.Algorithm),
					Status:     result.Status.String(),
					PlanLength: length,
					PlanCost:   cost,
					Expanded:   result.Statistics.Expanded,
					Generated:  result.Statistics.Generated,
					WallMillis: result.TotalTime.Milliseconds(),
				})
				if err != nil {
					logger.Warn("failed to record run", zap.Error(err))
				}
			}
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("symplan 0.1.0")
	},
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&generator, "generator", "", "generator flavor (lifted, grounded)")
	rootCmd.PersistentFlags().StringVar(&algorithm, "algorithm", "", "search algorithm (brfs, astar)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "search timeout (e.g. 30s)")
	benchCmd.Flags().StringVar(&benchDB, "db", "", "SQLite file to record results in")

	rootCmd.AddCommand(solveCmd, benchCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
