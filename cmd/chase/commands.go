package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	search "github.com/pdrpinto/chase"
	"github.com/pdrpinto/chase/grid"
	"github.com/pdrpinto/chase/internal/config"
	"github.com/pdrpinto/chase/internal/perflog"
)

// app carries what every subcommand needs once the config is loaded.
type app struct {
	configPath string
	config     config.Config
	logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "chase",
		Short:         "Grid pursuit with BFS, DFS, UCS and A* search",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.config = loaded
			a.logger = loaded.NewLogger()
			slog.SetDefault(a.logger)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "chase.yaml", "path to a YAML or JSON config file")
	root.AddCommand(
		a.newRunCmd(),
		a.newBenchCmd(),
		a.newTraceCmd(),
		a.newSimulateCmd(),
		a.newServeCmd(),
	)
	return root
}

// scenarioFlags are shared by the commands that search one snapshot.
type scenarioFlags struct {
	mazeFile string
	start    string
	goal     string
	level    string
}

func (f *scenarioFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.mazeFile, "maze", "", "maze text file ('#' wall, 'S' start, 'G' goal); defaults to the configured maze")
	cmd.Flags().StringVar(&f.start, "start", "", "start cell as row,col")
	cmd.Flags().StringVar(&f.goal, "goal", "", "goal cell as row,col")
	cmd.Flags().StringVar(&f.level, "level", "", "scenario label for the performance log")
}

func (a *app) levelLabel(f *scenarioFlags) string {
	if f.level != "" {
		return f.level
	}
	return a.config.PerfLog.Level
}

// openSink returns the CSV performance log when enabled, fanned out with
// any extra sinks.
func (a *app) openSink(extra ...perflog.Sink) (perflog.Sink, error) {
	sinks := perflog.Multi(extra)
	if a.config.PerfLog.Enabled {
		csvLog, err := perflog.NewCSV(a.config.PerfLog.Path)
		if err != nil {
			return nil, fmt.Errorf("open performance log: %w", err)
		}
		sinks = append(sinks, csvLog)
	}
	return sinks, nil
}

func (a *app) strategyOrDefault(name string) (search.Strategy, error) {
	if name == "" {
		return a.config.Strategy(), nil
	}
	return search.ParseStrategy(name)
}

func (a *app) newRunCmd() *cobra.Command {
	var (
		flags    scenarioFlags
		strategy string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Solve one chase snapshot with one strategy",
		RunE: func(cmd *cobra.Command, args []string) error {
			chosen, err := a.strategyOrDefault(strategy)
			if err != nil {
				return err
			}
			maze, start, goal, err := a.scenario(&flags)
			if err != nil {
				return err
			}
			sink, err := a.openSink()
			if err != nil {
				return err
			}

			result, err := search.Solve(cmd.Context(), chosen, grid.NewChaseProblem(maze, start, goal), a.config.SearchOptions(a.logger)...)
			if err != nil {
				return err
			}
			if err := sink.Record(cmd.Context(), perflog.NewEntry(chosen.DisplayName(), a.levelLabel(&flags), result)); err != nil {
				a.logger.Warn("performance log write failed", slog.String("error", err.Error()))
			}
			printResult(cmd.OutOrStdout(), chosen, result)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&strategy, "strategy", "s", "", "bfs, dfs, ucs or astar (default from config)")
	return cmd
}

func printResult(w io.Writer, strategy search.Strategy, result search.Result[grid.Direction]) {
	fmt.Fprintf(w, "Algorithm:      %s\n", strategy.DisplayName())
	fmt.Fprintf(w, "Found:          %t\n", result.Found)
	if result.Truncated {
		fmt.Fprintln(w, "Truncated:      expansion cap reached")
	}
	fmt.Fprintf(w, "Path length:    %d\n", result.PathLength())
	fmt.Fprintf(w, "Cost:           %g\n", result.Cost)
	fmt.Fprintf(w, "Nodes expanded: %d\n", result.ExpandedNodes)
	fmt.Fprintf(w, "Search time:    %s\n", result.Elapsed)
	fmt.Fprintf(w, "Memory:         %d bytes\n", result.PeakMemory)
	if result.Found {
		fmt.Fprintf(w, "Actions:        %s\n", joinActions(result.Actions))
	}
}

func joinActions(actions []grid.Direction) string {
	names := make([]string, 0, len(actions))
	for _, action := range actions {
		names = append(names, action.String())
	}
	return strings.Join(names, " ")
}

func (a *app) newBenchCmd() *cobra.Command {
	var (
		flags      scenarioFlags
		strategies []string
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run several strategies on the same snapshot and compare them",
		RunE: func(cmd *cobra.Command, args []string) error {
			chosen := search.Strategies()
			if len(strategies) > 0 {
				chosen = chosen[:0]
				for _, name := range strategies {
					strategy, err := search.ParseStrategy(name)
					if err != nil {
						return err
					}
					chosen = append(chosen, strategy)
				}
			}
			maze, start, goal, err := a.scenario(&flags)
			if err != nil {
				return err
			}
			sink, err := a.openSink()
			if err != nil {
				return err
			}

			jobs := make([]search.Job[grid.Coord, grid.Direction], 0, len(chosen))
			for _, strategy := range chosen {
				jobs = append(jobs, search.Job[grid.Coord, grid.Direction]{
					Strategy: strategy,
					Problem:  grid.NewChaseProblem(maze, start, goal),
				})
			}
			results, err := search.SearchAll(cmd.Context(), jobs, a.config.SearchOptions(a.logger)...)
			if err != nil {
				return err
			}

			table := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(table, "ALGORITHM\tFOUND\tPATH\tCOST\tEXPANDED\tTIME\tMEMORY")
			for i, result := range results {
				fmt.Fprintf(table, "%s\t%t\t%d\t%g\t%d\t%s\t%d\n",
					chosen[i].DisplayName(), result.Found, result.PathLength(), result.Cost,
					result.ExpandedNodes, result.Elapsed, result.PeakMemory)
				if err := sink.Record(cmd.Context(), perflog.NewEntry(chosen[i].DisplayName(), a.levelLabel(&flags), result)); err != nil {
					a.logger.Warn("performance log write failed", slog.String("error", err.Error()))
				}
			}
			return table.Flush()
		},
	}
	flags.register(cmd)
	cmd.Flags().StringSliceVar(&strategies, "strategies", nil, "strategies to compare (default all)")
	return cmd
}

func (a *app) newTraceCmd() *cobra.Command {
	var (
		flags    scenarioFlags
		strategy string
		limit    int
	)
	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Print the search one expansion at a time",
		RunE: func(cmd *cobra.Command, args []string) error {
			chosen, err := a.strategyOrDefault(strategy)
			if err != nil {
				return err
			}
			maze, start, goal, err := a.scenario(&flags)
			if err != nil {
				return err
			}
			stepper, err := search.NewStepper(chosen, grid.NewChaseProblem(maze, start, goal), a.config.SearchOptions(a.logger)...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var snapshot search.StepSnapshot[grid.Coord, grid.Direction]
			for printed := 0; !stepper.Done(); printed++ {
				snapshot, err = stepper.Step()
				if err != nil {
					return err
				}
				if limit > 0 && printed >= limit {
					continue
				}
				fmt.Fprintf(out, "step %4d  expand %-9s frontier %d\n", snapshot.StepIndex, snapshot.Current, len(snapshot.Frontier))
			}
			result := stepper.Result()
			fmt.Fprintf(out, "%s finished: found=%t expanded=%d path=%d\n",
				chosen.DisplayName(), result.Found, result.ExpandedNodes, result.PathLength())
			if result.Found {
				fmt.Fprintln(out, joinActions(result.Actions))
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&strategy, "strategy", "s", "", "bfs, dfs, ucs or astar (default from config)")
	cmd.Flags().IntVar(&limit, "limit", 0, "print at most this many steps (0 prints all)")
	return cmd
}
