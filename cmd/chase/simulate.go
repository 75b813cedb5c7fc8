package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"text/tabwriter"

	"github.com/spf13/cobra"

	search "github.com/pdrpinto/chase"
	"github.com/pdrpinto/chase/grid"
	"github.com/pdrpinto/chase/internal/perflog"
)

type chaserStats struct {
	caughtAt int
	searches int
	expanded int
}

func (a *app) newSimulateCmd() *cobra.Command {
	var (
		ticks       int
		seed        int64
		replanEvery int
		strategies  []string
		level       string
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Let one chaser per strategy pursue a randomly wandering target",
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
			if level == "" {
				level = "simulate"
			}
			maze, err := a.config.Maze.Build()
			if err != nil {
				return err
			}
			cells := openCells(maze)
			if len(cells) < len(chosen)+1 {
				return fmt.Errorf("%w: %d open cells cannot hold %d agents", grid.ErrBadMaze, len(cells), len(chosen)+1)
			}
			sink, err := a.openSink()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			chasers := make([]*grid.Chaser, 0, len(chosen))
			stats := make([]chaserStats, len(chosen))
			for i, strategy := range chosen {
				algorithm, err := search.New[grid.Coord, grid.Direction](strategy, a.config.SearchOptions(a.logger)...)
				if err != nil {
					return err
				}
				chaser := grid.NewChaser(fmt.Sprintf("chaser-%d", i+1), maze, cells[len(cells)-1-i], algorithm)
				index := i
				chaser.OnPlan = func(name string, result search.Result[grid.Direction]) {
					stats[index].searches++
					stats[index].expanded += result.ExpandedNodes
					if err := sink.Record(ctx, perflog.NewEntry(name, level, result)); err != nil {
						a.logger.Warn("performance log write failed", slog.String("error", err.Error()))
					}
				}
				chasers = append(chasers, chaser)
			}

			random := rand.New(rand.NewSource(seed))
			target := cells[0]
			remaining := len(chasers)
			for tick := 1; tick <= ticks && remaining > 0; tick++ {
				if moves := maze.Neighbours(target); len(moves) > 0 {
					target = moves[random.Intn(len(moves))].State
				}
				for i, chaser := range chasers {
					if stats[i].caughtAt > 0 {
						continue
					}
					if replanEvery > 0 && tick%replanEvery == 0 {
						chaser.Replan()
					}
					occupied := make(map[grid.Coord]bool, len(chasers))
					for j, other := range chasers {
						if j != i && stats[j].caughtAt == 0 {
							occupied[other.Position()] = true
						}
					}
					if _, err := chaser.Update(ctx, target, occupied); err != nil {
						return fmt.Errorf("%s: %w", chaser.Name(), err)
					}
					if chaser.Position() == target {
						stats[i].caughtAt = tick
						remaining--
						a.logger.Debug("target caught",
							slog.String("chaser", chaser.Name()),
							slog.String("algorithm", chaser.Algorithm()),
							slog.Int("tick", tick))
					}
				}
			}

			table := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(table, "CHASER\tALGORITHM\tCAUGHT AT\tSEARCHES\tEXPANDED")
			for i, chaser := range chasers {
				caught := "-"
				if stats[i].caughtAt > 0 {
					caught = fmt.Sprintf("tick %d", stats[i].caughtAt)
				}
				fmt.Fprintf(table, "%s\t%s\t%s\t%d\t%d\n",
					chaser.Name(), chaser.Algorithm(), caught, stats[i].searches, stats[i].expanded)
			}
			return table.Flush()
		},
	}
	cmd.Flags().IntVar(&ticks, "ticks", 200, "number of simulation ticks")
	cmd.Flags().Int64Var(&seed, "seed", 1, "seed for the target's random walk")
	cmd.Flags().IntVar(&replanEvery, "replan-every", 0, "force every chaser to search again every N ticks (0 only replans when a plan runs out)")
	cmd.Flags().StringSliceVar(&strategies, "strategies", nil, "one chaser per listed strategy (default all)")
	cmd.Flags().StringVar(&level, "level", "", "scenario label for the performance log (default simulate)")
	return cmd
}
