package goldfish

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Summary aggregates many goldfish games.
type Summary struct {
	Games int
	Wins  int
	// TurnsToWin counts wins by the turn they happened on.
	TurnsToWin   map[int]int
	AverageTurns float64
	Results      []Result
}

// RunMany plays games games concurrently on at most workers goroutines.
// Game i is shuffled with seed+i, so a summary is reproducible. Each game
// owns its own state; the first error cancels the rest.
func (r *Runner) RunMany(ctx context.Context, games, workers int, seed int64) (Summary, error) {
	if games <= 0 {
		return Summary{}, fmt.Errorf("games must be positive, got %d", games)
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, games)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range games {
		g.Go(func() error {
			res, err := r.Play(ctx, seed+int64(i))
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	s := Summarize(results)
	r.logger.Info("goldfish run finished",
		zap.Int("games", s.Games),
		zap.Int("wins", s.Wins),
		zap.Float64("average_turns", s.AverageTurns),
	)
	return s, nil
}

// Summarize aggregates results. AverageTurns covers won games only.
func Summarize(results []Result) Summary {
	s := Summary{
		Games:      len(results),
		TurnsToWin: make(map[int]int),
		Results:    results,
	}
	total := 0
	for _, res := range results {
		if !res.Won {
			continue
		}
		s.Wins++
		s.TurnsToWin[res.Turns]++
		total += res.Turns
	}
	if s.Wins > 0 {
		s.AverageTurns = float64(total) / float64(s.Wins)
	}
	return s
}

// Turns returns the turns with at least one win, ascending.
func (s Summary) Turns() []int {
	turns := make([]int, 0, len(s.TurnsToWin))
	for t := range s.TurnsToWin {
		turns = append(turns, t)
	}
	sort.Ints(turns)
	return turns
}
