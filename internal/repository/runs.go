package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/magefree/mage-goldfish-go/internal/goldfish"
	"go.uber.org/zap"
)

var schema = []string{`
CREATE TABLE IF NOT EXISTS goldfish_runs (
	id            UUID PRIMARY KEY,
	deck          TEXT[] NOT NULL,
	games         INTEGER NOT NULL,
	wins          INTEGER NOT NULL,
	average_turns DOUBLE PRECISION NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL
)`, `
CREATE TABLE IF NOT EXISTS goldfish_games (
	run_id        UUID NOT NULL REFERENCES goldfish_runs(id) ON DELETE CASCADE,
	seed          BIGINT NOT NULL,
	won           BOOLEAN NOT NULL,
	turns         INTEGER NOT NULL,
	opponent_life INTEGER NOT NULL,
	spells_cast   INTEGER NOT NULL,
	lands_played  INTEGER NOT NULL,
	plays         TEXT[] NOT NULL,
	PRIMARY KEY (run_id, seed)
)`}

// gameBatchSize caps the games sent per batch.
const gameBatchSize = 500

// Run is a stored summary of one goldfish run.
type Run struct {
	ID           uuid.UUID
	Deck         []string
	Games        int
	Wins         int
	AverageTurns float64
	CreatedAt    time.Time
}

// RunRepository persists goldfish summaries.
type RunRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewRunRepository creates a repository over db.
func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db, logger: db.logger.Named("runs")}
}

// Migrate creates the tables if they do not exist.
func (r *RunRepository) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrating goldfish tables: %w", err)
		}
	}
	return nil
}

// beginner opens transactions; *DB satisfies it through its pool.
type beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Save stores summary and every game in it under a new run ID. The run and
// its games commit together or not at all.
func (r *RunRepository) Save(ctx context.Context, deck []string, summary goldfish.Summary) (uuid.UUID, error) {
	run := newRun(deck, summary, time.Now())
	if err := saveRun(ctx, r.db, run, summary.Results); err != nil {
		return uuid.Nil, err
	}
	r.logger.Info("run saved",
		zap.Stringer("run", run.ID),
		zap.Int("games", run.Games),
		zap.Int("wins", run.Wins),
	)
	return run.ID, nil
}

func saveRun(ctx context.Context, db beginner, run Run, results []goldfish.Result) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`INSERT INTO goldfish_runs (id, deck, games, wins, average_turns, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		run.ID, run.Deck, run.Games, run.Wins, run.AverageTurns, run.CreatedAt,
	); err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	for _, chunk := range batches(results, gameBatchSize) {
		batch := &pgx.Batch{}
		for _, res := range chunk {
			batch.Queue(
				`INSERT INTO goldfish_games (run_id, seed, won, turns, opponent_life, spells_cast, lands_played, plays)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				gameRow(run.ID, res)...,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("inserting games: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing run: %w", err)
	}
	return nil
}

// Get loads a stored run summary.
func (r *RunRepository) Get(ctx context.Context, id uuid.UUID) (Run, error) {
	run := Run{ID: id}
	err := r.db.QueryRow(ctx,
		`SELECT deck, games, wins, average_turns, created_at FROM goldfish_runs WHERE id = $1`, id,
	).Scan(&run.Deck, &run.Games, &run.Wins, &run.AverageTurns, &run.CreatedAt)
	if err != nil {
		return Run{}, fmt.Errorf("loading run %s: %w", id, err)
	}
	return run, nil
}

// Results loads the games of a run, ordered by seed.
func (r *RunRepository) Results(ctx context.Context, id uuid.UUID) ([]goldfish.Result, error) {
	rows, err := r.db.Query(ctx,
		`SELECT seed, won, turns, opponent_life, spells_cast, lands_played, plays
		 FROM goldfish_games WHERE run_id = $1 ORDER BY seed`, id)
	if err != nil {
		return nil, fmt.Errorf("loading games of run %s: %w", id, err)
	}
	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (goldfish.Result, error) {
		var res goldfish.Result
		err := row.Scan(&res.Seed, &res.Won, &res.Turns, &res.OpponentLife, &res.SpellsCast, &res.LandsPlayed, &res.Plays)
		return res, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning games of run %s: %w", id, err)
	}
	return results, nil
}

func newRun(deck []string, summary goldfish.Summary, now time.Time) Run {
	return Run{
		ID:           uuid.New(),
		Deck:         deck,
		Games:        summary.Games,
		Wins:         summary.Wins,
		AverageTurns: summary.AverageTurns,
		CreatedAt:    now.UTC(),
	}
}

func gameRow(runID uuid.UUID, res goldfish.Result) []any {
	plays := res.Plays
	if plays == nil {
		plays = []string{}
	}
	return []any{runID, res.Seed, res.Won, res.Turns, res.OpponentLife, res.SpellsCast, res.LandsPlayed, plays}
}

func batches[T any](items []T, size int) [][]T {
	var out [][]T
	for len(items) > size {
		out = append(out, items[:size])
		items = items[size:]
	}
	if len(items) > 0 {
		out = append(out, items)
	}
	return out
}
