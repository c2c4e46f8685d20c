package sqlstorage

import (
	"context"
	"fmt"

	"github.com/Fuchsoria/epsilon-bandit/internal/storage"
	"github.com/jmoiron/sqlx"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         UUID PRIMARY KEY,
	arms       INTEGER NOT NULL,
	epsilon    DOUBLE PRECISION NOT NULL,
	started_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS rounds (
	run_id     UUID NOT NULL REFERENCES runs (id) ON DELETE CASCADE,
	round      INTEGER NOT NULL,
	arm        INTEGER NOT NULL,
	reward     DOUBLE PRECISION NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (run_id, round)
);`

type Storage struct {
	db *sqlx.DB
}

func New(ctx context.Context, connectionString string) (*Storage, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("cannot open db, %w", err)
	}

	return &Storage{db}, nil
}

func (s *Storage) Connect(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("cannot connect to db, %w", err)
	}

	return nil
}

// Init creates the journal tables when they are missing.
func (s *Storage) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("cannot create journal tables, %w", err)
	}

	return nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) CreateRun(ctx context.Context, run storage.RunItem) error {
	_, err := s.db.NamedExecContext(ctx,
		"INSERT INTO runs (id, arms, epsilon, started_at) VALUES (:id, :arms, :epsilon, :started_at)", run)
	if err != nil {
		return fmt.Errorf("cannot insert run, %w", err)
	}

	return nil
}

func (s *Storage) AddRound(ctx context.Context, round storage.RoundItem) error {
	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO rounds (run_id, round, arm, reward, created_at)
		VALUES (:run_id, :round, :arm, :reward, :created_at)`, round)
	if err != nil {
		return fmt.Errorf("cannot insert round, %w", err)
	}

	return nil
}

func (s *Storage) GetRounds(ctx context.Context, runID string) ([]storage.RoundItem, error) {
	var exists bool
	if err := s.db.GetContext(ctx, &exists, "SELECT EXISTS (SELECT 1 FROM runs WHERE id=$1)", runID); err != nil {
		return nil, fmt.Errorf("cannot check run, %w", err)
	}

	if !exists {
		return nil, fmt.Errorf("%w: %s", storage.ErrRunNotFound, runID)
	}

	rounds := []storage.RoundItem{}

	err := s.db.SelectContext(ctx, &rounds,
		"SELECT run_id, round, arm, reward, created_at FROM rounds WHERE run_id=$1 ORDER BY round", runID)
	if err != nil {
		return nil, fmt.Errorf("cannot select rounds, %w", err)
	}

	return rounds, nil
}
