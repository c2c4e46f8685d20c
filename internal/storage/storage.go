package storage

import (
	"errors"
	"time"
)

var ErrRunNotFound = errors.New("run not found")

type RunItem struct {
	ID        string    `db:"id"`
	Arms      int       `db:"arms"`
	Epsilon   float64   `db:"epsilon"`
	StartedAt time.Time `db:"started_at"`
}

type RoundItem struct {
	RunID     string    `db:"run_id"`
	Round     int       `db:"round"`
	Arm       int       `db:"arm"`
	Reward    float64   `db:"reward"`
	CreatedAt time.Time `db:"created_at"`
}
