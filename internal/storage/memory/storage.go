package memorystorage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Fuchsoria/epsilon-bandit/internal/storage"
)

type Storage struct {
	mu     sync.RWMutex
	runs   map[string]storage.RunItem
	rounds map[string][]storage.RoundItem
}

func New() *Storage {
	return &Storage{
		runs:   make(map[string]storage.RunItem),
		rounds: make(map[string][]storage.RoundItem),
	}
}

func (s *Storage) CreateRun(_ context.Context, run storage.RunItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[run.ID]; ok {
		return fmt.Errorf("run %s already exists", run.ID)
	}

	s.runs[run.ID] = run

	return nil
}

func (s *Storage) AddRound(_ context.Context, round storage.RoundItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[round.RunID]; !ok {
		return fmt.Errorf("%w: %s", storage.ErrRunNotFound, round.RunID)
	}

	s.rounds[round.RunID] = append(s.rounds[round.RunID], round)

	return nil
}

func (s *Storage) GetRounds(_ context.Context, runID string) ([]storage.RoundItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.runs[runID]; !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrRunNotFound, runID)
	}

	rounds := append([]storage.RoundItem{}, s.rounds[runID]...)
	sort.Slice(rounds, func(i, j int) bool { return rounds[i].Round < rounds[j].Round })

	return rounds, nil
}
