package recording

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps runs in memory. Used when recording to the database is disabled.
type MemoryStore struct {
	mu           sync.Mutex
	runs         map[uint]*Run
	interactions map[uint][]Interaction
	nextRun      uint
	nextIn       uint
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: map[uint]*Run{}, interactions: map[uint][]Interaction{}}
}

func (m *MemoryStore) CreateRun(ctx context.Context, run *Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextRun++
	run.ID = m.nextRun
	stored := *run
	m.runs[run.ID] = &stored
	return nil
}

func (m *MemoryStore) FinishRun(ctx context.Context, id uint, status, errText string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return ErrNotFound
	}
	run.Status = status
	run.Error = errText
	run.EndedAt = &at
	return nil
}

func (m *MemoryStore) AddInteraction(ctx context.Context, in *Interaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.runs[in.RunID]; !ok {
		return ErrNotFound
	}
	m.nextIn++
	in.ID = m.nextIn
	m.interactions[in.RunID] = append(m.interactions[in.RunID], *in)
	return nil
}

func (m *MemoryStore) GetRun(ctx context.Context, id uint) (*Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *run
	return &out, nil
}

func (m *MemoryStore) ListRuns(ctx context.Context, limit, offset int) ([]Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	runs := make([]Run, 0, len(m.runs))
	for _, r := range m.runs {
		runs = append(runs, *r)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].ID > runs[j].ID })
	if offset >= len(runs) {
		return []Run{}, nil
	}
	runs = runs[offset:]
	if limit > 0 && limit < len(runs) {
		runs = runs[:limit]
	}
	return runs, nil
}

func (m *MemoryStore) ListInteractions(ctx context.Context, runID uint) ([]Interaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Interaction{}, m.interactions[runID]...), nil
}
