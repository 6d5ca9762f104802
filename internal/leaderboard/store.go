//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=../mocks/mock_store.go -package=mocks

package leaderboard

import (
	"context"
	"sync"
	"time"
)

type Entry struct {
	PlayerName string    `json:"playerName"`
	Score      int       `json:"score"`
	Timestamp  time.Time `json:"timestamp"`
}

// Store persists the whole ranked collection as one document.
// Save replaces whatever was stored before.
type Store interface {
	Load(ctx context.Context) ([]Entry, error)
	Save(ctx context.Context, entries []Entry) error
}

// MemoryStore keeps the collection in process. Used when no durable backend
// is configured and in tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries []Entry
}

func NewMemoryStore(seed ...Entry) *MemoryStore {
	return &MemoryStore{entries: seed}
}

func (m *MemoryStore) Load(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Entry(nil), m.entries...), nil
}

func (m *MemoryStore) Save(ctx context.Context, entries []Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append([]Entry(nil), entries...)
	return nil
}
