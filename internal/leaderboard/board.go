package leaderboard

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/scythe504/snake-arena/internal/utils"
)

const (
	DefaultLimit          = 100
	DefaultTop            = 10
	DefaultPersistTimeout = 2 * time.Second

	// Unranked is returned when a submission did not survive truncation.
	Unranked = 0
)

var validate = validator.New()

type submission struct {
	PlayerName string `validate:"required"`
	Score      *int   `validate:"required,min=0"`
}

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// Board is the authoritative ranking. Entries are kept sorted by score,
// highest first; equal scores keep insertion order.
type Board struct {
	mu      sync.RWMutex
	entries []Entry
	version uint64

	persistMu sync.Mutex
	attempted uint64

	store          Store
	limit          int
	persistTimeout time.Duration
	now            func() time.Time
	log            *slog.Logger
}

type Option func(*Board)

func WithLimit(limit int) Option {
	return func(b *Board) {
		if limit > 0 {
			b.limit = limit
		}
	}
}

func WithPersistTimeout(d time.Duration) Option {
	return func(b *Board) {
		if d > 0 {
			b.persistTimeout = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(b *Board) { b.now = now }
}

// NewBoard loads the stored collection and normalises it to the board's
// ordering and limit.
func NewBoard(ctx context.Context, store Store, log *slog.Logger, opts ...Option) (*Board, error) {
	b := &Board{
		store:          store,
		limit:          DefaultLimit,
		persistTimeout: DefaultPersistTimeout,
		now:            time.Now,
		log:            log,
	}
	for _, opt := range opts {
		opt(b)
	}

	entries, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}
	slices.SortStableFunc(entries, func(x, y Entry) int {
		return cmp.Compare(y.Score, x.Score)
	})
	if len(entries) > b.limit {
		entries = entries[:b.limit]
	}
	b.entries = entries

	log.Info("Leaderboard loaded", "entries", len(entries), "limit", b.limit)
	return b, nil
}

// Submit records a score and returns its 1-based rank, or Unranked when the
// entry fell outside the retained collection. Persistence failures are logged
// and never fail the submission.
func (b *Board) Submit(ctx context.Context, playerName string, score *int) (int, error) {
	sub := submission{PlayerName: utils.NormalizeName(playerName), Score: score}
	if err := validate.Struct(sub); err != nil {
		return Unranked, toValidationError(err)
	}

	entry := Entry{
		PlayerName: sub.PlayerName,
		Score:      *score,
		Timestamp:  b.now().UTC(),
	}

	b.mu.Lock()
	// first position holding a strictly lower score
	idx := sort.Search(len(b.entries), func(i int) bool {
		return b.entries[i].Score < entry.Score
	})
	b.entries = slices.Insert(b.entries, idx, entry)
	if len(b.entries) > b.limit {
		b.entries = slices.Clip(b.entries[:b.limit])
	}
	b.version++
	b.mu.Unlock()

	rank := Unranked
	if idx < b.limit {
		rank = idx + 1
	}

	b.persist(ctx)

	b.log.Debug("Score submitted", "player", entry.PlayerName, "score", entry.Score, "rank", rank)
	return rank, nil
}

// Top returns up to n entries, best first.
func (b *Board) Top(n int) []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if n <= 0 || n > len(b.entries) {
		n = len(b.entries)
	}
	top := make([]Entry, n)
	copy(top, b.entries)
	return top
}

func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

// persist saves the latest collection. Callers queued behind a save that
// already covered their change return without saving again, so each caller
// waits for at most the save in flight plus one of its own.
func (b *Board) persist(ctx context.Context) {
	b.persistMu.Lock()
	defer b.persistMu.Unlock()

	b.mu.RLock()
	version := b.version
	snapshot := slices.Clone(b.entries)
	b.mu.RUnlock()

	// a failed save still counts; the next submission retries
	if version <= b.attempted {
		return
	}
	b.attempted = version

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.persistTimeout)
	defer cancel()

	if err := b.store.Save(ctx, snapshot); err != nil {
		b.log.Error("Failed to persist leaderboard", "entries", len(snapshot), "version", version, "error", err)
	}
}

func toValidationError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return &ValidationError{Msg: err.Error()}
	}
	for _, fe := range errs {
		if fe.Tag() == "min" {
			return &ValidationError{Msg: "Score must not be negative"}
		}
	}
	return &ValidationError{Msg: "Player name and score required"}
}
