package repos

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type Status int

const (
	StatusLoading Status = iota
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "loading"
	}
}

// Snapshot is a point-in-time copy of the service state for the TUI.
type Snapshot struct {
	Timestamp   time.Time
	Status      Status
	Cards       []Card
	Error       string
	RateLimited bool
	FromCache   bool
	Skipped     int
}

// Service runs the fetcher in the background and keeps the latest cards.
// Fetches never overlap and nothing retries on its own.
type Service struct {
	fetcher *Fetcher
	logger  *slog.Logger

	group singleflight.Group
	wg    sync.WaitGroup

	mu       sync.Mutex
	ctx      context.Context
	closed   bool
	status   Status
	cards    []Card
	err      error
	cached   bool
	skipped  int
	updated  time.Time
	attempts int
}

func NewService(f *Fetcher, logger *slog.Logger) *Service {
	return &Service{
		fetcher: f,
		logger:  logger.With("component", "repo-service"),
		ctx:     context.Background(),
	}
}

// Run checks the cache version, fetches once and then blocks until ctx is
// done and every retry has returned.
func (s *Service) Run(ctx context.Context) error {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	s.logger.Info("repo service started")
	if err := s.fetcher.EnsureVersion(); err != nil {
		s.logger.Error("check cache version", "err", err)
	}
	s.refresh(ctx, false)

	<-ctx.Done()
	s.logger.Info("shutting down, waiting for fetches")
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.wg.Wait()
	return nil
}

// Retry clears the cache and fetches again in the background. Retries that
// arrive while a fetch is running join it.
func (s *Service) Retry() {
	s.mu.Lock()
	ctx := s.ctx
	if s.closed || ctx.Err() != nil {
		s.mu.Unlock()
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		s.refresh(ctx, true)
	}()
}

func (s *Service) refresh(ctx context.Context, clear bool) {
	s.group.Do("fetch", func() (any, error) {
		s.mu.Lock()
		s.status = StatusLoading
		s.cards = nil
		s.err = nil
		s.attempts++
		s.mu.Unlock()

		if clear {
			if err := s.fetcher.Clear(); err != nil {
				s.finish(Result{}, err)
				return nil, err
			}
		}

		res, err := s.fetcher.Fetch(ctx, func(c Card) {
			s.mu.Lock()
			s.cards = append(s.cards, c)
			s.mu.Unlock()
		})
		s.finish(res, err)
		return nil, err
	})
}

func (s *Service) finish(res Result, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.updated = time.Now()
	if err != nil {
		s.status = StatusFailed
		s.err = err
		s.cards = nil
		s.logger.Error("fetch repos", "err", err)
		return
	}
	s.status = StatusReady
	s.cards = res.Cards
	s.cached = res.FromCache
	s.skipped = res.Skipped
	s.logger.Info("repos ready", "cards", len(res.Cards), "from_cache", res.FromCache, "skipped", res.Skipped)
}

// Attempts counts fetches started, retries included.
func (s *Service) Attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}

func (s *Service) GetSnapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Timestamp: s.updated,
		Status:    s.status,
		Cards:     append([]Card(nil), s.cards...),
		FromCache: s.cached,
		Skipped:   s.skipped,
	}
	if s.err != nil {
		snap.Error = s.err.Error()
		snap.RateLimited = errors.Is(s.err, ErrRateLimited)
	}
	return snap
}
