package notify

import (
	"context"
	"log"
	"sync"
	"time"
)

type SweeperOptions struct {
	Interval             time.Duration
	MinAge               time.Duration
	MaxAge               time.Duration
	CacheCleanupInterval time.Duration
	CacheMaxEntries      int
	BatchSize            int
	LogFn                LogFunc
}

// Sweeper replays unacknowledged outgoing messages and bounds the response cache.
type Sweeper struct {
	dispatcher *Dispatcher
	tracker    Tracker
	opts       SweeperOptions

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewSweeper(dispatcher *Dispatcher, tracker Tracker, opts SweeperOptions) *Sweeper {
	if opts.LogFn == nil {
		opts.LogFn = log.Printf
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	return &Sweeper{
		dispatcher: dispatcher,
		tracker:    tracker,
		opts:       opts,
		stopChan:   make(chan struct{}),
	}
}

func (s *Sweeper) Start() {
	if s.opts.Interval > 0 {
		s.wg.Add(1)
		go s.loop(s.opts.Interval, s.Sweep)
	}
	if s.opts.CacheCleanupInterval > 0 {
		s.wg.Add(1)
		go s.loop(s.opts.CacheCleanupInterval, s.CleanupCache)
	}
}

func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
}

func (s *Sweeper) loop(interval time.Duration, fn func(context.Context)) {
	defer s.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			fn(ctx)
		}
	}
}

// Sweep makes one attempt for each unacknowledged message inside the age
// window. Entries without a stored payload cannot be replayed and are
// acknowledged so they leave the window.
func (s *Sweeper) Sweep(ctx context.Context) {
	msgs, err := s.tracker.UnacknowledgedMessages(s.opts.MinAge, s.opts.MaxAge, s.opts.BatchSize)
	if err != nil {
		s.opts.LogFn("sweeper: %v", err)
		return
	}
	if len(msgs) == 0 {
		return
	}
	s.opts.LogFn("sweeper: retrying %d unacknowledged notifications", len(msgs))

	for _, m := range msgs {
		select {
		case <-s.stopChan:
			return
		default:
		}
		if len(m.Payload) == 0 {
			s.opts.LogFn("sweeper: seq %d (%s) has no stored payload, marking acknowledged", m.SeqNum, m.MessageType)
			if err := s.tracker.AcknowledgeMessage(m.SeqNum); err != nil {
				s.opts.LogFn("sweeper: %v", err)
			}
			continue
		}
		res, err := s.dispatcher.Resend(ctx, m)
		if err != nil {
			s.opts.LogFn("sweeper: retry seq %d: %v", m.SeqNum, err)
			continue
		}
		if res.Cached {
			// sent earlier but the ack was not recorded
			if err := s.tracker.AcknowledgeMessage(m.SeqNum); err != nil {
				s.opts.LogFn("sweeper: %v", err)
			}
		}
	}
}

// CleanupCache clears the response cache once it exceeds its cap.
func (s *Sweeper) CleanupCache(ctx context.Context) {
	cache := s.dispatcher.Cache()
	n, err := cache.Len(ctx)
	if err != nil {
		s.opts.LogFn("sweeper: cache size: %v", err)
		return
	}
	s.opts.LogFn("sweeper: response cache holds %d entries", n)
	if n > s.opts.CacheMaxEntries {
		if err := cache.Clear(ctx); err != nil {
			s.opts.LogFn("sweeper: clear cache: %v", err)
			return
		}
		s.opts.LogFn("sweeper: response cache cleared")
	}
}
