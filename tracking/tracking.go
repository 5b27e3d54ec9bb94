// Package tracking issues partner-bound sequence numbers, keeps the message
// audit log, and deduplicates inbound partner requests.
package tracking

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Lydiiiiia27/ups-delivery-system/store"
)

type LogFunc = func(format string, args ...any)

// Repository is the slice of the store the tracker needs.
type Repository interface {
	InsertMessageLog(m *store.MessageLog) error
	UpdateMessageDelivery(seqNum int64, endpoint string, payload []byte) error
	GetMessageLog(seqNum int64, dir store.Direction) (*store.MessageLog, error)
	AckMessageLog(seqNum int64, dir store.Direction, at time.Time) (bool, error)
	IncrementMessageAttempts(seqNum int64, dir store.Direction, n int) error
	ListUnackedMessages(dir store.Direction, now time.Time, minAge, maxAge time.Duration, limit int) ([]*store.MessageLog, error)
	DeleteMessageLogBefore(cutoff time.Time) (int64, error)
	MaxSeqNum(dir store.Direction) (int64, error)
}

type Options struct {
	Retention           time.Duration
	CleanupInterval     time.Duration
	ProcessedMaxEntries int
	LogFn               LogFunc
}

// Service is safe for concurrent use.
type Service struct {
	repo Repository
	opts Options
	seq  atomic.Int64
	now  func() time.Time

	mu        sync.Mutex
	processed map[int64]time.Time

	stopChan chan struct{}
	stopOnce sync.Once
}

func New(repo Repository, opts Options) *Service {
	if opts.LogFn == nil {
		opts.LogFn = log.Printf
	}
	if opts.ProcessedMaxEntries <= 0 {
		opts.ProcessedMaxEntries = 10000
	}
	return &Service{
		repo:      repo,
		opts:      opts,
		now:       time.Now,
		processed: make(map[int64]time.Time),
		stopChan:  make(chan struct{}),
	}
}

// Seed advances the counter past the highest persisted outgoing sequence
// number so a restart never reissues one.
func (s *Service) Seed() error {
	maxSeq, err := s.repo.MaxSeqNum(store.Outgoing)
	if err != nil {
		return fmt.Errorf("tracking: seed sequence: %w", err)
	}
	for {
		cur := s.seq.Load()
		if maxSeq <= cur || s.seq.CompareAndSwap(cur, maxSeq) {
			break
		}
	}
	if maxSeq > 0 {
		s.opts.LogFn("tracking: sequence seeded at %d", maxSeq)
	}
	return nil
}

// NextSeqNum returns the next partner-bound sequence number.
func (s *Service) NextSeqNum() int64 { return s.seq.Add(1) }

// RecordOutgoingMessage logs an outgoing message before it is sent.
func (s *Service) RecordOutgoingMessage(seqNum int64, messageType string) error {
	err := s.repo.InsertMessageLog(&store.MessageLog{
		SeqNum:      seqNum,
		MessageType: messageType,
		Direction:   store.Outgoing,
		CreatedAt:   s.now(),
	})
	if err != nil {
		return fmt.Errorf("tracking: record outgoing %d: %w", seqNum, err)
	}
	return nil
}

// RecordOutgoingDelivery stores where and what was sent so the retry sweep
// can replay it.
func (s *Service) RecordOutgoingDelivery(seqNum int64, endpoint string, payload []byte) error {
	if err := s.repo.UpdateMessageDelivery(seqNum, endpoint, payload); err != nil {
		return fmt.Errorf("tracking: record delivery %d: %w", seqNum, err)
	}
	return nil
}

// RecordAttempts adds n to the attempt counter of an outgoing message.
func (s *Service) RecordAttempts(seqNum int64, n int) {
	if err := s.repo.IncrementMessageAttempts(seqNum, store.Outgoing, n); err != nil {
		s.opts.LogFn("tracking: record attempts for %d: %v", seqNum, err)
	}
}

// RecordIncomingMessage logs a message received from the partner.
func (s *Service) RecordIncomingMessage(seqNum int64, messageType string) error {
	err := s.repo.InsertMessageLog(&store.MessageLog{
		SeqNum:      seqNum,
		MessageType: messageType,
		Direction:   store.Incoming,
		CreatedAt:   s.now(),
	})
	if err != nil {
		return fmt.Errorf("tracking: record incoming %d: %w", seqNum, err)
	}
	return nil
}

// AcknowledgeMessage marks an outgoing message as acknowledged by the partner.
func (s *Service) AcknowledgeMessage(seqNum int64) error {
	ok, err := s.repo.AckMessageLog(seqNum, store.Outgoing, s.now())
	if err != nil {
		return fmt.Errorf("tracking: ack %d: %w", seqNum, err)
	}
	if !ok {
		s.opts.LogFn("tracking: ack for unknown message %d", seqNum)
	}
	return nil
}

// UnacknowledgedMessages lists outgoing messages older than minAge and
// younger than maxAge that the partner has not acknowledged.
func (s *Service) UnacknowledgedMessages(minAge, maxAge time.Duration, limit int) ([]*store.MessageLog, error) {
	msgs, err := s.repo.ListUnackedMessages(store.Outgoing, s.now(), minAge, maxAge, limit)
	if err != nil {
		return nil, fmt.Errorf("tracking: list unacked: %w", err)
	}
	return msgs, nil
}

// IsMessageProcessed reports whether an inbound sequence number was already
// handled, checking memory first and then the incoming log.
func (s *Service) IsMessageProcessed(seqNum int64) bool {
	s.mu.Lock()
	_, ok := s.processed[seqNum]
	s.mu.Unlock()
	if ok {
		return true
	}
	_, err := s.repo.GetMessageLog(seqNum, store.Incoming)
	if err == nil {
		return true
	}
	if !errors.Is(err, store.ErrNotFound) {
		s.opts.LogFn("tracking: lookup incoming %d: %v", seqNum, err)
	}
	return false
}

// MarkMessageProcessed remembers an inbound sequence number.
func (s *Service) MarkMessageProcessed(seqNum int64) {
	s.mu.Lock()
	s.processed[seqNum] = s.now()
	s.mu.Unlock()
}

// ClaimMessage marks seqNum processed and reports true, or reports false if
// it was already processed. Exactly one concurrent caller wins a given seqNum.
func (s *Service) ClaimMessage(seqNum int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.processed[seqNum]; ok {
		return false
	}
	_, err := s.repo.GetMessageLog(seqNum, store.Incoming)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		s.opts.LogFn("tracking: lookup incoming %d: %v", seqNum, err)
	}
	s.processed[seqNum] = s.now()
	return err != nil
}

// ReleaseMessage undoes a claim whose handling failed so a redelivery is
// processed again.
func (s *Service) ReleaseMessage(seqNum int64) {
	s.mu.Lock()
	delete(s.processed, seqNum)
	s.mu.Unlock()
}

// CleanupOldLogs deletes log entries older than the retention window.
func (s *Service) CleanupOldLogs() {
	cutoff := s.now().Add(-s.opts.Retention)
	n, err := s.repo.DeleteMessageLogBefore(cutoff)
	if err != nil {
		s.opts.LogFn("tracking: cleanup logs: %v", err)
		return
	}
	if n > 0 {
		s.opts.LogFn("tracking: removed %d message log entries older than %s", n, cutoff.Format(time.RFC3339))
	}
}

// CleanupProcessedCache clears the in-memory dedup set once it exceeds its
// cap. The incoming log still answers IsMessageProcessed afterwards.
func (s *Service) CleanupProcessedCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.processed) > s.opts.ProcessedMaxEntries {
		s.opts.LogFn("tracking: clearing processed cache (%d entries)", len(s.processed))
		s.processed = make(map[int64]time.Time)
	}
}

// ProcessedCount returns the size of the in-memory dedup set.
func (s *Service) ProcessedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.processed)
}

// Start runs periodic cleanup until Stop.
func (s *Service) Start() {
	if s.opts.CleanupInterval <= 0 {
		return
	}
	go s.run()
}

func (s *Service) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}

func (s *Service) run() {
	ticker := time.NewTicker(s.opts.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.CleanupOldLogs()
			s.CleanupProcessedCache()
		}
	}
}
