package world

import (
	"log"
	"sync"
	"time"
)

// Querier issues truck status queries.
type Querier interface {
	Query(truckID int32) (int64, error)
	IsConnected() bool
}

// Poller periodically queries the World for trucks that are on the move.
// Answers arrive asynchronously as truck-status pushes through the Listener.
type Poller struct {
	querier  Querier
	interval time.Duration
	logFn    LogFunc

	mu       sync.Mutex
	active   map[int32]struct{}
	stopChan chan struct{}
	stopOnce sync.Once
}

func NewPoller(querier Querier, interval time.Duration, logFn LogFunc) *Poller {
	if logFn == nil {
		logFn = log.Printf
	}
	return &Poller{
		querier:  querier,
		interval: interval,
		logFn:    logFn,
		active:   make(map[int32]struct{}),
		stopChan: make(chan struct{}),
	}
}

// Track adds a truck to the active poll set.
func (p *Poller) Track(truckID int32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active[truckID] = struct{}{}
}

// Untrack removes a truck from the active poll set.
func (p *Poller) Untrack(truckID int32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.active, truckID)
}

// ActiveCount returns the number of trucks being polled.
func (p *Poller) ActiveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.active)
}

func (p *Poller) Start() {
	if p.interval <= 0 {
		return
	}
	go p.run()
}

func (p *Poller) Stop() {
	p.stopOnce.Do(func() { close(p.stopChan) })
}

func (p *Poller) run() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopChan:
			return
		case <-ticker.C:
			p.Poll()
		}
	}
}

// Poll queries every tracked truck once.
func (p *Poller) Poll() {
	if !p.querier.IsConnected() {
		return
	}
	p.mu.Lock()
	ids := make([]int32, 0, len(p.active))
	for id := range p.active {
		ids = append(ids, id)
	}
	p.mu.Unlock()

	for _, id := range ids {
		if _, err := p.querier.Query(id); err != nil {
			p.logFn("poller: query truck %d: %v", id, err)
		}
	}
}
