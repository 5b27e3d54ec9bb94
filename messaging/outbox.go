package messaging

import (
	"log"
	"sync"
	"time"

	"github.com/Lydiiiiia27/ups-delivery-system/store"
)

// Publisher is the broker side of the drainer.
type Publisher interface {
	Publish(topic string, payload []byte) error
	IsConnected() bool
}

// OutboxStore is the persistence the drainer reads from.
type OutboxStore interface {
	ListPendingOutbox(limit int) ([]*store.OutboxMessage, error)
	AckOutbox(id int64) error
	IncrementOutboxRetries(id int64) error
	PurgeSentOutbox(cutoff time.Time) (int64, error)
}

type LogFunc = func(format string, args ...any)

// OutboxDrainer periodically publishes pending outbox rows and purges
// delivered ones once they pass the retention window.
type OutboxDrainer struct {
	db        OutboxStore
	client    Publisher
	interval  time.Duration
	retention time.Duration
	batch     int
	logFn     LogFunc

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewOutboxDrainer(db OutboxStore, client Publisher, interval, retention time.Duration, logFn LogFunc) *OutboxDrainer {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if logFn == nil {
		logFn = log.Printf
	}
	return &OutboxDrainer{
		db:        db,
		client:    client,
		interval:  interval,
		retention: retention,
		batch:     50,
		logFn:     logFn,
		stopChan:  make(chan struct{}),
	}
}

func (d *OutboxDrainer) Start() {
	d.wg.Add(1)
	go d.drainLoop()
}

func (d *OutboxDrainer) Stop() {
	d.stopOnce.Do(func() { close(d.stopChan) })
	d.wg.Wait()
}

func (d *OutboxDrainer) drainLoop() {
	defer d.wg.Done()
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	purges := 0
	for {
		select {
		case <-d.stopChan:
			return
		case <-ticker.C:
			d.Drain()
			// purge roughly once an hour at the default interval
			if purges++; purges%720 == 0 {
				d.Purge(time.Now())
			}
		}
	}
}

// Drain publishes one batch of pending rows and returns how many were sent.
func (d *OutboxDrainer) Drain() int {
	if !d.client.IsConnected() {
		return 0
	}
	msgs, err := d.db.ListPendingOutbox(d.batch)
	if err != nil {
		d.logFn("outbox: list pending: %v", err)
		return 0
	}
	sent := 0
	for _, msg := range msgs {
		if err := d.client.Publish(msg.Topic, msg.Payload); err != nil {
			d.logFn("outbox: publish msg %d to %s: %v", msg.ID, msg.Topic, err)
			if err := d.db.IncrementOutboxRetries(msg.ID); err != nil {
				d.logFn("outbox: increment retries for msg %d: %v", msg.ID, err)
			}
			continue
		}
		if err := d.db.AckOutbox(msg.ID); err != nil {
			d.logFn("outbox: ack msg %d: %v", msg.ID, err)
			continue
		}
		sent++
	}
	return sent
}

// Purge deletes delivered rows created before now minus the retention.
func (d *OutboxDrainer) Purge(now time.Time) {
	if d.retention <= 0 {
		return
	}
	n, err := d.db.PurgeSentOutbox(now.Add(-d.retention))
	if err != nil {
		d.logFn("outbox: purge: %v", err)
		return
	}
	if n > 0 {
		d.logFn("outbox: purged %d delivered messages", n)
	}
}
