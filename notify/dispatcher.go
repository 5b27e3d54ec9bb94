// Package notify delivers package and truck lifecycle notifications to the
// partner over HTTP with bounded retries, response caching and a retry sweep.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Lydiiiiia27/ups-delivery-system/store"
)

type LogFunc = func(format string, args ...any)

// Tracker issues sequence numbers and keeps the outgoing message log.
type Tracker interface {
	NextSeqNum() int64
	RecordOutgoingMessage(seqNum int64, messageType string) error
	RecordOutgoingDelivery(seqNum int64, endpoint string, payload []byte) error
	RecordAttempts(seqNum int64, n int)
	AcknowledgeMessage(seqNum int64) error
	UnacknowledgedMessages(minAge, maxAge time.Duration, limit int) ([]*store.MessageLog, error)
}

// DispatchError is returned once every attempt for a notification failed.
type DispatchError struct {
	SeqNum   int64
	Endpoint string
	Attempts int
	Err      error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("notify: %s seq %d failed after %d attempts: %v", e.Endpoint, e.SeqNum, e.Attempts, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

type Options struct {
	MaxAttempts int
	RetryDelay  time.Duration
	// Async hands sends to one ordered worker instead of retrying on the
	// caller's goroutine.
	Async     bool
	QueueSize int
	LogFn     LogFunc
}

type job struct {
	seqNum   int64
	endpoint string
	payload  []byte
}

type Dispatcher struct {
	client  *Client
	cache   ResponseCache
	tracker Tracker
	opts    Options
	tracer  trace.Tracer
	now     func() time.Time
	sleep   func(ctx context.Context, d time.Duration) error

	jobs     chan job
	running  atomic.Bool
	stopOnce sync.Once
	stopChan chan struct{}
	done     chan struct{}
}

func NewDispatcher(client *Client, cache ResponseCache, tracker Tracker, opts Options) *Dispatcher {
	if opts.LogFn == nil {
		opts.LogFn = log.Printf
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 1024
	}
	if cache == nil {
		cache = NewMemoryCache()
	}
	d := &Dispatcher{
		client:   client,
		cache:    cache,
		tracker:  tracker,
		opts:     opts,
		tracer:   otel.Tracer("upsbridge/notify"),
		now:      time.Now,
		sleep:    sleepCtx,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
	if opts.Async {
		d.jobs = make(chan job, opts.QueueSize)
	}
	return d
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Cache returns the response cache.
func (d *Dispatcher) Cache() ResponseCache { return d.cache }

// NotifyTruckArrival tells the partner that truck reached warehouse for pkg.
func (d *Dispatcher) NotifyTruckArrival(ctx context.Context, pkg *store.Package, truck *store.Truck, wh *store.Warehouse) (*Result, error) {
	d.opts.LogFn("notify: truck %d arrived at warehouse %d for package %d", truck.ID, wh.ID, pkg.ID)
	msg := &TruckArrived{
		MessageType: TypeTruckArrived,
		SeqNum:      d.tracker.NextSeqNum(),
		Timestamp:   d.now().UTC(),
		PackageID:   pkg.ID,
		TruckID:     truck.ID,
		WarehouseID: wh.ID,
	}
	return d.dispatch(ctx, msg.SeqNum, TypeTruckArrived, PathTruckArrived, msg)
}

// NotifyDeliveryComplete tells the partner that pkg was dropped at its destination.
func (d *Dispatcher) NotifyDeliveryComplete(ctx context.Context, pkg *store.Package, truck *store.Truck) (*Result, error) {
	d.opts.LogFn("notify: package %d delivered by truck %d", pkg.ID, truck.ID)
	msg := &DeliveryComplete{
		MessageType:   TypeDeliveryComplete,
		SeqNum:        d.tracker.NextSeqNum(),
		Timestamp:     d.now().UTC(),
		PackageID:     pkg.ID,
		TruckID:       truck.ID,
		FinalLocation: Location{X: pkg.DestX, Y: pkg.DestY},
	}
	return d.dispatch(ctx, msg.SeqNum, TypeDeliveryComplete, PathDeliveryComplete, msg)
}

// SendStatusUpdate reports status for pkg. truck may be nil.
func (d *Dispatcher) SendStatusUpdate(ctx context.Context, pkg *store.Package, truck *store.Truck, status, details string) (*Result, error) {
	d.opts.LogFn("notify: status update for package %d: %s", pkg.ID, status)
	msg := &StatusUpdate{
		MessageType: TypeStatusUpdate,
		SeqNum:      d.tracker.NextSeqNum(),
		Timestamp:   d.now().UTC(),
		PackageID:   pkg.ID,
		Status:      status,
		Details:     details,
	}
	if truck != nil {
		id := truck.ID
		msg.TruckID = &id
		msg.CurrentLocation = &Location{X: truck.X, Y: truck.Y}
	}
	return d.dispatch(ctx, msg.SeqNum, TypeStatusUpdate, PathStatusUpdate, msg)
}

func (d *Dispatcher) dispatch(ctx context.Context, seqNum int64, msgType, endpoint string, msg any) (*Result, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("notify: marshal %s: %w", msgType, err)
	}
	if err := d.tracker.RecordOutgoingMessage(seqNum, msgType); err != nil {
		d.opts.LogFn("notify: %v", err)
	}
	if err := d.tracker.RecordOutgoingDelivery(seqNum, endpoint, payload); err != nil {
		d.opts.LogFn("notify: %v", err)
	}

	if d.jobs != nil {
		select {
		case d.jobs <- job{seqNum: seqNum, endpoint: endpoint, payload: payload}:
			return &Result{SeqNum: seqNum, Queued: true}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return d.Send(ctx, seqNum, endpoint, payload)
}

// Send posts payload with up to MaxAttempts tries. A sequence number that
// already has a cached response short-circuits to that response.
func (d *Dispatcher) Send(ctx context.Context, seqNum int64, endpoint string, payload []byte) (*Result, error) {
	return d.send(ctx, seqNum, endpoint, payload, d.opts.MaxAttempts)
}

func (d *Dispatcher) send(ctx context.Context, seqNum int64, endpoint string, payload []byte, maxAttempts int) (*Result, error) {
	if cached, ok, err := d.cache.Get(ctx, seqNum); err != nil {
		d.opts.LogFn("notify: cache lookup %d: %v", seqNum, err)
	} else if ok {
		d.opts.LogFn("notify: using cached response for seq %d", seqNum)
		hit := *cached
		hit.Cached = true
		return &hit, nil
	}

	ctx, span := d.tracer.Start(ctx, "notify.send", trace.WithAttributes(
		attribute.Int64("notify.seq_num", seqNum),
		attribute.String("notify.endpoint", endpoint),
	))
	defer span.End()

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		code, body, err := d.client.Post(ctx, endpoint, payload)
		if err == nil {
			res := &Result{SeqNum: seqNum, StatusCode: code, Body: body}
			if err := d.cache.Put(ctx, res); err != nil {
				d.opts.LogFn("notify: cache store %d: %v", seqNum, err)
			}
			d.tracker.RecordAttempts(seqNum, attempt)
			if err := d.tracker.AcknowledgeMessage(seqNum); err != nil {
				d.opts.LogFn("notify: %v", err)
			}
			d.opts.LogFn("notify: sent %s seq %d (attempt %d)", endpoint, seqNum, attempt)
			span.SetAttributes(attribute.Int("notify.attempts", attempt))
			return res, nil
		}
		lastErr = err
		d.opts.LogFn("notify: send %s seq %d failed (attempt %d): %v", endpoint, seqNum, attempt, err)
		if attempt < maxAttempts {
			if err := d.sleep(ctx, d.opts.RetryDelay); err != nil {
				lastErr = err
				d.tracker.RecordAttempts(seqNum, attempt)
				return nil, d.fail(span, seqNum, endpoint, attempt, lastErr)
			}
		}
	}
	d.tracker.RecordAttempts(seqNum, maxAttempts)
	return nil, d.fail(span, seqNum, endpoint, maxAttempts, lastErr)
}

func (d *Dispatcher) fail(span trace.Span, seqNum int64, endpoint string, attempts int, err error) error {
	derr := &DispatchError{SeqNum: seqNum, Endpoint: endpoint, Attempts: attempts, Err: err}
	span.RecordError(derr)
	span.SetStatus(codes.Error, "dispatch failed")
	d.opts.LogFn("notify: %v", derr)
	return derr
}

// Resend makes a single attempt to deliver a logged outgoing message.
func (d *Dispatcher) Resend(ctx context.Context, m *store.MessageLog) (*Result, error) {
	endpoint := m.Endpoint
	if endpoint == "" {
		endpoint = endpointFor(m.MessageType)
	}
	if endpoint == "" {
		return nil, fmt.Errorf("notify: unknown message type %q for seq %d", m.MessageType, m.SeqNum)
	}
	return d.send(ctx, m.SeqNum, endpoint, m.Payload, 1)
}

// Start runs the ordered worker when async dispatch is enabled.
func (d *Dispatcher) Start() {
	if d.jobs == nil || !d.running.CompareAndSwap(false, true) {
		return
	}
	go d.work()
}

// Stop ends the worker after the send in progress. Queued jobs stay
// unacknowledged in the message log for the retry sweep.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() { close(d.stopChan) })
	if d.running.Load() {
		<-d.done
	}
}

func (d *Dispatcher) work() {
	defer close(d.done)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-d.stopChan
		cancel()
	}()

	for {
		select {
		case <-d.stopChan:
			return
		case j := <-d.jobs:
			// errors are logged in send and left to the sweep
			d.Send(ctx, j.seqNum, j.endpoint, j.payload)
		}
	}
}
