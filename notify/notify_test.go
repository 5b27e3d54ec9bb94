package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Lydiiiiia27/ups-delivery-system/store"
)

// fakeTracker records tracker calls in memory.
type fakeTracker struct {
	mu       sync.Mutex
	seq      int64
	logs     map[int64]*store.MessageLog
	acked    map[int64]bool
	attempts map[int64]int
}

func newFakeTracker() *fakeTracker {
	return &fakeTracker{
		logs:     make(map[int64]*store.MessageLog),
		acked:    make(map[int64]bool),
		attempts: make(map[int64]int),
	}
}

func (f *fakeTracker) NextSeqNum() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	return f.seq
}

func (f *fakeTracker) RecordOutgoingMessage(seq int64, msgType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs[seq] = &store.MessageLog{SeqNum: seq, MessageType: msgType, Direction: store.Outgoing}
	return nil
}

func (f *fakeTracker) RecordOutgoingDelivery(seq int64, endpoint string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.logs[seq]; ok {
		m.Endpoint = endpoint
		m.Payload = payload
	}
	return nil
}

func (f *fakeTracker) RecordAttempts(seq int64, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts[seq] += n
}

func (f *fakeTracker) AcknowledgeMessage(seq int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acked[seq] = true
	return nil
}

func (f *fakeTracker) UnacknowledgedMessages(_, _ time.Duration, _ int) ([]*store.MessageLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*store.MessageLog
	for seq, m := range f.logs {
		if !f.acked[seq] {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeTracker) isAcked(seq int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.acked[seq]
}

type partner struct {
	srv   *httptest.Server
	calls atomic.Int32
	fail  atomic.Bool

	mu     sync.Mutex
	paths  []string
	bodies [][]byte
	reqIDs []string
}

func newPartner(t *testing.T) *partner {
	p := &partner{}
	p.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.calls.Add(1)
		body, _ := io.ReadAll(r.Body)
		p.mu.Lock()
		p.paths = append(p.paths, r.URL.Path)
		p.bodies = append(p.bodies, body)
		p.reqIDs = append(p.reqIDs, r.Header.Get("X-Request-ID"))
		p.mu.Unlock()
		if p.fail.Load() {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}))
	t.Cleanup(p.srv.Close)
	return p
}

func noSleep(context.Context, time.Duration) error { return nil }

func testDispatcher(t *testing.T, p *partner, tr *fakeTracker) *Dispatcher {
	d := NewDispatcher(NewClient(p.srv.URL, time.Second), NewMemoryCache(), tr, Options{
		MaxAttempts: 3,
		RetryDelay:  5 * time.Second,
		LogFn:       func(string, ...any) {},
	})
	d.sleep = noSleep
	return d
}

func int64p(v int64) *int64 { return &v }

func TestNotifyTruckArrivalPayload(t *testing.T) {
	p := newPartner(t)
	tr := newFakeTracker()
	d := testDispatcher(t, p, tr)

	pkg := &store.Package{ID: 1001, TruckID: int64p(1)}
	res, err := d.NotifyTruckArrival(context.Background(), pkg, &store.Truck{ID: 1, X: 10, Y: 10}, &store.Warehouse{ID: 3})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if res.Cached || res.StatusCode != http.StatusOK {
		t.Errorf("result = %+v", res)
	}
	if p.paths[0] != PathTruckArrived {
		t.Errorf("path = %s", p.paths[0])
	}
	if p.reqIDs[0] == "" {
		t.Error("missing X-Request-ID header")
	}

	var got map[string]any
	if err := json.Unmarshal(p.bodies[0], &got); err != nil {
		t.Fatal(err)
	}
	if got["message_type"] != TypeTruckArrived || got["seq_num"] != float64(1) {
		t.Errorf("payload = %v", got)
	}
	if got["package_id"] != float64(1001) || got["truck_id"] != float64(1) || got["warehouse_id"] != float64(3) {
		t.Errorf("payload ids = %v", got)
	}
	if _, ok := got["timestamp"]; !ok {
		t.Error("payload missing timestamp")
	}
	if !tr.isAcked(1) {
		t.Error("successful send should acknowledge the message")
	}
	if tr.logs[1].Endpoint != PathTruckArrived || len(tr.logs[1].Payload) == 0 {
		t.Error("endpoint and payload should be recorded for replay")
	}
}

func TestDeliveryCompleteAndStatusUpdatePayloads(t *testing.T) {
	p := newPartner(t)
	d := testDispatcher(t, p, newFakeTracker())
	ctx := context.Background()
	pkg := &store.Package{ID: 7, DestX: 4, DestY: -2}
	truck := &store.Truck{ID: 2, X: 4, Y: -2}

	if _, err := d.NotifyDeliveryComplete(ctx, pkg, truck); err != nil {
		t.Fatal(err)
	}
	if _, err := d.SendStatusUpdate(ctx, pkg, truck, "DELIVERED", "Package 7 delivered successfully"); err != nil {
		t.Fatal(err)
	}
	if _, err := d.SendStatusUpdate(ctx, pkg, nil, "ERROR", "Operation error: boom (seq: 4)"); err != nil {
		t.Fatal(err)
	}

	var dc DeliveryComplete
	json.Unmarshal(p.bodies[0], &dc)
	if dc.FinalLocation != (Location{X: 4, Y: -2}) || p.paths[0] != PathDeliveryComplete {
		t.Errorf("delivery complete = %+v at %s", dc, p.paths[0])
	}

	var su StatusUpdate
	json.Unmarshal(p.bodies[1], &su)
	if su.Status != "DELIVERED" || su.TruckID == nil || *su.TruckID != 2 || su.CurrentLocation == nil {
		t.Errorf("status update = %+v", su)
	}

	var raw map[string]any
	json.Unmarshal(p.bodies[2], &raw)
	if _, ok := raw["truck_id"]; ok {
		t.Error("status update without truck should omit truck_id")
	}
	if _, ok := raw["current_location"]; ok {
		t.Error("status update without truck should omit current_location")
	}
}

func TestCachedSeqNumSkipsHTTP(t *testing.T) {
	p := newPartner(t)
	d := testDispatcher(t, p, newFakeTracker())
	ctx := context.Background()

	first, err := d.Send(ctx, 42, PathStatusUpdate, []byte(`{"seq_num":42}`))
	if err != nil {
		t.Fatal(err)
	}
	second, err := d.Send(ctx, 42, PathStatusUpdate, []byte(`{"seq_num":42}`))
	if err != nil {
		t.Fatal(err)
	}
	if p.calls.Load() != 1 {
		t.Errorf("HTTP calls = %d, want 1", p.calls.Load())
	}
	if !second.Cached || string(second.Body) != string(first.Body) {
		t.Errorf("second result = %+v, want cached copy of first", second)
	}
}

func TestRetriesExhausted(t *testing.T) {
	p := newPartner(t)
	p.fail.Store(true)
	tr := newFakeTracker()
	d := testDispatcher(t, p, tr)

	var sleeps []time.Duration
	d.sleep = func(_ context.Context, dur time.Duration) error {
		sleeps = append(sleeps, dur)
		return nil
	}

	_, err := d.SendStatusUpdate(context.Background(), &store.Package{ID: 1}, nil, "FAILED", "")
	var derr *DispatchError
	if !errors.As(err, &derr) {
		t.Fatalf("err = %v, want *DispatchError", err)
	}
	if derr.Attempts != 3 || derr.SeqNum != 1 || derr.Endpoint != PathStatusUpdate {
		t.Errorf("dispatch error = %+v", derr)
	}
	var herr *HTTPError
	if !errors.As(err, &herr) || herr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("underlying error = %v", derr.Err)
	}
	if p.calls.Load() != 3 {
		t.Errorf("HTTP calls = %d, want 3", p.calls.Load())
	}
	if len(sleeps) != 2 || sleeps[0] != 5*time.Second {
		t.Errorf("sleeps = %v, want two 5s pauses", sleeps)
	}
	if tr.isAcked(1) {
		t.Error("failed message must stay unacknowledged")
	}
	if tr.attempts[1] != 3 {
		t.Errorf("recorded attempts = %d, want 3", tr.attempts[1])
	}
}

func TestRetrySucceedsOnSecondAttempt(t *testing.T) {
	p := newPartner(t)
	p.fail.Store(true)
	d := testDispatcher(t, p, newFakeTracker())
	d.sleep = func(context.Context, time.Duration) error {
		p.fail.Store(false)
		return nil
	}

	if _, err := d.Send(context.Background(), 5, PathStatusUpdate, []byte(`{}`)); err != nil {
		t.Fatalf("send: %v", err)
	}
	if p.calls.Load() != 2 {
		t.Errorf("HTTP calls = %d, want 2", p.calls.Load())
	}
}

func TestCancelledSleepStopsRetrying(t *testing.T) {
	p := newPartner(t)
	p.fail.Store(true)
	d := testDispatcher(t, p, newFakeTracker())
	d.sleep = sleepCtx

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := d.Send(ctx, 9, PathStatusUpdate, []byte(`{}`))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestAsyncDispatchPreservesOrder(t *testing.T) {
	p := newPartner(t)
	tr := newFakeTracker()
	d := NewDispatcher(NewClient(p.srv.URL, time.Second), nil, tr, Options{
		Async: true,
		LogFn: func(string, ...any) {},
	})
	d.Start()

	ctx := context.Background()
	for i := int64(1); i <= 5; i++ {
		res, err := d.SendStatusUpdate(ctx, &store.Package{ID: i}, nil, "LOADING", "")
		if err != nil || !res.Queued {
			t.Fatalf("enqueue %d: %+v %v", i, res, err)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for p.calls.Load() < 5 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	d.Stop()

	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.bodies) != 5 {
		t.Fatalf("partner received %d notifications, want 5", len(p.bodies))
	}
	for i, body := range p.bodies {
		var su StatusUpdate
		json.Unmarshal(body, &su)
		if su.PackageID != int64(i+1) {
			t.Errorf("notification %d is for package %d", i, su.PackageID)
		}
	}
}

func TestSweepResendsStoredPayload(t *testing.T) {
	p := newPartner(t)
	p.fail.Store(true)
	tr := newFakeTracker()
	d := testDispatcher(t, p, tr)

	d.SendStatusUpdate(context.Background(), &store.Package{ID: 3}, nil, "LOADED", "")
	// a legacy entry with nothing to replay
	tr.RecordOutgoingMessage(77, TypeTruckArrived)

	p.fail.Store(false)
	before := p.calls.Load()
	s := NewSweeper(d, tr, SweeperOptions{LogFn: func(string, ...any) {}})
	s.Sweep(context.Background())

	if p.calls.Load()-before != 1 {
		t.Errorf("sweep made %d calls, want 1", p.calls.Load()-before)
	}
	if !tr.isAcked(1) {
		t.Error("replayed message should be acknowledged")
	}
	if !tr.isAcked(77) {
		t.Error("entry without payload should be acknowledged")
	}

	p.mu.Lock()
	last := p.bodies[len(p.bodies)-1]
	first := p.bodies[0]
	p.mu.Unlock()
	if string(last) != string(first) {
		t.Error("sweep should resend the stored payload with the same seq")
	}
}

func TestSweepSingleAttemptOnFailure(t *testing.T) {
	p := newPartner(t)
	p.fail.Store(true)
	tr := newFakeTracker()
	d := testDispatcher(t, p, tr)
	d.SendStatusUpdate(context.Background(), &store.Package{ID: 3}, nil, "LOADED", "")

	before := p.calls.Load()
	NewSweeper(d, tr, SweeperOptions{LogFn: func(string, ...any) {}}).Sweep(context.Background())
	if p.calls.Load()-before != 1 {
		t.Errorf("sweep made %d calls, want exactly 1", p.calls.Load()-before)
	}
	if tr.isAcked(1) {
		t.Error("message should remain unacknowledged")
	}
}

func TestCleanupCacheOverCap(t *testing.T) {
	cache := NewMemoryCache()
	d := NewDispatcher(NewClient("http://unused", time.Second), cache, newFakeTracker(), Options{LogFn: func(string, ...any) {}})
	s := NewSweeper(d, newFakeTracker(), SweeperOptions{CacheMaxEntries: 2, LogFn: func(string, ...any) {}})
	ctx := context.Background()

	cache.Put(ctx, &Result{SeqNum: 1})
	cache.Put(ctx, &Result{SeqNum: 2})
	s.CleanupCache(ctx)
	if n, _ := cache.Len(ctx); n != 2 {
		t.Fatalf("cache at cap should be kept, len = %d", n)
	}
	cache.Put(ctx, &Result{SeqNum: 3})
	s.CleanupCache(ctx)
	if n, _ := cache.Len(ctx); n != 0 {
		t.Errorf("cache over cap should be cleared, len = %d", n)
	}
}
