package messaging

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Lydiiiiia27/ups-delivery-system/config"
	"github.com/Lydiiiiia27/ups-delivery-system/store"
)

type fakePublisher struct {
	mu        sync.Mutex
	connected bool
	failTopic string
	published []string
}

func (p *fakePublisher) Publish(topic string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if topic == p.failTopic {
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, topic+":"+string(payload))
	return nil
}

func (p *fakePublisher) IsConnected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connected
}

func testDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.Open(&config.DatabaseConfig{
		Driver: "sqlite",
		SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "outbox.db")},
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func quiet(string, ...any) {}

func TestDrainPublishesInOrderAndAcks(t *testing.T) {
	db := testDB(t)
	for _, p := range []string{"a", "b", "c"} {
		if err := db.EnqueueOutbox("ups.events", []byte(p), "truck.status_changed"); err != nil {
			t.Fatal(err)
		}
	}
	pub := &fakePublisher{connected: true}
	d := NewOutboxDrainer(db, pub, time.Second, time.Hour, quiet)

	if n := d.Drain(); n != 3 {
		t.Fatalf("sent = %d, want 3", n)
	}
	want := []string{"ups.events:a", "ups.events:b", "ups.events:c"}
	for i, w := range want {
		if pub.published[i] != w {
			t.Errorf("published[%d] = %q, want %q", i, pub.published[i], w)
		}
	}
	pending, _ := db.ListPendingOutbox(10)
	if len(pending) != 0 {
		t.Errorf("pending = %d after drain, want 0", len(pending))
	}
}

func TestDrainSkipsWhenDisconnected(t *testing.T) {
	db := testDB(t)
	db.EnqueueOutbox("ups.events", []byte("x"), "t")
	d := NewOutboxDrainer(db, &fakePublisher{}, time.Second, time.Hour, quiet)

	if n := d.Drain(); n != 0 {
		t.Errorf("sent = %d while disconnected", n)
	}
	pending, _ := db.ListPendingOutbox(10)
	if len(pending) != 1 {
		t.Errorf("pending = %d, want 1", len(pending))
	}
}

func TestDrainCountsRetriesOnFailure(t *testing.T) {
	db := testDB(t)
	db.EnqueueOutbox("bad", []byte("x"), "t")
	db.EnqueueOutbox("good", []byte("y"), "t")
	pub := &fakePublisher{connected: true, failTopic: "bad"}
	d := NewOutboxDrainer(db, pub, time.Second, time.Hour, quiet)

	if n := d.Drain(); n != 1 {
		t.Fatalf("sent = %d, want 1", n)
	}
	pending, _ := db.ListPendingOutbox(10)
	if len(pending) != 1 || pending[0].Topic != "bad" || pending[0].Retries != 1 {
		t.Errorf("pending = %+v, want the failed row with one retry", pending)
	}
}

func TestPurgeRemovesOnlyDeliveredRows(t *testing.T) {
	db := testDB(t)
	db.EnqueueOutbox("ups.events", []byte("sent"), "t")
	pub := &fakePublisher{connected: true}
	d := NewOutboxDrainer(db, pub, time.Second, time.Hour, quiet)
	d.Drain()
	db.EnqueueOutbox("ups.events", []byte("pending"), "t")

	d.Purge(time.Now().Add(2 * time.Hour))

	pending, _ := db.ListPendingOutbox(10)
	if len(pending) != 1 || string(pending[0].Payload) != "pending" {
		t.Errorf("pending = %+v", pending)
	}
	var total int
	if err := db.QueryRow(`SELECT COUNT(*) FROM outbox`).Scan(&total); err != nil {
		t.Fatal(err)
	}
	if total != 1 {
		t.Errorf("rows = %d, want 1", total)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	d := NewOutboxDrainer(testDB(t), &fakePublisher{}, 10*time.Millisecond, 0, quiet)
	d.Start()
	d.Stop()
	d.Stop()
}

func TestClientRejectsUnknownBackend(t *testing.T) {
	c := NewClient(&config.MessagingConfig{Backend: "nats"})
	if err := c.Connect(); err == nil {
		t.Error("expected an error for an unknown backend")
	}
	if c.IsConnected() {
		t.Error("unknown backend should never report connected")
	}
	if err := c.Publish("t", nil); err == nil {
		t.Error("publish should fail without a backend")
	}
	c.Close()
}

func TestKafkaPublishBeforeConnect(t *testing.T) {
	c := NewClient(&config.MessagingConfig{Backend: "kafka"})
	if err := c.Publish("t", []byte("x")); err == nil {
		t.Error("publish before connect should fail")
	}
	if err := c.Connect(); err == nil {
		t.Error("connect without brokers should fail")
	}
}
