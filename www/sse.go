package www

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Lydiiiiia27/ups-delivery-system/engine"
)

// streamEvent is one frame on the tracking stream. TruckID and PackageID
// are zero when the event is not about a specific truck or package.
type streamEvent struct {
	ID        uint64
	Name      string
	Data      string
	TruckID   int64
	PackageID int64
}

// streamFilter narrows a subscription to one truck and/or one package.
// Events that name neither (connection status, simulation end) always pass.
type streamFilter struct {
	truckID   int64
	packageID int64
}

func (f streamFilter) allows(evt streamEvent) bool {
	if evt.TruckID == 0 && evt.PackageID == 0 {
		return true
	}
	if f.truckID != 0 && evt.TruckID != f.truckID {
		return false
	}
	if f.packageID != 0 && evt.PackageID != f.packageID {
		return false
	}
	return true
}

type subscriber struct {
	ch     chan streamEvent
	filter streamFilter
}

// EventHub fans engine events out to connected tracking-page clients.
type EventHub struct {
	mu       sync.RWMutex
	subs     map[*subscriber]struct{}
	incoming chan streamEvent
	nextID   atomic.Uint64
	stopChan chan struct{}
	stopOnce sync.Once
}

func NewEventHub() *EventHub {
	return &EventHub{
		subs:     make(map[*subscriber]struct{}),
		incoming: make(chan streamEvent, 256),
		stopChan: make(chan struct{}),
	}
}

func (h *EventHub) Start() {
	go h.loop()
}

func (h *EventHub) Stop() {
	h.stopOnce.Do(func() { close(h.stopChan) })
}

func (h *EventHub) loop() {
	ping := time.NewTicker(30 * time.Second)
	defer ping.Stop()

	for {
		select {
		case <-h.stopChan:
			return
		case evt := <-h.incoming:
			h.deliver(evt)
		case <-ping.C:
			h.deliver(streamEvent{Name: "keepalive", Data: "ping"})
		}
	}
}

func (h *EventHub) deliver(evt streamEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs {
		if !sub.filter.allows(evt) {
			continue
		}
		select {
		case sub.ch <- evt:
		default:
			// subscriber is behind; it misses this frame
		}
	}
}

// publish queues an event for delivery. It never blocks the engine.
func (h *EventHub) publish(evt streamEvent) {
	evt.ID = h.nextID.Add(1)
	select {
	case h.incoming <- evt:
	default:
		log.Printf("sse: hub backlog full, dropping %s", evt.Name)
	}
}

func (h *EventHub) subscribe(f streamFilter) *subscriber {
	sub := &subscriber{ch: make(chan streamEvent, 64), filter: f}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

func (h *EventHub) unsubscribe(sub *subscriber) {
	h.mu.Lock()
	delete(h.subs, sub)
	h.mu.Unlock()
}

// SubscriberCount reports how many streams are open.
func (h *EventHub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// toStreamEvent converts an engine event into a named stream frame and
// pulls out the ids subscribers filter on.
func toStreamEvent(evt engine.Event) (streamEvent, bool) {
	out := streamEvent{}
	switch p := evt.Payload.(type) {
	case engine.TruckStatusChangedEvent:
		out.Name, out.TruckID = "truck-update", p.TruckID
	case engine.PackageStatusChangedEvent:
		out.Name, out.PackageID = "package-update", p.PackageID
		if p.TruckID != nil {
			out.TruckID = *p.TruckID
		}
	case engine.NotificationFailedEvent:
		out.Name, out.PackageID = "notification-failed", p.PackageID
	case engine.SimulationFinishedEvent:
		out.Name = "simulation-finished"
	case engine.ConnectionEvent:
		out.Name = "system-status"
	default:
		return out, false
	}
	data, err := json.Marshal(evt)
	if err != nil {
		log.Printf("sse: marshal %s: %v", evt.Type, err)
		return out, false
	}
	out.Data = string(data)
	return out, true
}

// SetupEngineListeners forwards engine events to the hub.
func (h *EventHub) SetupEngineListeners(eng *engine.Engine) {
	eng.Events.Subscribe(func(evt engine.Event) {
		if se, ok := toStreamEvent(evt); ok {
			h.publish(se)
		}
	})
}

func parseStreamFilter(r *http.Request) (streamFilter, error) {
	var f streamFilter
	for key, dst := range map[string]*int64{"truck": &f.truckID, "package": &f.packageID} {
		raw := r.URL.Query().Get(key)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return f, fmt.Errorf("invalid %s id %q", key, raw)
		}
		*dst = id
	}
	return f, nil
}

// SSEHandler serves the live tracking stream. Optional ?truck= and
// ?package= query parameters restrict it to one truck or package.
func (h *EventHub) SSEHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := parseStreamFilter(r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	sub := h.subscribe(filter)
	defer h.unsubscribe(sub)

	hdr := w.Header()
	hdr.Set("Content-Type", "text/event-stream")
	hdr.Set("Cache-Control", "no-cache")
	hdr.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-h.stopChan:
			return
		case evt := <-sub.ch:
			if evt.ID != 0 {
				fmt.Fprintf(w, "id: %d\n", evt.ID)
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Name, evt.Data); err != nil {
				log.Printf("sse: write: %v", err)
				return
			}
			flusher.Flush()
		}
	}
}
