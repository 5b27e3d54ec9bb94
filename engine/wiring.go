package engine

import (
	"encoding/json"

	"github.com/Lydiiiiia27/ups-delivery-system/store"
)

func (e *Engine) wireEventHandlers() {
	// Poll trucks while they move; stop once they are idle again.
	e.Events.Subscribe(func(evt Event) {
		ev := evt.Payload.(TruckStatusChangedEvent)
		if ev.NewStatus == store.TruckIdle {
			e.poller.Untrack(int32(ev.TruckID))
		} else {
			e.poller.Track(int32(ev.TruckID))
		}
	}, EventTruckStatusChanged)

	e.Events.Subscribe(func(evt Event) {
		ev := evt.Payload.(NotificationFailedEvent)
		e.logFn("engine: %s for package %d left for the retry sweep: %s", ev.Kind, ev.PackageID, ev.Error)
	}, EventNotificationFailed)

	e.Events.Subscribe(func(evt Event) {
		ev := evt.Payload.(SimulationFinishedEvent)
		e.logFn("engine: simulation finished, %d packages failed", ev.FailedPackages)
		e.listener.Stop()
	}, EventSimulationFinished)

	e.Events.Subscribe(func(evt Event) {
		ev := evt.Payload.(ConnectionEvent)
		e.logFn("engine: %s (world %d)", ev.Detail, ev.WorldID)
	}, EventWorldConnected, EventWorldDisconnected)

	// Mirror every lifecycle event to the outbox when a broker is configured.
	if e.cfg.Messaging.Backend != "" {
		e.Events.Subscribe(e.enqueueOutbox)
	}
}

func (e *Engine) enqueueOutbox(evt Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		e.logFn("engine: marshal %s event: %v", evt.Type, err)
		return
	}
	if err := e.db.EnqueueOutbox(e.cfg.Messaging.EventsTopic, data, string(evt.Type)); err != nil {
		e.logFn("engine: enqueue %s event: %v", evt.Type, err)
	}
}
