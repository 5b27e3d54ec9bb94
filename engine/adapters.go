package engine

import "github.com/Lydiiiiia27/ups-delivery-system/store"

// busEmitter bridges the handler's Emitter interface to the EventBus.
type busEmitter struct {
	bus *EventBus
}

func (e *busEmitter) EmitTruckStatusChanged(truckID int64, old, next store.TruckStatus, x, y int) {
	e.bus.Emit(Event{Type: EventTruckStatusChanged, Payload: TruckStatusChangedEvent{
		TruckID:   truckID,
		OldStatus: old,
		NewStatus: next,
		X:         x,
		Y:         y,
	}})
}

func (e *busEmitter) EmitPackageStatusChanged(pkg *store.Package, old store.PackageStatus, detail string) {
	e.bus.Emit(Event{Type: EventPackageStatusChanged, Payload: PackageStatusChangedEvent{
		PackageID: pkg.ID,
		TruckID:   pkg.TruckID,
		OldStatus: old,
		NewStatus: pkg.Status,
		Detail:    detail,
	}})
}

func (e *busEmitter) EmitNotificationFailed(packageID int64, kind string, err error) {
	e.bus.Emit(Event{Type: EventNotificationFailed, Payload: NotificationFailedEvent{
		PackageID: packageID,
		Kind:      kind,
		Error:     err.Error(),
	}})
}

func (e *busEmitter) EmitSimulationFinished(failed int) {
	e.bus.Emit(Event{Type: EventSimulationFinished, Payload: SimulationFinishedEvent{FailedPackages: failed}})
}
