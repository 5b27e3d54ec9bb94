package engine

import "github.com/Lydiiiiia27/ups-delivery-system/store"

const (
	EventTruckStatusChanged   EventType = "truck.status_changed"
	EventPackageStatusChanged EventType = "package.status_changed"
	EventNotificationFailed   EventType = "notification.failed"
	EventSimulationFinished   EventType = "simulation.finished"
	EventWorldConnected       EventType = "world.connected"
	EventWorldDisconnected    EventType = "world.disconnected"
)

// --- Event payloads ---

type TruckStatusChangedEvent struct {
	TruckID   int64             `json:"truck_id"`
	OldStatus store.TruckStatus `json:"old_status"`
	NewStatus store.TruckStatus `json:"new_status"`
	X         int               `json:"x"`
	Y         int               `json:"y"`
}

type PackageStatusChangedEvent struct {
	PackageID int64               `json:"package_id"`
	TruckID   *int64              `json:"truck_id,omitempty"`
	OldStatus store.PackageStatus `json:"old_status"`
	NewStatus store.PackageStatus `json:"new_status"`
	Detail    string              `json:"detail,omitempty"`
}

type NotificationFailedEvent struct {
	PackageID int64  `json:"package_id"`
	Kind      string `json:"kind"`
	Error     string `json:"error"`
}

type SimulationFinishedEvent struct {
	FailedPackages int `json:"failed_packages"`
}

type ConnectionEvent struct {
	WorldID int64  `json:"world_id,omitempty"`
	Detail  string `json:"detail"`
}
