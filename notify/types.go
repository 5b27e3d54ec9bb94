package notify

import "time"

const (
	TypeTruckArrived     = "NotifyTruckArrived"
	TypeDeliveryComplete = "NotifyDeliveryComplete"
	TypeStatusUpdate     = "UpdateShipmentStatus"
)

const (
	PathTruckArrived     = "/api/ups/notifications/truck-arrived"
	PathDeliveryComplete = "/api/ups/notifications/delivery-complete"
	PathStatusUpdate     = "/api/ups/notifications/status-update"
)

// endpointFor maps a logged message type back to its partner path.
func endpointFor(messageType string) string {
	switch messageType {
	case TypeTruckArrived:
		return PathTruckArrived
	case TypeDeliveryComplete:
		return PathDeliveryComplete
	case TypeStatusUpdate:
		return PathStatusUpdate
	}
	return ""
}

type Location struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type TruckArrived struct {
	MessageType string    `json:"message_type"`
	SeqNum      int64     `json:"seq_num"`
	Timestamp   time.Time `json:"timestamp"`
	PackageID   int64     `json:"package_id"`
	TruckID     int64     `json:"truck_id"`
	WarehouseID int64     `json:"warehouse_id"`
}

type DeliveryComplete struct {
	MessageType   string    `json:"message_type"`
	SeqNum        int64     `json:"seq_num"`
	Timestamp     time.Time `json:"timestamp"`
	PackageID     int64     `json:"package_id"`
	TruckID       int64     `json:"truck_id"`
	FinalLocation Location  `json:"final_location"`
}

type StatusUpdate struct {
	MessageType     string    `json:"message_type"`
	SeqNum          int64     `json:"seq_num"`
	Timestamp       time.Time `json:"timestamp"`
	PackageID       int64     `json:"package_id"`
	TruckID         *int64    `json:"truck_id,omitempty"`
	Status          string    `json:"status"`
	Details         string    `json:"details,omitempty"`
	CurrentLocation *Location `json:"current_location,omitempty"`
}

// Result is the partner's answer to one notification.
type Result struct {
	SeqNum     int64
	StatusCode int
	Body       []byte
	Cached     bool // served from the response cache without an HTTP call
	Queued     bool // handed to the async worker; delivery happens later
}
