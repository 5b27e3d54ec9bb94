package www

import (
	"encoding/json"
	"net/http"
)

type pickupRequest struct {
	TruckID     int64 `json:"truck_id"`
	WarehouseID int64 `json:"warehouse_id"`
}

type deliverRequest struct {
	TruckID   int64 `json:"truck_id"`
	PackageID int64 `json:"package_id"`
	X         int   `json:"x"`
	Y         int   `json:"y"`
}

type queryRequest struct {
	TruckID int64 `json:"truck_id"`
}

type speedRequest struct {
	Speed uint32 `json:"speed"`
}

func (h *Handlers) apiWorldPickup(w http.ResponseWriter, r *http.Request) {
	var req pickupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TruckID <= 0 || req.WarehouseID <= 0 {
		h.jsonError(w, "truck_id and warehouse_id are required", http.StatusBadRequest)
		return
	}
	if err := h.engine.SendTruckToPickup(req.TruckID, req.WarehouseID); err != nil {
		h.storeError(w, err)
		return
	}
	h.jsonOK(w, map[string]any{"success": true})
}

func (h *Handlers) apiWorldDeliver(w http.ResponseWriter, r *http.Request) {
	var req deliverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TruckID <= 0 || req.PackageID <= 0 {
		h.jsonError(w, "truck_id and package_id are required", http.StatusBadRequest)
		return
	}
	if err := h.engine.SendTruckToDeliver(req.TruckID, req.PackageID, req.X, req.Y); err != nil {
		h.storeError(w, err)
		return
	}
	h.jsonOK(w, map[string]any{"success": true})
}

func (h *Handlers) apiWorldQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TruckID <= 0 {
		h.jsonError(w, "truck_id is required", http.StatusBadRequest)
		return
	}
	if err := h.engine.QueryTruck(req.TruckID); err != nil {
		h.storeError(w, err)
		return
	}
	h.jsonOK(w, map[string]any{"success": true})
}

func (h *Handlers) apiWorldSpeed(w http.ResponseWriter, r *http.Request) {
	var req speedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Speed == 0 {
		h.jsonError(w, "speed must be positive", http.StatusBadRequest)
		return
	}
	if err := h.engine.SetSimSpeed(req.Speed); err != nil {
		h.jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	h.jsonOK(w, map[string]any{"success": true, "speed": req.Speed})
}
