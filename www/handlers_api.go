package www

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Lydiiiiia27/ups-delivery-system/engine"
	"github.com/Lydiiiiia27/ups-delivery-system/store"
)

type healthResponse struct {
	State string `json:"status"`
	engine.Status
}

func (h *Handlers) apiHealth(w http.ResponseWriter, r *http.Request) {
	st := h.engine.Status()
	state := "ok"
	if !st.WorldConnected {
		state = "degraded"
	}
	h.jsonOK(w, healthResponse{State: state, Status: st})
}

func (h *Handlers) apiListTrucks(w http.ResponseWriter, r *http.Request) {
	trucks, err := h.engine.DB().ListTrucks()
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonOK(w, trucks)
}

func (h *Handlers) apiGetTruck(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.jsonError(w, "invalid id", http.StatusBadRequest)
		return
	}
	truck, err := h.engine.DB().GetTruck(id)
	if err != nil {
		h.storeError(w, err)
		return
	}
	h.jsonOK(w, truck)
}

func (h *Handlers) apiListPackages(w http.ResponseWriter, r *http.Request) {
	status := store.PackageStatus(strings.ToUpper(r.URL.Query().Get("status")))
	pkgs, err := h.engine.DB().ListPackages(status, queryLimit(r, 100))
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonOK(w, pkgs)
}

func (h *Handlers) apiGetPackage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.jsonError(w, "invalid id", http.StatusBadRequest)
		return
	}
	pkg, err := h.engine.DB().GetPackage(id)
	if err != nil {
		h.storeError(w, err)
		return
	}
	h.jsonOK(w, pkg)
}

func (h *Handlers) apiListWarehouses(w http.ResponseWriter, r *http.Request) {
	whs, err := h.engine.DB().ListWarehouses()
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonOK(w, whs)
}

func (h *Handlers) apiListMessages(w http.ResponseWriter, r *http.Request) {
	dir := store.Direction(strings.ToUpper(r.URL.Query().Get("direction")))
	switch dir {
	case "", store.Outgoing, store.Incoming:
	default:
		h.jsonError(w, "direction must be OUTGOING or INCOMING", http.StatusBadRequest)
		return
	}
	msgs, err := h.engine.DB().ListMessageLog(dir, queryLimit(r, 100))
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonOK(w, msgs)
}

type packageLoadedRequest struct {
	MessageType string `json:"message_type"`
	SeqNum      int64  `json:"seq_num"`
	PackageID   int64  `json:"package_id"`
	TruckID     int64  `json:"truck_id"`
}

// apiPackageLoaded handles the partner's load confirmation.
func (h *Handlers) apiPackageLoaded(w http.ResponseWriter, r *http.Request) {
	var req packageLoadedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.MessageType != "" && req.MessageType != "PackageLoadedRequest" {
		h.jsonError(w, "unexpected message_type "+req.MessageType, http.StatusBadRequest)
		return
	}
	if req.SeqNum <= 0 || req.PackageID <= 0 || req.TruckID <= 0 {
		h.jsonError(w, "seq_num, package_id and truck_id are required", http.StatusBadRequest)
		return
	}

	err := h.engine.HandlePackageLoaded(req.SeqNum, req.PackageID, req.TruckID)
	switch {
	case errors.Is(err, engine.ErrDuplicateMessage):
		h.jsonOK(w, map[string]any{"success": true, "duplicate": true})
	case err != nil:
		h.storeError(w, err)
	default:
		h.jsonOK(w, map[string]any{"success": true})
	}
}

func (h *Handlers) apiSaveWarehouse(w http.ResponseWriter, r *http.Request) {
	var wh store.Warehouse
	if err := json.NewDecoder(r.Body).Decode(&wh); err != nil || wh.ID <= 0 {
		h.jsonError(w, "invalid warehouse", http.StatusBadRequest)
		return
	}
	if err := h.engine.DB().SaveWarehouse(&wh); err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonOK(w, wh)
}

func (h *Handlers) apiSavePackage(w http.ResponseWriter, r *http.Request) {
	var pkg store.Package
	if err := json.NewDecoder(r.Body).Decode(&pkg); err != nil || pkg.ID <= 0 {
		h.jsonError(w, "invalid package", http.StatusBadRequest)
		return
	}
	if err := h.engine.DB().SavePackage(&pkg); err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonOK(w, pkg)
}

func (h *Handlers) jsonOK(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (h *Handlers) jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSONError(w, msg, code)
}

func writeJSONError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// storeError maps ErrNotFound to 404 and everything else to 500.
func (h *Handlers) storeError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		h.jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	h.jsonError(w, err.Error(), http.StatusInternalServerError)
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func queryLimit(r *http.Request, def int) int {
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			return n
		}
	}
	return def
}
