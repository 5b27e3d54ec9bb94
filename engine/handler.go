package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Lydiiiiia27/ups-delivery-system/notify"
	"github.com/Lydiiiiia27/ups-delivery-system/store"
	"github.com/Lydiiiiia27/ups-delivery-system/world"
)

const simulationEndedDetail = "Delivery failed because simulation ended before completion"

// Repository is the persistence the handler reads and mutates.
type Repository interface {
	GetTruck(id int64) (*store.Truck, error)
	SaveTruck(t *store.Truck) error
	GetPackage(id int64) (*store.Package, error)
	SavePackage(p *store.Package) error
	ListPackagesByTruck(truckID int64) ([]*store.Package, error)
	ListPackagesByTruckAndStatus(truckID int64, status store.PackageStatus) ([]*store.Package, error)
	ListActivePackages() ([]*store.Package, error)
	ListWarehouses() ([]*store.Warehouse, error)
}

// Notifier sends partner notifications.
type Notifier interface {
	NotifyTruckArrival(ctx context.Context, pkg *store.Package, truck *store.Truck, wh *store.Warehouse) (*notify.Result, error)
	NotifyDeliveryComplete(ctx context.Context, pkg *store.Package, truck *store.Truck) (*notify.Result, error)
	SendStatusUpdate(ctx context.Context, pkg *store.Package, truck *store.Truck, status, details string) (*notify.Result, error)
}

// Acker exchanges acknowledgments with the World.
type Acker interface {
	SendAcks(acks []int64) error
	Acked(seq int64)
}

// Emitter receives lifecycle events produced while handling responses.
type Emitter interface {
	EmitTruckStatusChanged(truckID int64, old, next store.TruckStatus, x, y int)
	EmitPackageStatusChanged(pkg *store.Package, old store.PackageStatus, detail string)
	EmitNotificationFailed(packageID int64, kind string, err error)
	EmitSimulationFinished(failed int)
}

type HandlerConfig struct {
	Repo               Repository
	Notifier           Notifier
	Acker              Acker
	Emitter            Emitter
	WarehouseThreshold int
	// SeenCapacity bounds the set of World response sequence numbers kept
	// to drop redelivered responses.
	SeenCapacity int
	LogFn        LogFunc
}

// Handler is the single consumer of the event queue. It applies each
// envelope to the domain model before taking the next.
type Handler struct {
	repo      Repository
	notifier  Notifier
	acker     Acker
	emitter   Emitter
	threshold int
	logFn     LogFunc
	tracer    trace.Tracer

	seenMu   sync.Mutex
	seen     map[int64]struct{}
	seenRing []int64
	seenNext int

	finished  atomic.Bool
	processed atomic.Int64
}

func NewHandler(c HandlerConfig) *Handler {
	logFn := c.LogFn
	if logFn == nil {
		logFn = log.Printf
	}
	if c.SeenCapacity <= 0 {
		c.SeenCapacity = 10000
	}
	if c.Emitter == nil {
		c.Emitter = nopEmitter{}
	}
	return &Handler{
		repo:      c.Repo,
		notifier:  c.Notifier,
		acker:     c.Acker,
		emitter:   c.Emitter,
		threshold: c.WarehouseThreshold,
		logFn:     logFn,
		tracer:    otel.Tracer("upsbridge/engine"),
		seen:      make(map[int64]struct{}, c.SeenCapacity),
		seenRing:  make([]int64, c.SeenCapacity),
	}
}

// worldChanged is queued between the last response of one world and the
// first response of the next.
var worldChanged = &world.Responses{}

// Finished reports whether a simulation-finished flag has been handled.
func (h *Handler) Finished() bool { return h.finished.Load() }

// Processed returns the number of envelopes handled.
func (h *Handler) Processed() int64 { return h.processed.Load() }

// Run consumes q until ctx is done, the queue closes, or the simulation finishes.
func (h *Handler) Run(ctx context.Context, q *EventQueue) {
	h.logFn("handler: started")
	for !h.finished.Load() {
		resp, ok := q.Take(ctx)
		if !ok {
			break
		}
		if resp == worldChanged {
			h.ResetSeen()
			continue
		}
		h.Process(ctx, resp)
	}
	h.logFn("handler: stopped")
}

// Process applies one envelope: acks, completions, deliveries, truck
// statuses, errors, then the finished flag.
func (h *Handler) Process(ctx context.Context, resp *world.Responses) {
	if h.finished.Load() {
		h.logFn("handler: simulation finished, dropping envelope")
		return
	}
	defer func() {
		if r := recover(); r != nil {
			h.logFn("handler: recovered from panic: %v", r)
		}
	}()
	defer h.processed.Add(1)

	ctx, span := h.tracer.Start(ctx, "handler.process", trace.WithAttributes(
		attribute.Int("world.completions", len(resp.Completions)),
		attribute.Int("world.delivered", len(resp.Delivered)),
		attribute.Int("world.truckstatus", len(resp.TruckStatus)),
		attribute.Int("world.errors", len(resp.Errors)),
		attribute.Bool("world.finished", resp.Finished),
	))
	defer span.End()

	for _, seq := range resp.Acks {
		if h.acker != nil {
			h.acker.Acked(seq)
		}
	}
	for _, c := range resp.Completions {
		if h.firstSeen(c.SeqNum) {
			h.handleCompletion(ctx, c)
		}
	}
	for _, d := range resp.Delivered {
		if h.firstSeen(d.SeqNum) {
			h.handleDelivery(ctx, d)
		}
	}
	for _, ts := range resp.TruckStatus {
		if h.firstSeen(ts.SeqNum) {
			h.handleTruckStatus(ctx, ts)
		}
	}
	for _, e := range resp.Errors {
		if h.firstSeen(e.SeqNum) {
			h.handleError(ctx, e)
		}
	}

	// redelivered responses are acked again so the World stops resending
	if seqs := resp.SeqNums(); len(seqs) > 0 && h.acker != nil {
		if err := h.acker.SendAcks(seqs); err != nil {
			h.logFn("handler: ack %d responses: %v", len(seqs), err)
		}
	}

	if resp.Finished {
		h.handleFinished(ctx)
	}
}

// ResetSeen forgets every recorded response sequence number. A new world
// numbers its responses from 1 again.
func (h *Handler) ResetSeen() {
	h.seenMu.Lock()
	defer h.seenMu.Unlock()
	clear(h.seen)
	clear(h.seenRing)
	h.seenNext = 0
}

// firstSeen records seq and reports whether it was new. Zero is never deduplicated.
func (h *Handler) firstSeen(seq int64) bool {
	if seq == 0 {
		return true
	}
	h.seenMu.Lock()
	defer h.seenMu.Unlock()
	if _, dup := h.seen[seq]; dup {
		h.logFn("handler: response seq %d already handled", seq)
		return false
	}
	if old := h.seenRing[h.seenNext]; old != 0 {
		delete(h.seen, old)
	}
	h.seenRing[h.seenNext] = seq
	h.seenNext = (h.seenNext + 1) % len(h.seenRing)
	h.seen[seq] = struct{}{}
	return true
}

func (h *Handler) handleCompletion(ctx context.Context, c world.Finished) {
	truckID := int64(c.TruckID)
	truck, err := h.repo.GetTruck(truckID)
	if err != nil {
		h.logFn("handler: completion for truck %d (seq %d): %v", truckID, c.SeqNum, err)
		return
	}
	old := truck.Status
	truck.X, truck.Y = int(c.X), int(c.Y)

	arrived := false
	switch status, _ := ParseTruckStatus(c.Status); status {
	case store.TruckArriveWarehouse:
		truck.Status = store.TruckArriveWarehouse
		arrived = true
	case store.TruckIdle:
		truck.Status = store.TruckIdle
	default:
		h.logFn("handler: unknown completion status %q for truck %d (seq %d)", c.Status, truckID, c.SeqNum)
	}

	if err := h.repo.SaveTruck(truck); err != nil {
		h.logFn("handler: save truck %d: %v", truckID, err)
		return
	}
	if truck.Status != old {
		h.emitter.EmitTruckStatusChanged(truck.ID, old, truck.Status, truck.X, truck.Y)
	}
	h.logFn("handler: truck %d at (%d,%d) is %s", truck.ID, truck.X, truck.Y, truck.Status)

	if arrived {
		h.handleWarehouseArrival(ctx, truck)
	}
}

func (h *Handler) handleWarehouseArrival(ctx context.Context, truck *store.Truck) {
	pkgs, err := h.repo.ListPackagesByTruckAndStatus(truck.ID, store.PackageAssigned)
	if err != nil {
		h.logFn("handler: list assigned packages for truck %d: %v", truck.ID, err)
		return
	}
	if len(pkgs) == 0 {
		h.logFn("handler: truck %d arrived with no assigned packages", truck.ID)
		return
	}
	warehouses, err := h.repo.ListWarehouses()
	if err != nil {
		h.logFn("handler: list warehouses: %v", err)
		return
	}
	wh := nearestWarehouse(warehouses, truck.X, truck.Y, h.threshold)
	if wh == nil {
		h.logFn("handler: no warehouse within %d of (%d,%d) for truck %d", h.threshold, truck.X, truck.Y, truck.ID)
		return
	}

	for _, pkg := range pkgs {
		old := pkg.Status
		pkg.Status = store.PackagePickupReady
		if pkg.WarehouseID == nil {
			id := wh.ID
			pkg.WarehouseID = &id
		}
		if err := h.repo.SavePackage(pkg); err != nil {
			h.logFn("handler: save package %d: %v", pkg.ID, err)
			continue
		}
		h.emitter.EmitPackageStatusChanged(pkg, old, fmt.Sprintf("truck %d at warehouse %d", truck.ID, wh.ID))
		if _, err := h.notifier.NotifyTruckArrival(ctx, pkg, truck, wh); err != nil {
			h.notifyFailed(pkg.ID, notify.TypeTruckArrived, err)
		}
	}
	h.logFn("handler: truck %d arrived at warehouse %d for %d packages", truck.ID, wh.ID, len(pkgs))
}

func (h *Handler) handleDelivery(ctx context.Context, d world.DeliveryMade) {
	truckID := int64(d.TruckID)
	pkg, pkgErr := h.repo.GetPackage(d.PackageID)
	truck, truckErr := h.repo.GetTruck(truckID)
	if pkgErr != nil || truckErr != nil {
		if pkgErr != nil {
			h.logFn("handler: delivery of package %d (seq %d): %v", d.PackageID, d.SeqNum, pkgErr)
		}
		if truckErr != nil {
			h.logFn("handler: delivery by truck %d (seq %d): %v", truckID, d.SeqNum, truckErr)
		}
		return
	}

	old := pkg.Status
	pkg.Status = store.PackageDelivered
	if err := h.repo.SavePackage(pkg); err != nil {
		h.logFn("handler: save package %d: %v", pkg.ID, err)
		return
	}
	h.emitter.EmitPackageStatusChanged(pkg, old, "delivered")
	h.logFn("handler: package %d delivered by truck %d", pkg.ID, truck.ID)

	if _, err := h.notifier.NotifyDeliveryComplete(ctx, pkg, truck); err != nil {
		h.notifyFailed(pkg.ID, notify.TypeDeliveryComplete, err)
	}
	details := fmt.Sprintf("Package %d delivered successfully", pkg.ID)
	if _, err := h.notifier.SendStatusUpdate(ctx, pkg, truck, string(store.PackageDelivered), details); err != nil {
		h.notifyFailed(pkg.ID, notify.TypeStatusUpdate, err)
	}
}

func (h *Handler) handleTruckStatus(ctx context.Context, ts world.TruckStatus) {
	truckID := int64(ts.TruckID)
	truck, err := h.repo.GetTruck(truckID)
	if err != nil {
		h.logFn("handler: status for truck %d (seq %d): %v", truckID, ts.SeqNum, err)
		return
	}
	old := truck.Status
	truck.X, truck.Y = int(ts.X), int(ts.Y)

	next, ok := ParseTruckStatus(ts.Status)
	if !ok {
		h.logFn("handler: unknown truck status %q for truck %d (seq %d)", ts.Status, truckID, ts.SeqNum)
		next = old
	}
	truck.Status = next
	if err := h.repo.SaveTruck(truck); err != nil {
		h.logFn("handler: save truck %d: %v", truckID, err)
		return
	}
	if next == old {
		return
	}
	h.emitter.EmitTruckStatusChanged(truck.ID, old, next, truck.X, truck.Y)

	pkgs, err := h.repo.ListPackagesByTruck(truck.ID)
	if err != nil {
		h.logFn("handler: list packages for truck %d: %v", truck.ID, err)
		return
	}
	details := fmt.Sprintf("Truck %d status changed to %s", truck.ID, next)
	for _, pkg := range pkgs {
		if pkg.Status.IsTerminal() {
			continue
		}
		prev := pkg.Status
		if derived, changed := derivePackageStatus(pkg.Status, old, next); changed {
			pkg.Status = derived
			if err := h.repo.SavePackage(pkg); err != nil {
				h.logFn("handler: save package %d: %v", pkg.ID, err)
				continue
			}
			h.emitter.EmitPackageStatusChanged(pkg, prev, details)
		}
		if _, err := h.notifier.SendStatusUpdate(ctx, pkg, truck, string(pkg.Status), details); err != nil {
			h.notifyFailed(pkg.ID, notify.TypeStatusUpdate, err)
		}
	}
}

func (h *Handler) handleFinished(ctx context.Context) {
	h.logFn("handler: simulation finished")
	pkgs, err := h.repo.ListActivePackages()
	if err != nil {
		h.logFn("handler: list active packages: %v", err)
	}
	failed := 0
	for _, pkg := range pkgs {
		if h.failPackage(ctx, pkg, simulationEndedDetail) {
			failed++
		}
	}
	h.logFn("handler: marked %d packages FAILED at simulation end", failed)
	h.finished.Store(true)
	h.emitter.EmitSimulationFinished(failed)
}

// failPackage marks pkg FAILED, persists it, and sends a status update.
func (h *Handler) failPackage(ctx context.Context, pkg *store.Package, details string) bool {
	old := pkg.Status
	pkg.Status = store.PackageFailed
	if err := h.repo.SavePackage(pkg); err != nil {
		h.logFn("handler: save package %d: %v", pkg.ID, err)
		return false
	}
	h.emitter.EmitPackageStatusChanged(pkg, old, details)
	if _, err := h.notifier.SendStatusUpdate(ctx, pkg, h.truckFor(pkg), string(store.PackageFailed), details); err != nil {
		h.notifyFailed(pkg.ID, notify.TypeStatusUpdate, err)
	}
	return true
}

// truckFor loads the truck a package is bound to, or nil.
func (h *Handler) truckFor(pkg *store.Package) *store.Truck {
	if pkg.TruckID == nil {
		return nil
	}
	truck, err := h.repo.GetTruck(*pkg.TruckID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.logFn("handler: load truck %d for package %d: %v", *pkg.TruckID, pkg.ID, err)
		}
		return nil
	}
	return truck
}

func (h *Handler) notifyFailed(packageID int64, kind string, err error) {
	h.logFn("handler: %s for package %d failed: %v", kind, packageID, err)
	h.emitter.EmitNotificationFailed(packageID, kind, err)
}

type nopEmitter struct{}

func (nopEmitter) EmitTruckStatusChanged(int64, store.TruckStatus, store.TruckStatus, int, int) {}
func (nopEmitter) EmitPackageStatusChanged(*store.Package, store.PackageStatus, string)         {}
func (nopEmitter) EmitNotificationFailed(int64, string, error)                                  {}
func (nopEmitter) EmitSimulationFinished(int)                                                   {}
