package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Lydiiiiia27/ups-delivery-system/notify"
	"github.com/Lydiiiiia27/ups-delivery-system/store"
)

// memRepo is an in-memory Repository that hands out copies, like the SQL store.
type memRepo struct {
	mu         sync.Mutex
	trucks     map[int64]store.Truck
	packages   map[int64]store.Package
	warehouses []store.Warehouse
}

func newMemRepo() *memRepo {
	return &memRepo{trucks: make(map[int64]store.Truck), packages: make(map[int64]store.Package)}
}

func (r *memRepo) addTruck(id int64, x, y int, status store.TruckStatus) {
	r.trucks[id] = store.Truck{ID: id, X: x, Y: y, Status: status}
}

func (r *memRepo) addPackage(id int64, truckID *int64, status store.PackageStatus) {
	r.packages[id] = store.Package{ID: id, TruckID: truckID, Status: status}
}

func (r *memRepo) addWarehouse(id int64, x, y int) {
	r.warehouses = append(r.warehouses, store.Warehouse{ID: id, X: x, Y: y})
}

func (r *memRepo) truck(id int64) store.Truck {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.trucks[id]
}

func (r *memRepo) pkg(id int64) store.Package {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.packages[id]
}

func (r *memRepo) GetTruck(id int64) (*store.Truck, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.trucks[id]
	if !ok {
		return nil, fmt.Errorf("truck %d: %w", id, store.ErrNotFound)
	}
	return &t, nil
}

func (r *memRepo) SaveTruck(t *store.Truck) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trucks[t.ID] = *t
	return nil
}

func (r *memRepo) GetPackage(id int64) (*store.Package, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.packages[id]
	if !ok {
		return nil, fmt.Errorf("package %d: %w", id, store.ErrNotFound)
	}
	return &p, nil
}

func (r *memRepo) SavePackage(p *store.Package) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.packages[p.ID] = *p
	return nil
}

func (r *memRepo) list(match func(store.Package) bool) []*store.Package {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*store.Package
	for _, p := range r.packages {
		if match(p) {
			cp := p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *memRepo) ListPackagesByTruck(truckID int64) ([]*store.Package, error) {
	return r.list(func(p store.Package) bool { return p.TruckID != nil && *p.TruckID == truckID }), nil
}

func (r *memRepo) ListPackagesByTruckAndStatus(truckID int64, status store.PackageStatus) ([]*store.Package, error) {
	return r.list(func(p store.Package) bool {
		return p.TruckID != nil && *p.TruckID == truckID && p.Status == status
	}), nil
}

func (r *memRepo) ListActivePackages() ([]*store.Package, error) {
	return r.list(func(p store.Package) bool { return !p.Status.IsTerminal() }), nil
}

func (r *memRepo) ListWarehouses() ([]*store.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*store.Warehouse, len(r.warehouses))
	for i := range r.warehouses {
		w := r.warehouses[i]
		out[i] = &w
	}
	return out, nil
}

type sentNotification struct {
	kind        string
	packageID   int64
	truckID     int64
	warehouseID int64
	status      string
	details     string
}

// recordingNotifier records every notification; failing makes each call error.
type recordingNotifier struct {
	mu      sync.Mutex
	sent    []sentNotification
	failing bool
}

func (n *recordingNotifier) record(s sentNotification) (*notify.Result, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, s)
	if n.failing {
		return nil, &notify.DispatchError{SeqNum: int64(len(n.sent)), Attempts: 3, Err: errors.New("partner down")}
	}
	return &notify.Result{SeqNum: int64(len(n.sent)), StatusCode: 200}, nil
}

func (n *recordingNotifier) NotifyTruckArrival(_ context.Context, pkg *store.Package, truck *store.Truck, wh *store.Warehouse) (*notify.Result, error) {
	return n.record(sentNotification{kind: notify.TypeTruckArrived, packageID: pkg.ID, truckID: truck.ID, warehouseID: wh.ID})
}

func (n *recordingNotifier) NotifyDeliveryComplete(_ context.Context, pkg *store.Package, truck *store.Truck) (*notify.Result, error) {
	return n.record(sentNotification{kind: notify.TypeDeliveryComplete, packageID: pkg.ID, truckID: truck.ID})
}

func (n *recordingNotifier) SendStatusUpdate(_ context.Context, pkg *store.Package, truck *store.Truck, status, details string) (*notify.Result, error) {
	s := sentNotification{kind: notify.TypeStatusUpdate, packageID: pkg.ID, status: status, details: details}
	if truck != nil {
		s.truckID = truck.ID
	}
	return n.record(s)
}

func (n *recordingNotifier) all() []sentNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentNotification(nil), n.sent...)
}

type fakeAcker struct {
	mu     sync.Mutex
	sent   [][]int64
	acked  []int64
	closed bool
}

func (a *fakeAcker) SendAcks(acks []int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return errors.New("not connected")
	}
	a.sent = append(a.sent, append([]int64(nil), acks...))
	return nil
}

func (a *fakeAcker) Acked(seq int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acked = append(a.acked, seq)
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []string
}

func (e *recordingEmitter) add(s string) {
	e.mu.Lock()
	e.events = append(e.events, s)
	e.mu.Unlock()
}

func (e *recordingEmitter) EmitTruckStatusChanged(truckID int64, old, next store.TruckStatus, _, _ int) {
	e.add(fmt.Sprintf("truck %d %s->%s", truckID, old, next))
}

func (e *recordingEmitter) EmitPackageStatusChanged(pkg *store.Package, old store.PackageStatus, _ string) {
	e.add(fmt.Sprintf("package %d %s->%s", pkg.ID, old, pkg.Status))
}

func (e *recordingEmitter) EmitNotificationFailed(packageID int64, kind string, _ error) {
	e.add(fmt.Sprintf("failed %s %d", kind, packageID))
}

func (e *recordingEmitter) EmitSimulationFinished(failed int) {
	e.add(fmt.Sprintf("finished %d", failed))
}

// logRecorder captures formatted log lines.
type logRecorder struct {
	mu    sync.Mutex
	lines []string
}

func (l *logRecorder) logf(format string, args ...any) {
	l.mu.Lock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
	l.mu.Unlock()
}

func (l *logRecorder) contains(sub string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range l.lines {
		if strings.Contains(line, sub) {
			return true
		}
	}
	return false
}

type handlerFixture struct {
	repo     *memRepo
	notifier *recordingNotifier
	acker    *fakeAcker
	emitter  *recordingEmitter
	logs     *logRecorder
	handler  *Handler
}

func newHandlerFixture() *handlerFixture {
	f := &handlerFixture{
		repo:     newMemRepo(),
		notifier: &recordingNotifier{},
		acker:    &fakeAcker{},
		emitter:  &recordingEmitter{},
		logs:     &logRecorder{},
	}
	f.handler = NewHandler(HandlerConfig{
		Repo:               f.repo,
		Notifier:           f.notifier,
		Acker:              f.acker,
		Emitter:            f.emitter,
		WarehouseThreshold: 10,
		LogFn:              f.logs.logf,
	})
	return f
}

func int64p(v int64) *int64 { return &v }
