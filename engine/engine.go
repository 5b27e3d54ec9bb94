// Package engine wires the World connection, the response pipeline and the
// partner notification loops together.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Lydiiiiia27/ups-delivery-system/config"
	"github.com/Lydiiiiia27/ups-delivery-system/notify"
	"github.com/Lydiiiiia27/ups-delivery-system/store"
	"github.com/Lydiiiiia27/ups-delivery-system/tracking"
	"github.com/Lydiiiiia27/ups-delivery-system/world"
)

// LogFunc is the printf-style logger shared with the world package.
type LogFunc = world.LogFunc

// WorldClient is the command side of the World connection.
type WorldClient interface {
	world.ResponseSource
	Connect(ctx context.Context, addr string, trucks []world.InitTruck, joinExisting bool, worldID int64) (int64, error)
	Pickup(truckID, warehouseID int32) (int64, error)
	Deliver(truckID int32, packageID int64, x, y int32) (int64, error)
	Query(truckID int32) (int64, error)
	SetSpeed(speed uint32) error
	SendAcks(acks []int64) error
	Acked(seq int64)
	IsConnected() bool
	WorldID() int64
	PendingCount() int
	Disconnect()
}

type Config struct {
	AppConfig  *config.Config
	DB         *store.DB
	World      WorldClient
	Tracking   *tracking.Service
	Dispatcher *notify.Dispatcher
	Sweeper    *notify.Sweeper
	LogFunc    LogFunc
	// HealthInterval overrides the connection check period.
	HealthInterval time.Duration
}

type Engine struct {
	cfg        *config.Config
	db         *store.DB
	world      WorldClient
	tracking   *tracking.Service
	dispatcher *notify.Dispatcher
	sweeper    *notify.Sweeper
	Events     *EventBus
	logFn      LogFunc

	queue    *EventQueue
	listener *world.Listener
	handler  *Handler
	poller   *world.Poller

	healthInterval time.Duration
	stopChan       chan struct{}
	stopOnce       sync.Once
	cancel         context.CancelFunc
	handlerDone    chan struct{}

	mu             sync.Mutex
	worldID        int64
	worldConnected bool
}

func New(c Config) *Engine {
	logFn := c.LogFunc
	if logFn == nil {
		logFn = log.Printf
	}
	health := c.HealthInterval
	if health <= 0 {
		health = 30 * time.Second
	}
	return &Engine{
		cfg:            c.AppConfig,
		db:             c.DB,
		world:          c.World,
		tracking:       c.Tracking,
		dispatcher:     c.Dispatcher,
		sweeper:        c.Sweeper,
		Events:         NewEventBus(),
		logFn:          logFn,
		queue:          NewEventQueue(),
		healthInterval: health,
		stopChan:       make(chan struct{}),
		handlerDone:    make(chan struct{}),
	}
}

// Start bootstraps trucks, connects to the World and starts the background
// loops. A failed World connection is returned after the partner-facing
// loops are running, so the caller may keep serving.
func (e *Engine) Start(ctx context.Context) error {
	if err := e.tracking.Seed(); err != nil {
		e.logFn("engine: %v", err)
	}
	if err := e.ensureTrucks(); err != nil {
		return err
	}

	wc := e.cfg.World
	e.handler = NewHandler(HandlerConfig{
		Repo:               e.db,
		Notifier:           e.dispatcher,
		Acker:              e.world,
		Emitter:            &busEmitter{bus: e.Events},
		WarehouseThreshold: wc.WarehouseThreshold,
		LogFn:              e.logFn,
	})
	e.listener = world.NewListener(e.queue.Put, wc.ReadRetryDelay, wc.StopTimeout, e.logFn)
	e.listener.OnStreamClosed = func(err error) {
		e.setConnected(false, fmt.Sprintf("stream closed: %v", err))
	}
	e.poller = world.NewPoller(e.world, wc.QueryInterval, e.logFn)

	e.wireEventHandlers()
	e.loadActiveTrucks()

	runCtx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	go func() {
		defer close(e.handlerDone)
		e.handler.Run(runCtx, e.queue)
	}()

	e.tracking.Start()
	e.dispatcher.Start()
	e.sweeper.Start()
	e.poller.Start()

	err := e.connect(ctx)
	go e.connectionHealthLoop()
	e.logFn("engine: started")
	return err
}

func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		close(e.stopChan)
		if e.listener != nil {
			e.listener.Stop()
		}
		if e.cancel != nil {
			e.cancel()
			<-e.handlerDone
		}
		e.queue.Close()
		if e.poller != nil {
			e.poller.Stop()
		}
		e.sweeper.Stop()
		e.dispatcher.Stop()
		e.tracking.Stop()
		e.world.Disconnect()
		e.logFn("engine: stopped")
	})
}

// Accessors
func (e *Engine) DB() *store.DB                  { return e.db }
func (e *Engine) AppConfig() *config.Config      { return e.cfg }
func (e *Engine) Tracking() *tracking.Service    { return e.tracking }
func (e *Engine) Dispatcher() *notify.Dispatcher { return e.dispatcher }
func (e *Engine) Handler() *Handler              { return e.handler }
func (e *Engine) Queue() *EventQueue             { return e.queue }

// Status summarizes the bridge for the health endpoint.
type Status struct {
	WorldConnected     bool  `json:"world_connected"`
	WorldID            int64 `json:"world_id"`
	ListenerRunning    bool  `json:"listener_running"`
	QueueLength        int   `json:"queue_length"`
	PendingCommands    int   `json:"pending_commands"`
	EnvelopesProcessed int64 `json:"envelopes_processed"`
	SimulationFinished bool  `json:"simulation_finished"`
	PolledTrucks       int   `json:"polled_trucks"`
}

func (e *Engine) Status() Status {
	s := Status{
		WorldConnected:  e.world.IsConnected(),
		WorldID:         e.world.WorldID(),
		QueueLength:     e.queue.Len(),
		PendingCommands: e.world.PendingCount(),
	}
	if e.listener != nil {
		s.ListenerRunning = e.listener.IsRunning()
	}
	if e.handler != nil {
		s.EnvelopesProcessed = e.handler.Processed()
		s.SimulationFinished = e.handler.Finished()
	}
	if e.poller != nil {
		s.PolledTrucks = e.poller.ActiveCount()
	}
	return s
}

// ensureTrucks creates the initial fleet at the origin when none exists.
func (e *Engine) ensureTrucks() error {
	trucks, err := e.db.ListTrucks()
	if err != nil {
		return fmt.Errorf("engine: list trucks: %w", err)
	}
	if len(trucks) > 0 {
		return nil
	}
	n := e.cfg.World.InitialTrucks
	e.logFn("engine: creating %d initial trucks", n)
	for i := 0; i < n; i++ {
		t := &store.Truck{X: 0, Y: 0, Status: store.TruckIdle}
		if err := e.db.CreateTruck(t); err != nil {
			return fmt.Errorf("engine: create truck: %w", err)
		}
		e.logFn("engine: created truck %d", t.ID)
	}
	return nil
}

// connect performs the handshake. A rejected join is retried as create-new.
func (e *Engine) connect(ctx context.Context) error {
	trucks, err := e.db.ListTrucks()
	if err != nil {
		return fmt.Errorf("engine: list trucks: %w", err)
	}
	initial := make([]world.InitTruck, 0, len(trucks))
	for _, t := range trucks {
		initial = append(initial, world.InitTruck{ID: int32(t.ID), X: int32(t.X), Y: int32(t.Y)})
	}

	wc := e.cfg.World
	e.mu.Lock()
	worldID := e.worldID
	e.mu.Unlock()
	if worldID == 0 && !wc.CreateNew {
		worldID = wc.WorldID
	}
	join := worldID > 0

	id, err := e.world.Connect(ctx, wc.Address(), initial, join, worldID)
	created := !join
	var ce *world.ConnectError
	if err != nil && join && errors.As(err, &ce) && ce.Rejected() {
		e.logFn("engine: world %d rejected join (%s), creating a new world", worldID, ce.Result)
		id, err = e.world.Connect(ctx, wc.Address(), initial, false, 0)
		created = true
	}
	if err != nil {
		e.setConnected(false, err.Error())
		return fmt.Errorf("engine: connect to world at %s: %w", wc.Address(), err)
	}

	e.mu.Lock()
	previous := e.worldID
	e.worldID = id
	e.mu.Unlock()
	// a created or different world numbers its responses from 1 again
	if created || id != previous {
		if previous != 0 {
			e.logFn("engine: attached to world %d (was %d, created=%t)", id, previous, created)
		}
		e.queue.Put(worldChanged)
	}

	if err := e.world.SetSpeed(wc.SimSpeed); err != nil {
		e.logFn("engine: set simulation speed: %v", err)
	}
	e.listener.Start(e.world)
	e.setConnected(true, fmt.Sprintf("connected to world %d", id))
	return nil
}

func (e *Engine) setConnected(connected bool, detail string) {
	e.mu.Lock()
	changed := e.worldConnected != connected
	e.worldConnected = connected
	worldID := e.worldID
	e.mu.Unlock()
	if !changed {
		return
	}
	typ := EventWorldDisconnected
	if connected {
		typ = EventWorldConnected
	}
	e.Events.Emit(Event{Type: typ, Payload: ConnectionEvent{WorldID: worldID, Detail: detail}})
}

// connectionHealthLoop rejoins the last world after the stream drops.
func (e *Engine) connectionHealthLoop() {
	ticker := time.NewTicker(e.healthInterval)
	defer ticker.Stop()
	for {
		select {
		case <-e.stopChan:
			return
		case <-ticker.C:
			e.checkConnection()
		}
	}
}

func (e *Engine) checkConnection() {
	if e.world.IsConnected() {
		e.setConnected(true, "world connected")
		return
	}
	e.setConnected(false, "world disconnected")
	if e.handler.Finished() {
		return
	}
	e.listener.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.World.DialTimeout+time.Second)
	defer cancel()
	if err := e.connect(ctx); err != nil {
		e.logFn("engine: reconnect: %v", err)
	}
}

// loadActiveTrucks polls trucks that were moving when the process stopped.
func (e *Engine) loadActiveTrucks() {
	trucks, err := e.db.ListTrucks()
	if err != nil {
		e.logFn("engine: load active trucks: %v", err)
		return
	}
	n := 0
	for _, t := range trucks {
		if t.Status != store.TruckIdle {
			e.poller.Track(int32(t.ID))
			n++
		}
	}
	if n > 0 {
		e.logFn("engine: polling %d active trucks", n)
	}
}
