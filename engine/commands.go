package engine

import (
	"errors"
	"fmt"

	"github.com/Lydiiiiia27/ups-delivery-system/store"
)

// ErrDuplicateMessage is returned for an inbound partner message whose
// sequence number was already handled.
var ErrDuplicateMessage = errors.New("duplicate message")

// SendTruckToPickup marks the truck TRAVELING and sends it to warehouseID.
// Without a World connection only the database is updated.
func (e *Engine) SendTruckToPickup(truckID, warehouseID int64) error {
	truck, err := e.db.GetTruck(truckID)
	if err != nil {
		return err
	}
	old := truck.Status
	truck.Status = store.TruckTraveling
	if err := e.db.SaveTruck(truck); err != nil {
		return err
	}
	if old != truck.Status {
		(&busEmitter{bus: e.Events}).EmitTruckStatusChanged(truck.ID, old, truck.Status, truck.X, truck.Y)
	}

	if !e.world.IsConnected() {
		e.logFn("engine: not connected to world, pickup for truck %d recorded but not sent", truckID)
		return nil
	}
	if _, err := e.world.Pickup(int32(truckID), int32(warehouseID)); err != nil {
		return fmt.Errorf("send truck %d to warehouse %d: %w", truckID, warehouseID, err)
	}
	return nil
}

// SendTruckToDeliver marks truck and package DELIVERING, records the
// destination and sends the delivery command.
func (e *Engine) SendTruckToDeliver(truckID, packageID int64, x, y int) error {
	truck, err := e.db.GetTruck(truckID)
	if err != nil {
		return err
	}
	pkg, err := e.db.GetPackage(packageID)
	if err != nil {
		return err
	}
	emit := &busEmitter{bus: e.Events}

	oldTruck := truck.Status
	truck.Status = store.TruckDelivering
	if err := e.db.SaveTruck(truck); err != nil {
		return err
	}
	oldPkg := pkg.Status
	pkg.Status = store.PackageDelivering
	pkg.DestX, pkg.DestY = x, y
	pkg.TruckID = &truck.ID
	if err := e.db.SavePackage(pkg); err != nil {
		return err
	}
	if oldTruck != truck.Status {
		emit.EmitTruckStatusChanged(truck.ID, oldTruck, truck.Status, truck.X, truck.Y)
	}
	emit.EmitPackageStatusChanged(pkg, oldPkg, fmt.Sprintf("out for delivery to (%d,%d)", x, y))

	if !e.world.IsConnected() {
		e.logFn("engine: not connected to world, delivery of package %d recorded but not sent", packageID)
		return nil
	}
	if _, err := e.world.Deliver(int32(truckID), packageID, int32(x), int32(y)); err != nil {
		return fmt.Errorf("send truck %d to deliver package %d: %w", truckID, packageID, err)
	}
	return nil
}

// QueryTruck asks the World for a truck's status; the answer arrives as a
// truck-status push.
func (e *Engine) QueryTruck(truckID int64) error {
	if _, err := e.db.GetTruck(truckID); err != nil {
		return err
	}
	if _, err := e.world.Query(int32(truckID)); err != nil {
		return fmt.Errorf("query truck %d: %w", truckID, err)
	}
	return nil
}

func (e *Engine) SetSimSpeed(speed uint32) error {
	return e.world.SetSpeed(speed)
}

// HandlePackageLoaded applies the partner's load confirmation: the package
// becomes LOADED on truckID. Redelivered sequence numbers return
// ErrDuplicateMessage without side effects.
func (e *Engine) HandlePackageLoaded(seqNum, packageID, truckID int64) (err error) {
	if !e.tracking.ClaimMessage(seqNum) {
		e.logFn("engine: package loaded seq %d already processed", seqNum)
		return ErrDuplicateMessage
	}
	defer func() {
		if err != nil {
			e.tracking.ReleaseMessage(seqNum)
		}
	}()
	pkg, err := e.db.GetPackage(packageID)
	if err != nil {
		return err
	}
	if _, err := e.db.GetTruck(truckID); err != nil {
		return err
	}

	old := pkg.Status
	pkg.Status = store.PackageLoaded
	pkg.TruckID = &truckID
	if err := e.db.SavePackage(pkg); err != nil {
		return err
	}
	if err := e.tracking.RecordIncomingMessage(seqNum, "PackageLoadedRequest"); err != nil {
		e.logFn("engine: %v", err)
	}
	(&busEmitter{bus: e.Events}).EmitPackageStatusChanged(pkg, old, fmt.Sprintf("loaded on truck %d", truckID))
	e.logFn("engine: package %d loaded on truck %d (seq %d)", packageID, truckID, seqNum)
	return nil
}
