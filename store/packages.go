package store

import (
	"database/sql"
	"fmt"
	"time"
)

type PackageStatus string

const (
	PackageCreated        PackageStatus = "CREATED"
	PackagePacking        PackageStatus = "PACKING"
	PackagePacked         PackageStatus = "PACKED"
	PackageAssigned       PackageStatus = "ASSIGNED"
	PackagePickupReady    PackageStatus = "PICKUP_READY"
	PackageLoading        PackageStatus = "LOADING"
	PackageLoaded         PackageStatus = "LOADED"
	PackageOutForDelivery PackageStatus = "OUT_FOR_DELIVERY"
	PackageDelivering     PackageStatus = "DELIVERING"
	PackageDelivered      PackageStatus = "DELIVERED"
	PackageFailed         PackageStatus = "FAILED"
)

// IsTerminal reports whether no further transitions are expected.
func (s PackageStatus) IsTerminal() bool {
	return s == PackageDelivered || s == PackageFailed
}

type Package struct {
	ID          int64         `json:"id"`
	TruckID     *int64        `json:"truck_id,omitempty"`
	WarehouseID *int64        `json:"warehouse_id,omitempty"`
	DestX       int           `json:"dest_x"`
	DestY       int           `json:"dest_y"`
	Status      PackageStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

const packageSelectCols = `id, truck_id, warehouse_id, dest_x, dest_y, status, created_at, updated_at`

func scanPackage(row interface{ Scan(...any) error }) (*Package, error) {
	var p Package
	var truckID, warehouseID sql.NullInt64
	var status string
	var createdAt, updatedAt any
	err := row.Scan(&p.ID, &truckID, &warehouseID, &p.DestX, &p.DestY, &status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if truckID.Valid {
		p.TruckID = &truckID.Int64
	}
	if warehouseID.Valid {
		p.WarehouseID = &warehouseID.Int64
	}
	p.Status = PackageStatus(status)
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return &p, nil
}

func scanPackages(rows *sql.Rows) ([]*Package, error) {
	var pkgs []*Package
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		pkgs = append(pkgs, p)
	}
	return pkgs, rows.Err()
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

// SavePackage upserts a package under its partner-assigned id.
func (db *DB) SavePackage(p *Package) error {
	if p.Status == "" {
		p.Status = PackageCreated
	}
	_, err := db.Exec(db.Q(`INSERT INTO packages (id, truck_id, warehouse_id, dest_x, dest_y, status) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET truck_id=excluded.truck_id, warehouse_id=excluded.warehouse_id,
		dest_x=excluded.dest_x, dest_y=excluded.dest_y, status=excluded.status, updated_at=datetime('now','localtime')`),
		p.ID, nullableID(p.TruckID), nullableID(p.WarehouseID), p.DestX, p.DestY, string(p.Status))
	if err != nil {
		return fmt.Errorf("save package %d: %w", p.ID, err)
	}
	return nil
}

func (db *DB) GetPackage(id int64) (*Package, error) {
	row := db.QueryRow(db.Q(`SELECT `+packageSelectCols+` FROM packages WHERE id=?`), id)
	p, err := scanPackage(row)
	if err != nil {
		return nil, notFound(err, "package", id)
	}
	return p, nil
}

// ListPackages returns packages filtered by status when status is non-empty.
func (db *DB) ListPackages(status PackageStatus, limit int) ([]*Package, error) {
	var rows *sql.Rows
	var err error
	if status != "" {
		rows, err = db.Query(db.Q(`SELECT `+packageSelectCols+` FROM packages WHERE status=? ORDER BY id LIMIT ?`), string(status), limit)
	} else {
		rows, err = db.Query(db.Q(`SELECT `+packageSelectCols+` FROM packages ORDER BY id LIMIT ?`), limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPackages(rows)
}

func (db *DB) ListPackagesByTruck(truckID int64) ([]*Package, error) {
	rows, err := db.Query(db.Q(`SELECT `+packageSelectCols+` FROM packages WHERE truck_id=? ORDER BY id`), truckID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPackages(rows)
}

func (db *DB) ListPackagesByTruckAndStatus(truckID int64, status PackageStatus) ([]*Package, error) {
	rows, err := db.Query(db.Q(`SELECT `+packageSelectCols+` FROM packages WHERE truck_id=? AND status=? ORDER BY id`), truckID, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPackages(rows)
}

// ListActivePackages returns every package not yet DELIVERED or FAILED.
func (db *DB) ListActivePackages() ([]*Package, error) {
	rows, err := db.Query(db.Q(`SELECT `+packageSelectCols+` FROM packages WHERE status NOT IN (?, ?) ORDER BY id`),
		string(PackageDelivered), string(PackageFailed))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPackages(rows)
}
