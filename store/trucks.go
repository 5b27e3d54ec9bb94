package store

import (
	"database/sql"
	"fmt"
	"time"
)

type TruckStatus string

const (
	TruckIdle            TruckStatus = "IDLE"
	TruckTraveling       TruckStatus = "TRAVELING"
	TruckArriveWarehouse TruckStatus = "ARRIVE_WAREHOUSE"
	TruckLoading         TruckStatus = "LOADING"
	TruckDelivering      TruckStatus = "DELIVERING"
)

type Truck struct {
	ID        int64       `json:"id"`
	X         int         `json:"x"`
	Y         int         `json:"y"`
	Status    TruckStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

const truckSelectCols = `id, x, y, status, created_at, updated_at`

func scanTruck(row interface{ Scan(...any) error }) (*Truck, error) {
	var t Truck
	var status string
	var createdAt, updatedAt any
	if err := row.Scan(&t.ID, &t.X, &t.Y, &status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	t.Status = TruckStatus(status)
	t.CreatedAt = parseTime(createdAt)
	t.UpdatedAt = parseTime(updatedAt)
	return &t, nil
}

func scanTrucks(rows *sql.Rows) ([]*Truck, error) {
	var trucks []*Truck
	for rows.Next() {
		t, err := scanTruck(rows)
		if err != nil {
			return nil, err
		}
		trucks = append(trucks, t)
	}
	return trucks, rows.Err()
}

// CreateTruck inserts t. A zero ID lets the database assign one.
func (db *DB) CreateTruck(t *Truck) error {
	if t.Status == "" {
		t.Status = TruckIdle
	}
	if t.ID != 0 {
		_, err := db.Exec(db.Q(`INSERT INTO trucks (id, x, y, status) VALUES (?, ?, ?, ?)`),
			t.ID, t.X, t.Y, string(t.Status))
		if err != nil {
			return fmt.Errorf("create truck %d: %w", t.ID, err)
		}
		return nil
	}
	id, err := db.insertID(`INSERT INTO trucks (x, y, status) VALUES (?, ?, ?)`, t.X, t.Y, string(t.Status))
	if err != nil {
		return fmt.Errorf("create truck: %w", err)
	}
	t.ID = id
	return nil
}

func (db *DB) GetTruck(id int64) (*Truck, error) {
	row := db.QueryRow(db.Q(`SELECT `+truckSelectCols+` FROM trucks WHERE id=?`), id)
	t, err := scanTruck(row)
	if err != nil {
		return nil, notFound(err, "truck", id)
	}
	return t, nil
}

func (db *DB) ListTrucks() ([]*Truck, error) {
	rows, err := db.Query(`SELECT ` + truckSelectCols + ` FROM trucks ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTrucks(rows)
}

// SaveTruck upserts position and status.
func (db *DB) SaveTruck(t *Truck) error {
	_, err := db.Exec(db.Q(`INSERT INTO trucks (id, x, y, status) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET x=excluded.x, y=excluded.y, status=excluded.status, updated_at=datetime('now','localtime')`),
		t.ID, t.X, t.Y, string(t.Status))
	if err != nil {
		return fmt.Errorf("save truck %d: %w", t.ID, err)
	}
	return nil
}
