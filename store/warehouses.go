package store

import "fmt"

type Warehouse struct {
	ID int64 `json:"id"`
	X  int   `json:"x"`
	Y  int   `json:"y"`
}

func (db *DB) SaveWarehouse(w *Warehouse) error {
	_, err := db.Exec(db.Q(`INSERT INTO warehouses (id, x, y) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET x=excluded.x, y=excluded.y`), w.ID, w.X, w.Y)
	if err != nil {
		return fmt.Errorf("save warehouse %d: %w", w.ID, err)
	}
	return nil
}

func (db *DB) GetWarehouse(id int64) (*Warehouse, error) {
	var w Warehouse
	err := db.QueryRow(db.Q(`SELECT id, x, y FROM warehouses WHERE id=?`), id).Scan(&w.ID, &w.X, &w.Y)
	if err != nil {
		return nil, notFound(err, "warehouse", id)
	}
	return &w, nil
}

func (db *DB) ListWarehouses() ([]*Warehouse, error) {
	rows, err := db.Query(`SELECT id, x, y FROM warehouses ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var whs []*Warehouse
	for rows.Next() {
		var w Warehouse
		if err := rows.Scan(&w.ID, &w.X, &w.Y); err != nil {
			return nil, err
		}
		whs = append(whs, &w)
	}
	return whs, rows.Err()
}
