package store

import (
	"database/sql"
	"fmt"
	"time"
)

type Direction string

const (
	Outgoing Direction = "OUTGOING"
	Incoming Direction = "INCOMING"
)

// MessageLog records one partner-facing message. Outgoing entries keep the
// endpoint and payload so unacknowledged sends can be replayed.
type MessageLog struct {
	ID          int64      `json:"id"`
	SeqNum      int64      `json:"seq_num"`
	MessageType string     `json:"message_type"`
	Direction   Direction  `json:"direction"`
	Endpoint    string     `json:"endpoint,omitempty"`
	Payload     []byte     `json:"-"`
	Attempts    int        `json:"attempts"`
	CreatedAt   time.Time  `json:"created_at"`
	AckedAt     *time.Time `json:"acked_at,omitempty"`
}

const messageLogSelectCols = `id, seq_num, message_type, direction, endpoint, payload, attempts, created_at, acked_at`

func scanMessageLog(row interface{ Scan(...any) error }) (*MessageLog, error) {
	var m MessageLog
	var direction string
	var createdAt, ackedAt any
	err := row.Scan(&m.ID, &m.SeqNum, &m.MessageType, &direction, &m.Endpoint, &m.Payload, &m.Attempts, &createdAt, &ackedAt)
	if err != nil {
		return nil, err
	}
	m.Direction = Direction(direction)
	m.CreatedAt = parseTime(createdAt)
	m.AckedAt = parseTimePtr(ackedAt)
	return &m, nil
}

func scanMessageLogs(rows *sql.Rows) ([]*MessageLog, error) {
	var logs []*MessageLog
	for rows.Next() {
		m, err := scanMessageLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, m)
	}
	return logs, rows.Err()
}

// InsertMessageLog records m. A second entry for the same sequence number and
// direction is ignored.
func (db *DB) InsertMessageLog(m *MessageLog) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	_, err := db.Exec(db.Q(`INSERT INTO message_log (seq_num, message_type, direction, endpoint, payload, attempts, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?) ON CONFLICT(seq_num, direction) DO NOTHING`),
		m.SeqNum, m.MessageType, string(m.Direction), m.Endpoint, m.Payload, m.Attempts, db.ts(m.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert message log %d: %w", m.SeqNum, err)
	}
	return nil
}

// UpdateMessageDelivery stores the endpoint and payload of an outgoing entry.
func (db *DB) UpdateMessageDelivery(seqNum int64, endpoint string, payload []byte) error {
	_, err := db.Exec(db.Q(`UPDATE message_log SET endpoint=?, payload=? WHERE seq_num=? AND direction=?`),
		endpoint, payload, seqNum, string(Outgoing))
	return err
}

func (db *DB) GetMessageLog(seqNum int64, dir Direction) (*MessageLog, error) {
	row := db.QueryRow(db.Q(`SELECT `+messageLogSelectCols+` FROM message_log WHERE seq_num=? AND direction=?`), seqNum, string(dir))
	m, err := scanMessageLog(row)
	if err != nil {
		return nil, notFound(err, "message", seqNum)
	}
	return m, nil
}

// AckMessageLog sets acked_at and reports whether a matching entry existed.
func (db *DB) AckMessageLog(seqNum int64, dir Direction, at time.Time) (bool, error) {
	result, err := db.Exec(db.Q(`UPDATE message_log SET acked_at=? WHERE seq_num=? AND direction=?`),
		db.ts(at), seqNum, string(dir))
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	return n > 0, err
}

func (db *DB) IncrementMessageAttempts(seqNum int64, dir Direction, n int) error {
	_, err := db.Exec(db.Q(`UPDATE message_log SET attempts=attempts+? WHERE seq_num=? AND direction=?`),
		n, seqNum, string(dir))
	return err
}

// ListUnackedMessages returns unacknowledged entries created between
// now-maxAge and now-minAge.
func (db *DB) ListUnackedMessages(dir Direction, now time.Time, minAge, maxAge time.Duration, limit int) ([]*MessageLog, error) {
	rows, err := db.Query(db.Q(`SELECT `+messageLogSelectCols+` FROM message_log
		WHERE direction=? AND acked_at IS NULL AND created_at <= ? AND created_at >= ? ORDER BY seq_num LIMIT ?`),
		string(dir), db.ts(now.Add(-minAge)), db.ts(now.Add(-maxAge)), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessageLogs(rows)
}

// ListMessageLog returns the newest entries first, optionally filtered by direction.
func (db *DB) ListMessageLog(dir Direction, limit int) ([]*MessageLog, error) {
	var rows *sql.Rows
	var err error
	if dir != "" {
		rows, err = db.Query(db.Q(`SELECT `+messageLogSelectCols+` FROM message_log WHERE direction=? ORDER BY id DESC LIMIT ?`), string(dir), limit)
	} else {
		rows, err = db.Query(db.Q(`SELECT `+messageLogSelectCols+` FROM message_log ORDER BY id DESC LIMIT ?`), limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessageLogs(rows)
}

func (db *DB) DeleteMessageLogBefore(cutoff time.Time) (int64, error) {
	result, err := db.Exec(db.Q(`DELETE FROM message_log WHERE created_at < ?`), db.ts(cutoff))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// MaxSeqNum returns the highest recorded sequence number for dir, or 0.
func (db *DB) MaxSeqNum(dir Direction) (int64, error) {
	var maxSeq sql.NullInt64
	err := db.QueryRow(db.Q(`SELECT MAX(seq_num) FROM message_log WHERE direction=?`), string(dir)).Scan(&maxSeq)
	if err != nil {
		return 0, err
	}
	return maxSeq.Int64, nil
}
