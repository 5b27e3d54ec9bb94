package store

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS trucks (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    x           INTEGER NOT NULL DEFAULT 0,
    y           INTEGER NOT NULL DEFAULT 0,
    status      TEXT NOT NULL DEFAULT 'IDLE',
    created_at  TEXT NOT NULL DEFAULT (datetime('now','localtime')),
    updated_at  TEXT NOT NULL DEFAULT (datetime('now','localtime'))
);

CREATE TABLE IF NOT EXISTS warehouses (
    id          INTEGER PRIMARY KEY,
    x           INTEGER NOT NULL,
    y           INTEGER NOT NULL,
    created_at  TEXT NOT NULL DEFAULT (datetime('now','localtime'))
);

CREATE TABLE IF NOT EXISTS packages (
    id            INTEGER PRIMARY KEY,
    truck_id      INTEGER REFERENCES trucks(id),
    warehouse_id  INTEGER REFERENCES warehouses(id),
    dest_x        INTEGER NOT NULL DEFAULT 0,
    dest_y        INTEGER NOT NULL DEFAULT 0,
    status        TEXT NOT NULL DEFAULT 'CREATED',
    created_at    TEXT NOT NULL DEFAULT (datetime('now','localtime')),
    updated_at    TEXT NOT NULL DEFAULT (datetime('now','localtime'))
);
CREATE INDEX IF NOT EXISTS idx_packages_truck ON packages(truck_id);
CREATE INDEX IF NOT EXISTS idx_packages_status ON packages(status);

CREATE TABLE IF NOT EXISTS message_log (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    seq_num       INTEGER NOT NULL,
    message_type  TEXT NOT NULL,
    direction     TEXT NOT NULL,
    endpoint      TEXT NOT NULL DEFAULT '',
    payload       BLOB,
    attempts      INTEGER NOT NULL DEFAULT 0,
    created_at    TEXT NOT NULL,
    acked_at      TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_message_log_seq ON message_log(seq_num, direction);
CREATE INDEX IF NOT EXISTS idx_message_log_created ON message_log(created_at);

CREATE TABLE IF NOT EXISTS outbox (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    topic       TEXT NOT NULL,
    payload     BLOB NOT NULL,
    msg_type    TEXT NOT NULL DEFAULT '',
    retries     INTEGER NOT NULL DEFAULT 0,
    created_at  TEXT NOT NULL DEFAULT (datetime('now','localtime')),
    sent_at     TEXT
);
CREATE INDEX IF NOT EXISTS idx_outbox_pending ON outbox(sent_at);

CREATE TABLE IF NOT EXISTS admin_users (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    TEXT NOT NULL DEFAULT (datetime('now','localtime'))
);
`
