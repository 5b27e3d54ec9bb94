package store

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS trucks (
    id          BIGSERIAL PRIMARY KEY,
    x           INTEGER NOT NULL DEFAULT 0,
    y           INTEGER NOT NULL DEFAULT 0,
    status      TEXT NOT NULL DEFAULT 'IDLE',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS warehouses (
    id          BIGINT PRIMARY KEY,
    x           INTEGER NOT NULL,
    y           INTEGER NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS packages (
    id            BIGINT PRIMARY KEY,
    truck_id      BIGINT REFERENCES trucks(id),
    warehouse_id  BIGINT REFERENCES warehouses(id),
    dest_x        INTEGER NOT NULL DEFAULT 0,
    dest_y        INTEGER NOT NULL DEFAULT 0,
    status        TEXT NOT NULL DEFAULT 'CREATED',
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_packages_truck ON packages(truck_id);
CREATE INDEX IF NOT EXISTS idx_packages_status ON packages(status);

CREATE TABLE IF NOT EXISTS message_log (
    id            BIGSERIAL PRIMARY KEY,
    seq_num       BIGINT NOT NULL,
    message_type  TEXT NOT NULL,
    direction     TEXT NOT NULL,
    endpoint      TEXT NOT NULL DEFAULT '',
    payload       BYTEA,
    attempts      INTEGER NOT NULL DEFAULT 0,
    created_at    TIMESTAMPTZ NOT NULL,
    acked_at      TIMESTAMPTZ
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_message_log_seq ON message_log(seq_num, direction);
CREATE INDEX IF NOT EXISTS idx_message_log_created ON message_log(created_at);

CREATE TABLE IF NOT EXISTS outbox (
    id          BIGSERIAL PRIMARY KEY,
    topic       TEXT NOT NULL,
    payload     BYTEA NOT NULL,
    msg_type    TEXT NOT NULL DEFAULT '',
    retries     INTEGER NOT NULL DEFAULT 0,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    sent_at     TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_outbox_pending ON outbox(sent_at) WHERE sent_at IS NULL;

CREATE TABLE IF NOT EXISTS admin_users (
    id            BIGSERIAL PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`
