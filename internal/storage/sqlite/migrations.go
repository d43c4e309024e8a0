package sqlite

// schema contains the database schema DDL.
const schema = `
-- Mirror devices
CREATE TABLE IF NOT EXISTS devices (
    id TEXT PRIMARY KEY,
    ip TEXT NOT NULL,
    name TEXT,
    type TEXT DEFAULT 'pixoo64',
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    last_seen DATETIME
);

-- External feed state
CREATE TABLE IF NOT EXISTS feed_state (
    feed_id TEXT PRIMARY KEY,
    last_run DATETIME,
    last_data TEXT,
    error_count INTEGER DEFAULT 0,
    last_error TEXT
);

-- Sensor readings
CREATE TABLE IF NOT EXISTS readings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    metric TEXT NOT NULL,
    timestamp DATETIME NOT NULL,
    value REAL NOT NULL,
    UNIQUE(metric, timestamp)
);
CREATE INDEX IF NOT EXISTS idx_readings_metric_time ON readings(metric, timestamp);

-- Frame cache
CREATE TABLE IF NOT EXISTS frame_cache (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    mode TEXT NOT NULL DEFAULT '',
    frame_data BLOB NOT NULL,
    generated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`
