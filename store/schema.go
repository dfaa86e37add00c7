package store

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements that bootstrap a fresh store. It is
// applied verbatim once when no restorable snapshot exists. Referential
// integrity between the three tables is enforced by the loader's insertion
// order, not by engine-level foreign keys.
const Schema = `
CREATE TABLE IF NOT EXISTS sessions (
    session_id TEXT PRIMARY KEY,
    start_time DATETIME NOT NULL,
    end_time DATETIME NOT NULL,
    user_id TEXT NOT NULL,
    country TEXT,
    language TEXT,
    sentiment TEXT,
    escalated INTEGER NOT NULL DEFAULT 0,
    forwarded_hr INTEGER NOT NULL DEFAULT 0,
    category TEXT,
    summary TEXT,
    rating REAL,
    duration_seconds INTEGER NOT NULL,
    messages_sent INTEGER NOT NULL DEFAULT 0,
    messages_total INTEGER NOT NULL DEFAULT 0,
    avg_response_time REAL NOT NULL DEFAULT 0,
    tokens INTEGER NOT NULL DEFAULT 0,
    cost_cents INTEGER NOT NULL DEFAULT 0,
    cost_eur REAL NOT NULL DEFAULT 0,
    source_url TEXT
);

CREATE TABLE IF NOT EXISTS messages (
    session_id TEXT NOT NULL,
    ts DATETIME NOT NULL,
    role TEXT NOT NULL,
    content TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS questions (
    session_id TEXT NOT NULL,
    content TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_start ON sessions(start_time);
CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, ts);
CREATE INDEX IF NOT EXISTS idx_questions_session ON questions(session_id);
`
