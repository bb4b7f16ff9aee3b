package store

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
    id TEXT PRIMARY KEY,
    created_at TIMESTAMP NOT NULL,
    reason TEXT,
    total_rows INTEGER NOT NULL,
    total_columns INTEGER NOT NULL,
    total_cooccurrences INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS row_counts (
    snapshot_id TEXT NOT NULL,
    element TEXT NOT NULL,
    count INTEGER NOT NULL,
    PRIMARY KEY (snapshot_id, element),
    FOREIGN KEY (snapshot_id) REFERENCES snapshots(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS column_counts (
    snapshot_id TEXT NOT NULL,
    element TEXT NOT NULL,
    count INTEGER NOT NULL,
    PRIMARY KEY (snapshot_id, element),
    FOREIGN KEY (snapshot_id) REFERENCES snapshots(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS joint_counts (
    snapshot_id TEXT NOT NULL,
    row_element TEXT NOT NULL,
    column_element TEXT NOT NULL,
    count INTEGER NOT NULL,
    PRIMARY KEY (snapshot_id, row_element, column_element),
    FOREIGN KEY (snapshot_id) REFERENCES snapshots(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_joint_by_column
    ON joint_counts(snapshot_id, column_element);

CREATE INDEX IF NOT EXISTS idx_snapshots_created
    ON snapshots(created_at);
`
