package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/xxh3"

	"github.com/blackwell-systems/idiomine/internal/cooccur"
)

// SaveSnapshot writes the full accumulator state as one new snapshot in a
// single transaction and returns its metadata. Partially written snapshots
// never become visible: any failure rolls the whole snapshot back.
func (s *Store) SaveSnapshot(acc *cooccur.Accumulator[string, string], reason string) (*Snapshot, error) {
	st := acc.State()

	snap := &Snapshot{
		ID:                 uuid.NewString(),
		CreatedAt:          time.Now().UTC(),
		Reason:             reason,
		TotalRows:          st.TotalRowObservations,
		TotalColumns:       st.TotalColumnObservations,
		TotalCooccurrences: st.TotalCooccurrences,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO snapshots (id, created_at, reason, total_rows, total_columns, total_cooccurrences)
		VALUES (?, ?, ?, ?, ?, ?)
	`, snap.ID, snap.CreatedAt.Format(time.RFC3339), snap.Reason,
		snap.TotalRows, snap.TotalColumns, snap.TotalCooccurrences)
	if err != nil {
		return nil, fmt.Errorf("failed to insert snapshot %s: %w", snap.ID, err)
	}

	rowStmt, err := tx.Prepare(`INSERT INTO row_counts (snapshot_id, element, count) VALUES (?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare row insert: %w", err)
	}
	defer rowStmt.Close()
	for element, count := range st.RowCounts {
		if _, err := rowStmt.Exec(snap.ID, element, count); err != nil {
			return nil, fmt.Errorf("failed to insert row count %s: %w", element, err)
		}
	}

	colStmt, err := tx.Prepare(`INSERT INTO column_counts (snapshot_id, element, count) VALUES (?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare column insert: %w", err)
	}
	defer colStmt.Close()
	for element, count := range st.ColumnCounts {
		if _, err := colStmt.Exec(snap.ID, element, count); err != nil {
			return nil, fmt.Errorf("failed to insert column count %s: %w", element, err)
		}
	}

	jointStmt, err := tx.Prepare(`
		INSERT INTO joint_counts (snapshot_id, row_element, column_element, count)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare joint insert: %w", err)
	}
	defer jointStmt.Close()
	for _, cell := range st.Joint {
		if _, err := jointStmt.Exec(snap.ID, cell.Row, cell.Column, cell.Count); err != nil {
			return nil, fmt.Errorf("failed to insert joint cell (%s,%s): %w", cell.Row, cell.Column, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit snapshot %s: %w", snap.ID, err)
	}

	return snap, nil
}

// LoadSnapshot reconstructs an accumulator from the snapshot with the given
// ID. The reconstructed accumulator is validated against the counting
// invariants before being returned.
func (s *Store) LoadSnapshot(id string) (*cooccur.Accumulator[string, string], *Snapshot, error) {
	snap, err := s.GetSnapshot(id)
	if err != nil {
		return nil, nil, err
	}

	st := cooccur.State[string, string]{
		RowCounts:               make(map[string]int64),
		ColumnCounts:            make(map[string]int64),
		TotalRowObservations:    snap.TotalRows,
		TotalColumnObservations: snap.TotalColumns,
		TotalCooccurrences:      snap.TotalCooccurrences,
	}

	if err := s.readCounts("row_counts", id, st.RowCounts); err != nil {
		return nil, nil, err
	}
	if err := s.readCounts("column_counts", id, st.ColumnCounts); err != nil {
		return nil, nil, err
	}

	rows, err := s.db.Query(`
		SELECT row_element, column_element, count
		FROM joint_counts
		WHERE snapshot_id = ?
	`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query joint counts for %s: %w", id, err)
	}
	defer rows.Close()
	for rows.Next() {
		var cell cooccur.JointCell[string, string]
		if err := rows.Scan(&cell.Row, &cell.Column, &cell.Count); err != nil {
			return nil, nil, fmt.Errorf("failed to scan joint cell: %w", err)
		}
		st.Joint = append(st.Joint, cell)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate joint counts: %w", err)
	}

	acc, err := cooccur.FromState(st, xxh3.HashString, xxh3.HashString)
	if err != nil {
		return nil, nil, fmt.Errorf("snapshot %s is corrupt: %w", id, err)
	}

	return acc, snap, nil
}

// readCounts fills counts from one of the two marginal tables. The table
// name is always a compile-time constant, never user input.
func (s *Store) readCounts(table, snapshotID string, counts map[string]int64) error {
	rows, err := s.db.Query(
		fmt.Sprintf(`SELECT element, count FROM %s WHERE snapshot_id = ?`, table),
		snapshotID)
	if err != nil {
		return fmt.Errorf("failed to query %s for %s: %w", table, snapshotID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var element string
		var count int64
		if err := rows.Scan(&element, &count); err != nil {
			return fmt.Errorf("failed to scan %s: %w", table, err)
		}
		counts[element] = count
	}
	return rows.Err()
}

// GetSnapshot returns the metadata of the snapshot with the given ID.
func (s *Store) GetSnapshot(id string) (*Snapshot, error) {
	var snap Snapshot
	var createdAt string

	err := s.db.QueryRow(`
		SELECT id, created_at, reason, total_rows, total_columns, total_cooccurrences
		FROM snapshots
		WHERE id = ?
	`, id).Scan(&snap.ID, &createdAt, &snap.Reason,
		&snap.TotalRows, &snap.TotalColumns, &snap.TotalCooccurrences)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("snapshot %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot %s: %w", id, err)
	}

	snap.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at for %s: %w", id, err)
	}

	return &snap, nil
}

// LatestSnapshot returns the metadata of the most recently created
// snapshot, or an error if none exist.
func (s *Store) LatestSnapshot() (*Snapshot, error) {
	var id string
	err := s.db.QueryRow(`
		SELECT id FROM snapshots ORDER BY created_at DESC, id DESC LIMIT 1
	`).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no snapshots exist")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find latest snapshot: %w", err)
	}
	return s.GetSnapshot(id)
}

// ListSnapshots returns all snapshots, newest first.
func (s *Store) ListSnapshots() ([]*Snapshot, error) {
	rows, err := s.db.Query(`
		SELECT id, created_at, reason, total_rows, total_columns, total_cooccurrences
		FROM snapshots
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*Snapshot
	for rows.Next() {
		var snap Snapshot
		var createdAt string
		if err := rows.Scan(&snap.ID, &createdAt, &snap.Reason,
			&snap.TotalRows, &snap.TotalColumns, &snap.TotalCooccurrences); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snap.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at for %s: %w", snap.ID, err)
		}
		snapshots = append(snapshots, &snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}

	return snapshots, nil
}

// DeleteSnapshot removes a snapshot and all its counts (cascade).
func (s *Store) DeleteSnapshot(id string) error {
	result, err := s.db.Exec(`DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("snapshot %s not found", id)
	}
	return nil
}
