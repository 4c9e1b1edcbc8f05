package store

import (
	"database/sql"
	"fmt"
	"time"
)

// SessionEventRow is a recorded session lifecycle notification.
type SessionEventRow struct {
	ID             int64  `json:"id"`
	ReceivedAt     string `json:"received_at"`
	SessionID      string `json:"session_id"`
	EventName      string `json:"event_name"`
	Source         string `json:"source,omitempty"`
	CWD            string `json:"cwd,omitempty"`
	TranscriptPath string `json:"transcript_path,omitempty"`
}

// InsertSessionEvent records a received event. ReceivedAt defaults to now
// when empty.
func (db *DB) InsertSessionEvent(ev *SessionEventRow) error {
	if ev.ReceivedAt == "" {
		ev.ReceivedAt = time.Now().UTC().Format(time.RFC3339)
	}

	res, err := db.conn.Exec(`
		INSERT INTO session_events (received_at, session_id, event_name, source, cwd, transcript_path)
		VALUES (?, ?, ?, ?, ?, ?)`,
		ev.ReceivedAt, ev.SessionID, ev.EventName, ev.Source, ev.CWD, ev.TranscriptPath,
	)
	if err != nil {
		return fmt.Errorf("inserting session event: %w", err)
	}

	ev.ID, _ = res.LastInsertId()
	return nil
}

// EventFilter narrows QuerySessionEvents results. Zero values mean no filter.
type EventFilter struct {
	SessionID string
	Days      int
	Limit     int
}

// QuerySessionEvents returns recorded events, newest first.
func (db *DB) QuerySessionEvents(f EventFilter) ([]SessionEventRow, error) {
	query := "SELECT id, received_at, session_id, event_name, source, cwd, transcript_path FROM session_events WHERE 1=1"
	var args []any

	if f.SessionID != "" {
		query += " AND session_id = ?"
		args = append(args, f.SessionID)
	}
	if f.Days > 0 {
		cutoff := time.Now().AddDate(0, 0, -f.Days).UTC().Format(time.RFC3339)
		query += " AND received_at >= ?"
		args = append(args, cutoff)
	}

	query += " ORDER BY received_at DESC, id DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []SessionEventRow
	for rows.Next() {
		var r SessionEventRow
		var source, cwd, transcript sql.NullString
		if err := rows.Scan(&r.ID, &r.ReceivedAt, &r.SessionID, &r.EventName, &source, &cwd, &transcript); err != nil {
			return nil, err
		}
		r.Source = source.String
		r.CWD = cwd.String
		r.TranscriptPath = transcript.String
		results = append(results, r)
	}
	return results, rows.Err()
}

// PruneSessionEvents deletes events older than the given number of days and
// returns how many rows were removed.
func (db *DB) PruneSessionEvents(days int) (int64, error) {
	if days <= 0 {
		return 0, nil
	}
	cutoff := time.Now().AddDate(0, 0, -days).UTC().Format(time.RFC3339)
	res, err := db.conn.Exec("DELETE FROM session_events WHERE received_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning session events: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
