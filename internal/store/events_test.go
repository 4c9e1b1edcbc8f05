package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestInsertAndQuerySessionEvents(t *testing.T) {
	db := openTestDB(t)

	events := []*SessionEventRow{
		{SessionID: "aaa", EventName: "SessionStart", Source: "startup", CWD: "/work/one"},
		{SessionID: "bbb", EventName: "SessionStart", Source: "resume"},
		{SessionID: "aaa", EventName: "SessionStart", Source: "compact", TranscriptPath: "/tmp/t.jsonl"},
	}
	for _, ev := range events {
		require.NoError(t, db.InsertSessionEvent(ev))
		require.NotZero(t, ev.ID)
		require.NotEmpty(t, ev.ReceivedAt)
	}

	all, err := db.QuerySessionEvents(EventFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	bySession, err := db.QuerySessionEvents(EventFilter{SessionID: "aaa"})
	require.NoError(t, err)
	require.Len(t, bySession, 2)
	for _, ev := range bySession {
		require.Equal(t, "aaa", ev.SessionID)
	}

	limited, err := db.QuerySessionEvents(EventFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
}

func TestQuerySessionEvents_DaysFilter(t *testing.T) {
	db := openTestDB(t)

	old := &SessionEventRow{
		ReceivedAt: time.Now().AddDate(0, 0, -10).UTC().Format(time.RFC3339),
		SessionID:  "old",
		EventName:  "SessionStart",
	}
	recent := &SessionEventRow{SessionID: "recent", EventName: "SessionStart"}
	require.NoError(t, db.InsertSessionEvent(old))
	require.NoError(t, db.InsertSessionEvent(recent))

	rows, err := db.QuerySessionEvents(EventFilter{Days: 7})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "recent", rows[0].SessionID)
}

func TestPruneSessionEvents(t *testing.T) {
	db := openTestDB(t)

	old := &SessionEventRow{
		ReceivedAt: time.Now().AddDate(0, 0, -30).UTC().Format(time.RFC3339),
		SessionID:  "old",
		EventName:  "SessionStart",
	}
	recent := &SessionEventRow{SessionID: "recent", EventName: "SessionStart"}
	require.NoError(t, db.InsertSessionEvent(old))
	require.NoError(t, db.InsertSessionEvent(recent))

	pruned, err := db.PruneSessionEvents(7)
	require.NoError(t, err)
	require.EqualValues(t, 1, pruned)

	rows, err := db.QuerySessionEvents(EventFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "recent", rows[0].SessionID)

	// days <= 0 disables pruning entirely.
	pruned, err = db.PruneSessionEvents(0)
	require.NoError(t, err)
	require.Zero(t, pruned)
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Migrate())
	require.NoError(t, db.Migrate())
}
