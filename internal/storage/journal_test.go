package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestJournal_AppendAndRecent(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()
	at := time.Date(2025, 4, 21, 10, 0, 0, 0, time.UTC)

	entries := []Entry{
		{At: at, Session: "s1", Username: "alice", Command: "addmon", Payload: `{"type":"addmon"}`, Outcome: OutcomeOK},
		{At: at.Add(time.Second), Session: "s1", Username: "alice", Command: "attack", Payload: `{"type":"attack"}`, Outcome: OutcomeRejected, Detail: "Unknown weapon: bow"},
		{At: at.Add(2 * time.Second), Session: "s2", Username: "bob", Command: "timer", Payload: `{"type":"timer"}`, Outcome: OutcomeOK},
	}
	for _, e := range entries {
		if err := j.Append(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := j.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if got[0].Username != "bob" || got[1].Command != "attack" {
		t.Errorf("order = %+v", got)
	}
	if got[1].Detail != "Unknown weapon: bow" || !got[1].At.Equal(at.Add(time.Second)) {
		t.Errorf("entry = %+v", got[1])
	}
}

func TestJournal_Validation(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Error("empty path should fail")
	}

	j := openTestJournal(t)
	if err := j.Append(context.Background(), Entry{Username: "alice"}); err == nil {
		t.Error("entry without command should fail")
	}
	if _, err := j.Recent(context.Background(), 0); err == nil {
		t.Error("zero limit should fail")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := j.Append(ctx, Entry{Command: "timer", Outcome: OutcomeOK}); err == nil {
		t.Error("cancelled context should fail")
	}
}

func TestJournal_NilIsSafeToClose(t *testing.T) {
	var j *Journal
	if err := j.Close(); err != nil {
		t.Errorf("nil close = %v", err)
	}
}
