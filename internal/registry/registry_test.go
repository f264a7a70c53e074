package registry

import (
	"context"
	"testing"

	pebblestore "github.com/LabsCrypt/flowfi/internal/storage/pebble"
)

func openTestDB(t *testing.T, dir string) *pebblestore.DB {
	t.Helper()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: dir, Fsync: pebblestore.FsyncModeNever})
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	return db
}

func TestNextIDStartsAtOneAndIncrements(t *testing.T) {
	db := openTestDB(t, t.TempDir())
	defer db.Close()
	r := New(db)

	for want := uint64(1); want <= 3; want++ {
		b := db.NewBatch()
		id, err := r.NextID(b)
		if err != nil {
			t.Fatalf("next id: %v", err)
		}
		if id != want {
			t.Fatalf("id = %d, want %d", id, want)
		}
		if err := r.Commit(context.Background(), b); err != nil {
			t.Fatalf("commit: %v", err)
		}
	}

	cur, err := r.CurrentID()
	if err != nil {
		t.Fatalf("current id: %v", err)
	}
	if cur != 3 {
		t.Fatalf("current id = %d, want 3", cur)
	}
}

func TestNextIDNotIssuedWithoutCommit(t *testing.T) {
	db := openTestDB(t, t.TempDir())
	defer db.Close()
	r := New(db)

	b := db.NewBatch()
	if _, err := r.NextID(b); err != nil {
		t.Fatalf("next id: %v", err)
	}
	b.Close() // abandoned

	b2 := db.NewBatch()
	id, err := r.NextID(b2)
	if err != nil {
		t.Fatalf("next id: %v", err)
	}
	if id != 1 {
		t.Fatalf("id after abandoned batch = %d, want 1", id)
	}
	if err := r.Commit(context.Background(), b2); err != nil {
		t.Fatalf("commit: %v", err)
	}
}

func TestCounterSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	db := openTestDB(t, dir)
	r := New(db)

	b := db.NewBatch()
	id, err := r.NextID(b)
	if err != nil {
		t.Fatalf("next id: %v", err)
	}
	if err := r.Put(b, id, Stream{Sender: "alice", Recipient: "bob", Token: "USDX", IsActive: true}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := r.Commit(context.Background(), b); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	db = openTestDB(t, dir)
	defer db.Close()
	r = New(db)

	s, ok, err := r.Get(id)
	if err != nil || !ok {
		t.Fatalf("get after reopen: ok=%v err=%v", ok, err)
	}
	if s.Sender != "alice" || !s.IsActive {
		t.Fatalf("unexpected record after reopen: %+v", s)
	}

	b = db.NewBatch()
	next, err := r.NextID(b)
	if err != nil {
		t.Fatalf("next id after reopen: %v", err)
	}
	if next != 2 {
		t.Fatalf("id after reopen = %d, want 2", next)
	}
	b.Close()
}

func TestPutGetRoundTrip(t *testing.T) {
	db := openTestDB(t, t.TempDir())
	defer db.Close()
	r := New(db)

	want := Stream{
		Sender:          "alice",
		Recipient:       "bob",
		Token:           "USDX",
		RatePerSecond:   10,
		DepositedAmount: 1000,
		WithdrawnAmount: 250,
		StartTime:       100,
		LastUpdateTime:  125,
		IsActive:        true,
	}
	b := db.NewBatch()
	if err := r.Put(b, 7, want); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := r.Commit(context.Background(), b); err != nil {
		t.Fatalf("commit: %v", err)
	}

	got, ok, err := r.Get(7)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
	if got.Remaining() != 750 {
		t.Fatalf("remaining = %d, want 750", got.Remaining())
	}
}

func TestGetMissing(t *testing.T) {
	db := openTestDB(t, t.TempDir())
	defer db.Close()
	r := New(db)

	_, ok, err := r.Get(42)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatal("expected missing stream")
	}
}

func TestIdempotencyMapping(t *testing.T) {
	db := openTestDB(t, t.TempDir())
	defer db.Close()
	r := New(db)

	if _, ok, err := r.IdempotentID("req-1"); err != nil || ok {
		t.Fatalf("lookup before put: ok=%v err=%v", ok, err)
	}

	b := db.NewBatch()
	if err := r.PutIdempotentID(b, "req-1", 9); err != nil {
		t.Fatalf("put idempotency: %v", err)
	}
	if err := r.Commit(context.Background(), b); err != nil {
		t.Fatalf("commit: %v", err)
	}

	id, ok, err := r.IdempotentID("req-1")
	if err != nil || !ok {
		t.Fatalf("lookup after put: ok=%v err=%v", ok, err)
	}
	if id != 9 {
		t.Fatalf("id = %d, want 9", id)
	}
}
