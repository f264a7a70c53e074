package eventlog

import (
	"context"
	"encoding/binary"
	"errors"
	"sync"

	pebblestore "github.com/LabsCrypt/flowfi/internal/storage/pebble"
)

// ErrNotFound reports a missing event.
var ErrNotFound = errors.New("event not found")

// AppendRecord represents a single appendable event.
type AppendRecord struct {
	Header  []byte
	Payload []byte
}

// Log provides append-only operations for one topic.
type Log struct {
	db    *pebblestore.DB
	topic string

	mu       sync.Mutex
	lastSeq  uint64
	notifyCh chan struct{}
}

// OpenLog initializes a Log and loads the last sequence from metadata (if any).
func OpenLog(db *pebblestore.DB, topic string) (*Log, error) {
	l := &Log{db: db, topic: topic, notifyCh: make(chan struct{})}
	meta, err := db.Get(KeyLogMeta(topic))
	if err == nil && len(meta) >= 8 {
		l.lastSeq = binary.BigEndian.Uint64(meta[:8])
	}
	return l, nil
}

// Topic returns the log's topic name.
func (l *Log) Topic() string { return l.topic }

// Append appends the provided records as a single atomic batch and returns
// the assigned sequence numbers. Sequences start at 1.
func (l *Log) Append(ctx context.Context, recs []AppendRecord) ([]uint64, error) {
	if len(recs) == 0 {
		return nil, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	b := l.db.NewBatch()
	defer b.Close()

	// lastSeq only advances once the batch commits.
	start := l.lastSeq
	seqs := make([]uint64, len(recs))
	for i, r := range recs {
		seq := start + uint64(i) + 1
		val := EncodeRecord(r.Header, r.Payload)
		if err := b.Set(KeyLogEntry(l.topic, seq), val, nil); err != nil {
			return nil, err
		}
		seqs[i] = seq
	}

	var meta [8]byte
	binary.BigEndian.PutUint64(meta[:], seqs[len(seqs)-1])
	if err := b.Set(KeyLogMeta(l.topic), meta[:], nil); err != nil {
		return nil, err
	}

	if err := l.db.CommitBatch(ctx, b); err != nil {
		return nil, err
	}
	l.lastSeq = seqs[len(seqs)-1]
	// Wake any blocked readers.
	close(l.notifyCh)
	l.notifyCh = make(chan struct{})
	return seqs, nil
}

// LastSeq returns the highest assigned sequence (0 when the log is empty).
func (l *Log) LastSeq() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastSeq
}
