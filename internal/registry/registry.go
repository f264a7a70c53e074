package registry

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"

	pebblestore "github.com/LabsCrypt/flowfi/internal/storage/pebble"
)

// Registry provides durable access to stream records and the id counter.
type Registry struct {
	db *pebblestore.DB
}

// New returns a Registry over the given store.
func New(db *pebblestore.DB) *Registry {
	return &Registry{db: db}
}

// NextID reads the counter, increments it, stages the new value into b and
// returns the new id. Ids start at 1 and are never reissued: the increment
// commits atomically with the batch that first uses the id, so a crash either
// keeps both the record and the counter or neither.
func (r *Registry) NextID(b *pebble.Batch) (uint64, error) {
	var counter uint64
	cur, err := r.db.Get(counterKey)
	switch {
	case err == nil:
		if len(cur) != 8 {
			return 0, fmt.Errorf("registry: malformed counter (%d bytes)", len(cur))
		}
		counter = binary.BigEndian.Uint64(cur)
	case errors.Is(err, pebblestore.ErrNotFound):
		// First stream ever; counter defaults to 0.
	default:
		return 0, err
	}

	next := counter + 1
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], next)
	if err := b.Set(counterKey, buf[:], nil); err != nil {
		return 0, err
	}
	return next, nil
}

// CurrentID returns the highest issued id (0 when none).
func (r *Registry) CurrentID() (uint64, error) {
	cur, err := r.db.Get(counterKey)
	if errors.Is(err, pebblestore.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if len(cur) != 8 {
		return 0, fmt.Errorf("registry: malformed counter (%d bytes)", len(cur))
	}
	return binary.BigEndian.Uint64(cur), nil
}

// Get loads the stream record for id. The second return is false when no
// record exists.
func (r *Registry) Get(id uint64) (Stream, bool, error) {
	raw, err := r.db.Get(keyStream(id))
	if errors.Is(err, pebblestore.ErrNotFound) {
		return Stream{}, false, nil
	}
	if err != nil {
		return Stream{}, false, err
	}
	var s Stream
	if err := json.Unmarshal(raw, &s); err != nil {
		return Stream{}, false, fmt.Errorf("registry: decode stream %d: %w", id, err)
	}
	return s, true, nil
}

// Put stages the stream record for id into b.
func (r *Registry) Put(b *pebble.Batch, id uint64, s Stream) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return b.Set(keyStream(id), raw, nil)
}

// IdempotentID returns the id previously issued for the given idempotency
// key, if any.
func (r *Registry) IdempotentID(key string) (uint64, bool, error) {
	raw, err := r.db.Get(keyIdempotency(key))
	if errors.Is(err, pebblestore.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if len(raw) != 8 {
		return 0, false, fmt.Errorf("registry: malformed idempotency record (%d bytes)", len(raw))
	}
	return binary.BigEndian.Uint64(raw), true, nil
}

// PutIdempotentID stages the key -> id mapping into b.
func (r *Registry) PutIdempotentID(b *pebble.Batch, key string, id uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], id)
	return b.Set(keyIdempotency(key), buf[:], nil)
}

// Commit commits a staged batch with the store's durability policy.
func (r *Registry) Commit(ctx context.Context, b *pebble.Batch) error {
	return r.db.CommitBatch(ctx, b)
}
