package eventlog

import (
	"encoding/binary"

	"github.com/cockroachdb/pebble"
)

// Token encodes a log position as seq (8 bytes big-endian). The zero Token
// means "from the first entry".
type Token [8]byte

// TokenFromSeq builds a token pointing at seq.
func TokenFromSeq(seq uint64) Token {
	var t Token
	binary.BigEndian.PutUint64(t[:], seq)
	return t
}

// Seq returns the sequence the token points at.
func (t Token) Seq() uint64 { return binary.BigEndian.Uint64(t[:]) }

// ReadOptions controls a Read scan.
type ReadOptions struct {
	Start   Token // if zero, begin from the first entry
	Limit   int
	Reverse bool
}

// Item is a decoded log entry.
type Item struct {
	Seq     uint64
	Header  []byte
	Payload []byte
}

// Read returns up to Limit items starting at Start (inclusive), plus the
// token of the next unread entry. Reverse scans descending.
func (l *Log) Read(opts ReadOptions) ([]Item, Token) {
	startSeq := opts.Start.Seq()
	startKey := KeyLogEntry(l.topic, startSeq)
	low := KeyLogEntry(l.topic, 0)
	hi := KeyLogEntry(l.topic, ^uint64(0))

	items := make([]Item, 0, maxInt(1, opts.Limit))
	var next Token

	iter, err := l.db.NewIter(&pebble.IterOptions{LowerBound: low, UpperBound: append(hi, 0x00)})
	if err != nil {
		return items, next
	}
	defer iter.Close()

	if opts.Reverse {
		if startSeq == 0 {
			if !iter.Last() {
				return items, next
			}
		} else if !iter.SeekLT(startKey) {
			if !iter.Last() {
				return items, next
			}
		}
		for iter.Valid() && (opts.Limit == 0 || len(items) < opts.Limit) {
			seq := seqFromEntryKey(iter.Key())
			if dec, ok := DecodeRecord(iter.Value()); ok {
				items = append(items, Item{Seq: seq, Header: dec.Header, Payload: dec.Payload})
			}
			if !iter.Prev() {
				break
			}
		}
		if iter.Valid() {
			next = TokenFromSeq(seqFromEntryKey(iter.Key()))
		}
		return items, next
	}

	if startSeq == 0 {
		if !iter.First() {
			return items, next
		}
	} else if !iter.SeekGE(startKey) {
		return items, next
	}
	for iter.Valid() && (opts.Limit == 0 || len(items) < opts.Limit) {
		seq := seqFromEntryKey(iter.Key())
		if dec, ok := DecodeRecord(iter.Value()); ok {
			items = append(items, Item{Seq: seq, Header: dec.Header, Payload: dec.Payload})
		}
		if !iter.Next() {
			break
		}
	}
	if iter.Valid() {
		next = TokenFromSeq(seqFromEntryKey(iter.Key()))
	}
	return items, next
}

// seqFromEntryKey extracts the trailing big-endian sequence from an entry key.
func seqFromEntryKey(key []byte) uint64 {
	return binary.BigEndian.Uint64(key[len(key)-8:])
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
