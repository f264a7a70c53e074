package eventlog

import (
	"encoding/binary"
)

// Keyspace helpers for Pebble keys.
//
// Layout (byte-wise, lexicographically sortable):
// - ev/{topic}/m                  last assigned sequence
// - ev/{topic}/e/{seq_be8}        one encoded record per sequence
// - ev/cursor/{topic}/{group}     durable consumer position
var (
	evPrefix     = []byte("ev/")
	cursorPrefix = []byte("ev/cursor/")
	metaSuffix   = []byte("/m")
	entrySeg     = []byte("/e/")
	sep          = byte('/')
)

func appendBE8(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}

// KeyLogMeta builds the topic metadata key.
func KeyLogMeta(topic string) []byte {
	k := make([]byte, 0, len(topic)+8)
	k = append(k, evPrefix...)
	k = append(k, topic...)
	k = append(k, metaSuffix...)
	return k
}

// KeyLogEntry builds the entry key with a big-endian sequence so that byte
// order equals append order.
func KeyLogEntry(topic string, seq uint64) []byte {
	k := make([]byte, 0, len(topic)+16)
	k = append(k, evPrefix...)
	k = append(k, topic...)
	k = append(k, entrySeg...)
	k = appendBE8(k, seq)
	return k
}

// KeyCursor builds the durable cursor key for a consumer group.
func KeyCursor(topic, group string) []byte {
	k := make([]byte, 0, len(topic)+len(group)+16)
	k = append(k, cursorPrefix...)
	k = append(k, topic...)
	k = append(k, sep)
	k = append(k, group...)
	return k
}
