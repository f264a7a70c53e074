package registry

import (
	"encoding/binary"
)

// Keyspace layout:
// - pay/seq                 monotonic id counter (8 bytes big-endian)
// - pay/stream/{id_be8}     JSON stream record
// - pay/idem/{key}          idempotency key -> issued id (8 bytes big-endian)
var (
	counterKey   = []byte("pay/seq")
	streamPrefix = []byte("pay/stream/")
	idemPrefix   = []byte("pay/idem/")
)

func keyStream(id uint64) []byte {
	k := make([]byte, 0, len(streamPrefix)+8)
	k = append(k, streamPrefix...)
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], id)
	return append(k, b[:]...)
}

func keyIdempotency(key string) []byte {
	k := make([]byte, 0, len(idemPrefix)+len(key))
	k = append(k, idemPrefix...)
	return append(k, key...)
}
