// Package registry is the durable store of payment stream records.
//
// It owns two pieces of state: one JSON-encoded Stream record per id, and the
// monotonic id counter. The counter is read from durable state and its
// increment is staged into the same Pebble batch that writes the new record,
// so an id can never be observed without its record, nor reissued after a
// restart. Records are soft-terminated only; nothing is ever deleted.
package registry
