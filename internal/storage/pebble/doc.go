// Package pebblestore wraps a Pebble database with the durability policy and
// batch helpers the flowfi runtime relies on. All durable state — stream
// records, the id counter, token balances, and the payments event log — lives
// in a single Pebble instance so one batch commit is one atomic step.
package pebblestore
