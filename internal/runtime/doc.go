// Package runtime wires storage, configuration, the ledger clock, and
// metrics into a single-node instance the services and transports share.
package runtime
