// Package eventlog implements the append-only, durable event channel that
// payment lifecycle events are published to. Each topic is a single totally
// ordered sequence of records; consumers (off-chain indexers) read from any
// position and may persist a named cursor to resume. Records are never
// trimmed: the log doubles as the audit trail for stream history.
package eventlog
