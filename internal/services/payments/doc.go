// Package payments implements the lifecycle of continuous token streams:
// create, top-up, withdraw, cancel, and read.
//
// Every mutating operation follows the same staging: authorize, validate and
// compute amounts against the current record, issue the external token
// transfer, and only then commit the mutated record in one durable batch and
// emit the lifecycle event. A failed transfer therefore aborts with zero
// state change, and the durable mutation is always the last step.
//
// The service takes no locks of its own. The hosting transport serializes
// mutating invocations; a token-transfer hook that calls back into the
// service runs inline within the current invocation and observes the
// pre-commit record, exactly as a reentrant contract call would.
package payments
