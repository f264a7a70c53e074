// Package httpserver exposes the payments service over HTTP: JSON endpoints
// for the stream lifecycle and accounts, an SSE tail over the event log, a
// health probe, and Prometheus metrics.
//
// The server owns the invocation lock: mutating handlers run one at a time,
// which is the serialization the payments service is documented to rely on.
// Caller identity arrives as X-Flowfi-Principal plus an X-Flowfi-Signature
// HMAC over the raw request body and is attached to the request context for
// the configured authorizer to verify.
package httpserver
