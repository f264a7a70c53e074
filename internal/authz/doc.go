// Package authz gates mutating payment operations on caller identity.
//
// Callers present credentials (a principal plus an HMAC signature over the
// request body) which the transport layer attaches to the request context.
// Each mutating operation then asserts that the authenticated principal is
// the specific party the operation requires, before any state is read or
// funds move.
package authz
