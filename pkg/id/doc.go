// Package id generates lexicographically sortable request identifiers.
//
// These are tracing ids for logs and HTTP responses only. Stream ids are
// issued by the registry's durable counter and must never come from this
// package.
package id
