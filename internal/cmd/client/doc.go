// Package client provides the `flowfi` command-line client.
//
// The CLI talks to the flowfi HTTP API to manage payment streams and
// accounts from a terminal. It is primarily intended for developers and
// operators.
//
// # Address configuration
//
// The HTTP base URL is discovered by the application that embeds the
// commands via a BaseURLFunc. When using the standalone binary, it defaults
// to http://127.0.0.1:8080 and can be overridden with FLOWFI_HTTP.
//
// # Authentication
//
// When the server runs in hmac auth mode, set FLOWFI_PRINCIPAL and
// FLOWFI_SECRET (hex) and the client signs each request body.
//
// Usage
//
//	flowfi account mint --token USDX --account alice --amount 100000
//	flowfi account balance --token USDX --account alice
//
//	flowfi stream create \
//	    --sender alice --recipient bob --token USDX \
//	    --amount 100000 --duration 3600
//
//	flowfi stream get --id 1
//	flowfi stream topup --sender alice --id 1 --amount 50000
//	flowfi stream withdraw --recipient bob --id 1
//	flowfi stream cancel --sender alice --id 1
//
//	# Follow lifecycle events; CEL filters run server-side
//	flowfi stream events --from earliest
//	flowfi stream events --filter 'event_type == "tokens_withdrawn"'
//	flowfi stream events --group indexer --limit 100
//
// Notes
//
//   - stream create generates a fresh idempotency key per invocation so a
//     retried command cannot double-fund a stream; pass --idempotency-key
//     to retry a specific earlier attempt.
//   - events prints the server-sent event stream as it arrives.
package client
