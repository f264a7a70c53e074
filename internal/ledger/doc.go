// Package ledger keeps per-account token balances and moves funds between
// accounts atomically.
//
// It stands in for the external token contract the payment operations call
// out to: a transfer either debits and credits in one committed batch or
// fails without touching either balance. Insufficient funds abort the
// transfer, which in turn aborts whatever payment operation requested it.
package ledger
