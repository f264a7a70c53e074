// Package accrual computes how much of a stream's escrow the recipient may
// claim at a given instant.
//
// The computation is pure: it never touches storage and never mutates the
// record it is handed. All arithmetic is checked; an overflowing intermediate
// aborts the caller's operation rather than silently wrapping, since a wrapped
// product here would mint or destroy funds.
package accrual
