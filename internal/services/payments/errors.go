package payments

import (
	"errors"

	"github.com/LabsCrypt/flowfi/internal/accrual"
	"github.com/LabsCrypt/flowfi/internal/authz"
)

var (
	// ErrInvalidAmount reports a zero or negative amount argument.
	ErrInvalidAmount = errors.New("payments: amount must be positive")
	// ErrStreamNotFound reports an id with no stream record.
	ErrStreamNotFound = errors.New("payments: stream not found")
	// ErrStreamInactive reports a mutation against a cancelled stream with
	// nothing left to claim.
	ErrStreamInactive = errors.New("payments: stream inactive")
	// ErrUnauthorized reports a caller acting as a principal the operation
	// does not accept.
	ErrUnauthorized = authz.ErrUnauthorized
	// ErrArithmeticOverflow aborts any operation whose accounting would
	// overflow int64.
	ErrArithmeticOverflow = accrual.ErrArithmeticOverflow
)
