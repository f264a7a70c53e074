package accrual

import (
	"errors"
	"math"

	"github.com/LabsCrypt/flowfi/internal/registry"
)

// ErrArithmeticOverflow reports an accrual computation whose intermediate
// values do not fit in int64. The surrounding operation must abort without
// mutating state.
var ErrArithmeticOverflow = errors.New("accrual: arithmetic overflow")

// RatePerSecond derives a stream's accrual rate from its initial deposit and
// intended duration in seconds. A zero duration yields a rate equal to the
// full amount, making the entire deposit claimable after the first elapsed
// second. Division truncates; any sub-rate remainder becomes claimable only
// through the deposit cap at stream end.
func RatePerSecond(amount int64, duration uint64) int64 {
	if duration == 0 {
		return amount
	}
	if duration > math.MaxInt64 {
		return 0
	}
	return amount / int64(duration)
}

// Claimable returns the amount the recipient may withdraw from s at instant
// now. It is min(rate * elapsed, remaining escrow), zero when the clock has
// not advanced past the last settlement. Callers clamp now to the
// cancellation instant for inactive streams; Claimable itself ignores
// IsActive.
func Claimable(s registry.Stream, now uint64) (int64, error) {
	if now <= s.LastUpdateTime {
		return 0, nil
	}
	elapsed := now - s.LastUpdateTime
	if elapsed > math.MaxInt64 {
		return 0, ErrArithmeticOverflow
	}

	remaining, err := checkedSub(s.DepositedAmount, s.WithdrawnAmount)
	if err != nil {
		return 0, err
	}

	accrued, err := checkedMul(s.RatePerSecond, int64(elapsed))
	if err != nil {
		return 0, err
	}
	if accrued > remaining {
		return remaining, nil
	}
	return accrued, nil
}

// CheckedAdd returns a+b or ErrArithmeticOverflow.
func CheckedAdd(a, b int64) (int64, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, ErrArithmeticOverflow
	}
	return sum, nil
}

func checkedSub(a, b int64) (int64, error) {
	diff := a - b
	if (b < 0 && diff < a) || (b > 0 && diff > a) {
		return 0, ErrArithmeticOverflow
	}
	return diff, nil
}

func checkedMul(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	product := a * b
	if product/b != a {
		return 0, ErrArithmeticOverflow
	}
	return product, nil
}
