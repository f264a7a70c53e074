package registry

// Stream is the central payment-stream record. Amounts are int64 values in
// the token's smallest unit; timestamps are ledger seconds.
type Stream struct {
	Sender          string `json:"sender"`
	Recipient       string `json:"recipient"`
	Token           string `json:"token"`
	RatePerSecond   int64  `json:"ratePerSecond"`
	DepositedAmount int64  `json:"depositedAmount"`
	WithdrawnAmount int64  `json:"withdrawnAmount"`
	StartTime       uint64 `json:"startTime"`
	LastUpdateTime  uint64 `json:"lastUpdateTime"`
	// CanceledAt records the cancellation instant; accrual is computed
	// against min(now, CanceledAt) once the stream is inactive. Zero while
	// active.
	CanceledAt uint64 `json:"canceledAt,omitempty"`
	IsActive   bool   `json:"isActive"`
}

// Remaining returns the unclaimed escrow still held for the stream.
func (s Stream) Remaining() int64 {
	return s.DepositedAmount - s.WithdrawnAmount
}
