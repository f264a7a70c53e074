package payments

// Lifecycle event types, in the order they can occur for one stream.
const (
	EventStreamCreated   = "stream_created"
	EventStreamToppedUp  = "stream_topped_up"
	EventTokensWithdrawn = "tokens_withdrawn"
	EventStreamCancelled = "stream_cancelled"
)

// StreamCreatedEvent announces a new active stream.
type StreamCreatedEvent struct {
	Type      string `json:"type"`
	ID        uint64 `json:"id"`
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Rate      int64  `json:"rate"`
	Token     string `json:"token"`
	StartTime uint64 `json:"start_time"`
}

// StreamToppedUpEvent announces additional escrowed deposit.
type StreamToppedUpEvent struct {
	Type               string `json:"type"`
	ID                 uint64 `json:"id"`
	Sender             string `json:"sender"`
	Amount             int64  `json:"amount"`
	NewDepositedAmount int64  `json:"new_deposited_amount"`
}

// TokensWithdrawnEvent announces a settled claim.
type TokensWithdrawnEvent struct {
	Type      string `json:"type"`
	ID        uint64 `json:"id"`
	Recipient string `json:"recipient"`
	Amount    int64  `json:"amount"`
	Timestamp uint64 `json:"timestamp"`
}

// StreamCancelledEvent announces a stream frozen by its sender.
type StreamCancelledEvent struct {
	Type            string `json:"type"`
	ID              uint64 `json:"id"`
	Sender          string `json:"sender"`
	Recipient       string `json:"recipient"`
	AmountWithdrawn int64  `json:"amount_withdrawn"`
}
