package payments

import (
	"context"

	"github.com/LabsCrypt/flowfi/internal/authz"
	logpkg "github.com/LabsCrypt/flowfi/pkg/log"
)

// TokenTransfer is the external token service the lifecycle calls out to.
// Transfer must be atomic: on error (including insufficient funds) neither
// balance changes. Implementations may call back into the payments service.
type TokenTransfer interface {
	Transfer(ctx context.Context, token, from, to string, amount int64) error
}

// Options configures a payments Service.
type Options struct {
	// Auth gates mutating operations. Defaults to the runtime's configured
	// authorizer.
	Auth authz.Authorizer
	// Tokens moves funds in and out of escrow. Required.
	Tokens TokenTransfer
	Logger logpkg.Logger
}

// TailSink is implemented by transports to receive tailed events.
type TailSink interface {
	Send(TailItem) error
	Context() context.Context
	Flush() error
}

// TailOptions controls where an event tail starts and what it delivers.
type TailOptions struct {
	// From is "earliest" or "latest" (default). Ignored when Group has a
	// committed cursor.
	From string
	// Group names a durable consumer; its committed cursor resumes the tail.
	Group string
	// Filter is an optional CEL expression evaluated per event.
	Filter string
	// Limit stops the tail after this many delivered events (0 = unbounded).
	Limit int
}

// TailItem is one delivered lifecycle event.
type TailItem struct {
	Seq     uint64
	TsMs    int64
	Type    string
	Payload []byte
}
