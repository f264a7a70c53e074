package payments

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"time"

	"github.com/LabsCrypt/flowfi/internal/accrual"
	"github.com/LabsCrypt/flowfi/internal/authz"
	"github.com/LabsCrypt/flowfi/internal/eventlog"
	"github.com/LabsCrypt/flowfi/internal/metrics"
	"github.com/LabsCrypt/flowfi/internal/registry"
	"github.com/LabsCrypt/flowfi/internal/runtime"
	logpkg "github.com/LabsCrypt/flowfi/pkg/log"
)

// Service is the stream lifecycle controller.
type Service struct {
	rt      *runtime.Runtime
	reg     *registry.Registry
	auth    authz.Authorizer
	tokens  TokenTransfer
	events  *eventlog.Log
	logger  logpkg.Logger
	metrics *metrics.Metrics
	escrow  string
}

// New builds the payments service on top of the runtime.
func New(rt *runtime.Runtime, opts Options) (*Service, error) {
	if opts.Tokens == nil {
		return nil, errors.New("payments: Options.Tokens is required")
	}
	auth := opts.Auth
	if auth == nil {
		var err error
		auth, err = rt.Authorizer()
		if err != nil {
			return nil, err
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.GetDefaultLogger()
	}
	events, err := rt.OpenLog(rt.Config().EventTopic)
	if err != nil {
		return nil, err
	}
	return &Service{
		rt:      rt,
		reg:     registry.New(rt.DB()),
		auth:    auth,
		tokens:  opts.Tokens,
		events:  events,
		logger:  logger.WithComponent("payments"),
		metrics: rt.Metrics(),
		escrow:  rt.Config().EscrowAccount,
	}, nil
}

// CreateStream escrows amount from sender and opens a new stream accruing
// toward recipient over duration seconds. The transfer into escrow happens
// before any record is written, so a failed transfer leaves no residue. A
// non-empty idemKey makes retries return the originally issued id without
// moving funds again.
func (s *Service) CreateStream(ctx context.Context, sender, recipient, token string, amount int64, duration uint64, idemKey string) (id uint64, err error) {
	defer s.observeOp("create_stream", time.Now(), &err)

	if err = s.auth.RequireAuth(ctx, sender); err != nil {
		return 0, err
	}
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	if idemKey != "" {
		if existing, ok, lerr := s.reg.IdempotentID(idemKey); lerr != nil {
			return 0, lerr
		} else if ok {
			return existing, nil
		}
	}

	now := s.rt.Now()
	if err = s.transfer(ctx, token, sender, s.escrow, amount); err != nil {
		return 0, err
	}

	stream := registry.Stream{
		Sender:          sender,
		Recipient:       recipient,
		Token:           token,
		RatePerSecond:   accrual.RatePerSecond(amount, duration),
		DepositedAmount: amount,
		WithdrawnAmount: 0,
		StartTime:       now,
		LastUpdateTime:  now,
		IsActive:        true,
	}

	b := s.rt.DB().NewBatch()
	defer b.Close()
	id, err = s.reg.NextID(b)
	if err != nil {
		return 0, err
	}
	if err = s.reg.Put(b, id, stream); err != nil {
		return 0, err
	}
	if idemKey != "" {
		if err = s.reg.PutIdempotentID(b, idemKey, id); err != nil {
			return 0, err
		}
	}
	if err = s.reg.Commit(ctx, b); err != nil {
		// Funds already moved to escrow; this needs operator attention.
		s.logger.Error("stream record commit failed after escrow transfer",
			logpkg.Str("sender", sender),
			logpkg.Int64("amount", amount),
			logpkg.Err(err))
		return 0, err
	}

	s.emit(ctx, now, EventStreamCreated, StreamCreatedEvent{
		Type:      EventStreamCreated,
		ID:        id,
		Sender:    sender,
		Recipient: recipient,
		Rate:      stream.RatePerSecond,
		Token:     token,
		StartTime: now,
	})
	s.logger.Info("stream created",
		logpkg.Uint64("id", id),
		logpkg.Str("sender", sender),
		logpkg.Str("recipient", recipient),
		logpkg.Int64("amount", amount),
		logpkg.Int64("rate", stream.RatePerSecond))
	return id, nil
}

// TopUpStream escrows additional deposit into an active stream. The accrual
// window restarts at now: rate applies from this top-up forward.
func (s *Service) TopUpStream(ctx context.Context, sender string, id uint64, amount int64) (err error) {
	defer s.observeOp("top_up_stream", time.Now(), &err)

	if err = s.auth.RequireAuth(ctx, sender); err != nil {
		return err
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}
	stream, ok, err := s.reg.Get(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrStreamNotFound
	}
	if stream.Sender != sender {
		return ErrUnauthorized
	}
	if !stream.IsActive {
		return ErrStreamInactive
	}
	newDeposited, err := accrual.CheckedAdd(stream.DepositedAmount, amount)
	if err != nil {
		return err
	}

	now := s.rt.Now()
	if err = s.transfer(ctx, stream.Token, sender, s.escrow, amount); err != nil {
		return err
	}

	stream.DepositedAmount = newDeposited
	stream.LastUpdateTime = now
	if err = s.commitStream(ctx, id, stream); err != nil {
		return err
	}

	s.emit(ctx, now, EventStreamToppedUp, StreamToppedUpEvent{
		Type:               EventStreamToppedUp,
		ID:                 id,
		Sender:             sender,
		Amount:             amount,
		NewDepositedAmount: newDeposited,
	})
	return nil
}

// Withdraw settles everything the recipient has accrued so far. Claiming
// zero is a successful no-op. On a cancelled stream accrual is frozen at the
// cancellation instant; once that remainder is claimed further withdrawals
// fail with ErrStreamInactive.
func (s *Service) Withdraw(ctx context.Context, recipient string, id uint64) (err error) {
	defer s.observeOp("withdraw", time.Now(), &err)

	if err = s.auth.RequireAuth(ctx, recipient); err != nil {
		return err
	}
	stream, ok, err := s.reg.Get(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrStreamNotFound
	}
	if stream.Recipient != recipient {
		return ErrUnauthorized
	}

	now := s.rt.Now()
	accrualNow := now
	if !stream.IsActive && stream.CanceledAt > 0 && now > stream.CanceledAt {
		accrualNow = stream.CanceledAt
	}
	amount, err := accrual.Claimable(stream, accrualNow)
	if err != nil {
		return err
	}
	if amount == 0 {
		if !stream.IsActive {
			return ErrStreamInactive
		}
		// Nothing accrued since the last claim; harmless repeat.
		return nil
	}
	newWithdrawn, err := accrual.CheckedAdd(stream.WithdrawnAmount, amount)
	if err != nil {
		return err
	}

	// Validation and amount computation are complete; the external transfer
	// goes out before the record is touched, and the durable mutation is the
	// final step.
	if err = s.transfer(ctx, stream.Token, s.escrow, recipient, amount); err != nil {
		return err
	}

	stream, ok, err = s.reg.Get(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrStreamNotFound
	}
	stream.WithdrawnAmount = newWithdrawn
	stream.LastUpdateTime = now
	if err = s.commitStream(ctx, id, stream); err != nil {
		s.logger.Error("withdraw commit failed after payout transfer",
			logpkg.Uint64("id", id),
			logpkg.Int64("amount", amount),
			logpkg.Err(err))
		return err
	}

	s.emit(ctx, now, EventTokensWithdrawn, TokensWithdrawnEvent{
		Type:      EventTokensWithdrawn,
		ID:        id,
		Recipient: recipient,
		Amount:    amount,
		Timestamp: now,
	})
	return nil
}

// CancelStream freezes accrual at the current instant and deactivates the
// stream. Missing ids and foreign streams are silent no-ops, as is
// re-cancelling: lookups leak nothing and the active flag only ever drops.
func (s *Service) CancelStream(ctx context.Context, sender string, id uint64) (err error) {
	defer s.observeOp("cancel_stream", time.Now(), &err)

	if err = s.auth.RequireAuth(ctx, sender); err != nil {
		return err
	}
	stream, ok, err := s.reg.Get(id)
	if err != nil {
		return err
	}
	if !ok || stream.Sender != sender || !stream.IsActive {
		return nil
	}

	now := s.rt.Now()
	stream.IsActive = false
	stream.CanceledAt = now
	if err = s.commitStream(ctx, id, stream); err != nil {
		return err
	}

	s.emit(ctx, now, EventStreamCancelled, StreamCancelledEvent{
		Type:            EventStreamCancelled,
		ID:              id,
		Sender:          sender,
		Recipient:       stream.Recipient,
		AmountWithdrawn: stream.WithdrawnAmount,
	})
	s.logger.Info("stream cancelled",
		logpkg.Uint64("id", id),
		logpkg.Int64("withdrawn", stream.WithdrawnAmount))
	return nil
}

// GetStream reads a stream record. No authorization: records are public.
func (s *Service) GetStream(id uint64) (registry.Stream, bool, error) {
	return s.reg.Get(id)
}

// Claimable reports what the recipient could withdraw right now.
func (s *Service) Claimable(id uint64) (int64, error) {
	stream, ok, err := s.reg.Get(id)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrStreamNotFound
	}
	now := s.rt.Now()
	if !stream.IsActive && stream.CanceledAt > 0 && now > stream.CanceledAt {
		now = stream.CanceledAt
	}
	return accrual.Claimable(stream, now)
}

func (s *Service) commitStream(ctx context.Context, id uint64, stream registry.Stream) error {
	b := s.rt.DB().NewBatch()
	defer b.Close()
	if err := s.reg.Put(b, id, stream); err != nil {
		return err
	}
	return s.reg.Commit(ctx, b)
}

func (s *Service) transfer(ctx context.Context, token, from, to string, amount int64) error {
	err := s.tokens.Transfer(ctx, token, from, to, amount)
	if s.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		s.metrics.TransfersTotal.WithLabelValues(status).Inc()
	}
	return err
}

// emit appends a lifecycle event. Emission is fire-and-forget: the state
// change already committed, so a log append failure is reported but does not
// fail the operation.
func (s *Service) emit(ctx context.Context, now uint64, eventType string, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal event", logpkg.Str("type", eventType), logpkg.Err(err))
		return
	}
	var header [8]byte
	binary.BigEndian.PutUint64(header[:], now*1000)
	if _, err := s.events.Append(ctx, []eventlog.AppendRecord{{Header: header[:], Payload: payload}}); err != nil {
		s.logger.Error("append event", logpkg.Str("type", eventType), logpkg.Err(err))
		return
	}
	if s.metrics != nil {
		s.metrics.EventsEmitted.WithLabelValues(eventType).Inc()
	}
}

func (s *Service) observeOp(op string, start time.Time, err *error) {
	if s.metrics == nil {
		return
	}
	status := "ok"
	if *err != nil {
		status = "error"
	}
	s.metrics.ObserveOperation(op, status, time.Since(start))
}
