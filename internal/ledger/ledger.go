package ledger

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/LabsCrypt/flowfi/internal/accrual"
	pebblestore "github.com/LabsCrypt/flowfi/internal/storage/pebble"
	"github.com/LabsCrypt/flowfi/pkg/log"
)

var (
	// ErrInsufficientFunds reports a transfer larger than the source balance.
	ErrInsufficientFunds = errors.New("ledger: insufficient funds")
	// ErrInvalidAmount reports a zero or negative amount.
	ErrInvalidAmount = errors.New("ledger: amount must be positive")
)

// Balances live at bal/{token}/{account} as 8-byte big-endian int64.
const balPrefix = "bal/"

func keyBalance(token, account string) []byte {
	return []byte(balPrefix + token + "/" + account)
}

// Service is a durable token ledger.
type Service struct {
	db     *pebblestore.DB
	logger log.Logger
}

// New returns a ledger over the given store.
func New(db *pebblestore.DB, logger log.Logger) *Service {
	if logger == nil {
		logger = log.GetDefaultLogger()
	}
	return &Service{db: db, logger: logger.WithComponent("ledger")}
}

// Balance returns the current balance of account in token. Unknown accounts
// hold zero.
func (s *Service) Balance(token, account string) (int64, error) {
	raw, err := s.db.Get(keyBalance(token, account))
	if errors.Is(err, pebblestore.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return decodeBalance(raw)
}

// Mint credits amount to account out of thin air. Faucet for development and
// tests; real deployments would gate this behind an issuer principal.
func (s *Service) Mint(ctx context.Context, token, account string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	cur, err := s.Balance(token, account)
	if err != nil {
		return err
	}
	next, err := accrual.CheckedAdd(cur, amount)
	if err != nil {
		return err
	}

	b := s.db.NewBatch()
	defer b.Close()
	if err := b.Set(keyBalance(token, account), encodeBalance(next), nil); err != nil {
		return err
	}
	if err := s.db.CommitBatch(ctx, b); err != nil {
		return err
	}
	s.logger.Info("minted tokens",
		log.Str("token", token),
		log.Str("account", account),
		log.Int64("amount", amount))
	return nil
}

// Transfer moves amount of token from one account to another. The debit and
// credit commit in a single batch; on any failure neither balance changes.
func (s *Service) Transfer(ctx context.Context, token, from, to string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	fromBal, err := s.Balance(token, from)
	if err != nil {
		return err
	}
	if fromBal < amount {
		return fmt.Errorf("%w: %s has %d, needs %d", ErrInsufficientFunds, from, fromBal, amount)
	}
	toBal, err := s.Balance(token, to)
	if err != nil {
		return err
	}
	newTo, err := accrual.CheckedAdd(toBal, amount)
	if err != nil {
		return err
	}

	b := s.db.NewBatch()
	defer b.Close()
	if err := b.Set(keyBalance(token, from), encodeBalance(fromBal-amount), nil); err != nil {
		return err
	}
	if err := b.Set(keyBalance(token, to), encodeBalance(newTo), nil); err != nil {
		return err
	}
	if err := s.db.CommitBatch(ctx, b); err != nil {
		return err
	}
	s.logger.Debug("transferred tokens",
		log.Str("token", token),
		log.Str("from", from),
		log.Str("to", to),
		log.Int64("amount", amount))
	return nil
}

func encodeBalance(v int64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))
	return buf[:]
}

func decodeBalance(raw []byte) (int64, error) {
	if len(raw) != 8 {
		return 0, fmt.Errorf("ledger: malformed balance (%d bytes)", len(raw))
	}
	return int64(binary.BigEndian.Uint64(raw)), nil
}
