package ledger

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/LabsCrypt/flowfi/internal/accrual"
	pebblestore "github.com/LabsCrypt/flowfi/internal/storage/pebble"
)

func newTestLedger(t *testing.T) *Service {
	t.Helper()
	db, err := pebblestore.Open(pebblestore.Options{DataDir: t.TempDir(), Fsync: pebblestore.FsyncModeNever})
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db, nil)
}

func TestMintAndBalance(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	if bal, err := l.Balance("USDX", "alice"); err != nil || bal != 0 {
		t.Fatalf("fresh balance = %d, %v", bal, err)
	}
	if err := l.Mint(ctx, "USDX", "alice", 1000); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := l.Mint(ctx, "USDX", "alice", 500); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if bal, _ := l.Balance("USDX", "alice"); bal != 1500 {
		t.Fatalf("balance = %d, want 1500", bal)
	}

	// Balances are per token.
	if bal, _ := l.Balance("EURX", "alice"); bal != 0 {
		t.Fatalf("other-token balance = %d, want 0", bal)
	}

	if err := l.Mint(ctx, "USDX", "alice", 0); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("mint zero: %v, want ErrInvalidAmount", err)
	}
	if err := l.Mint(ctx, "USDX", "alice", -5); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("mint negative: %v, want ErrInvalidAmount", err)
	}
}

func TestTransfer(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	if err := l.Mint(ctx, "USDX", "alice", 1000); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := l.Transfer(ctx, "USDX", "alice", "bob", 400); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if bal, _ := l.Balance("USDX", "alice"); bal != 600 {
		t.Fatalf("alice = %d, want 600", bal)
	}
	if bal, _ := l.Balance("USDX", "bob"); bal != 400 {
		t.Fatalf("bob = %d, want 400", bal)
	}
}

func TestTransferInsufficientFundsLeavesBalancesUntouched(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	if err := l.Mint(ctx, "USDX", "alice", 100); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := l.Transfer(ctx, "USDX", "alice", "bob", 101); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	if bal, _ := l.Balance("USDX", "alice"); bal != 100 {
		t.Fatalf("alice = %d, want 100", bal)
	}
	if bal, _ := l.Balance("USDX", "bob"); bal != 0 {
		t.Fatalf("bob = %d, want 0", bal)
	}
}

func TestTransferRejectsNonPositiveAmounts(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	for _, amount := range []int64{0, -1} {
		if err := l.Transfer(ctx, "USDX", "alice", "bob", amount); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("transfer %d: %v, want ErrInvalidAmount", amount, err)
		}
	}
}

func TestTransferOverflowOnCredit(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	if err := l.Mint(ctx, "USDX", "alice", math.MaxInt64); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := l.Mint(ctx, "USDX", "bob", 1); err != nil {
		t.Fatalf("mint: %v", err)
	}
	err := l.Transfer(ctx, "USDX", "alice", "bob", math.MaxInt64)
	if !errors.Is(err, accrual.ErrArithmeticOverflow) {
		t.Fatalf("err = %v, want ErrArithmeticOverflow", err)
	}
	if bal, _ := l.Balance("USDX", "alice"); bal != math.MaxInt64 {
		t.Fatalf("alice changed after failed transfer: %d", bal)
	}
}
