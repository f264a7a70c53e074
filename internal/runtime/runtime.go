package runtime

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/LabsCrypt/flowfi/internal/authz"
	cfgpkg "github.com/LabsCrypt/flowfi/internal/config"
	"github.com/LabsCrypt/flowfi/internal/eventlog"
	"github.com/LabsCrypt/flowfi/internal/metrics"
	pebblestore "github.com/LabsCrypt/flowfi/internal/storage/pebble"
)

// ClockFunc returns the current ledger time in seconds. Overridable so tests
// can drive accrual deterministically.
type ClockFunc func() uint64

// Options for building the Runtime.
type Options struct {
	DataDir string
	Fsync   pebblestore.FsyncMode
	// FsyncInterval applies when Fsync is FsyncModeInterval.
	FsyncInterval time.Duration
	Config        cfgpkg.Config
	// Metrics is optional; when set, storage latencies feed into it.
	Metrics *metrics.Metrics
	// Clock defaults to the wall clock in whole seconds.
	Clock ClockFunc
}

// Runtime wires storage, config, and facades for a single-node instance.
type Runtime struct {
	db      *pebblestore.DB
	config  cfgpkg.Config
	metrics *metrics.Metrics
	clock   ClockFunc
}

// Open initializes the underlying storage and returns a Runtime.
func Open(opts Options) (*Runtime, error) {
	popts := pebblestore.Options{
		DataDir:       opts.DataDir,
		Fsync:         opts.Fsync,
		FsyncInterval: opts.FsyncInterval,
	}
	if opts.Metrics != nil {
		popts.Metrics = metrics.StorageHook{M: opts.Metrics}
	}
	db, err := pebblestore.Open(popts)
	if err != nil {
		return nil, err
	}
	clock := opts.Clock
	if clock == nil {
		clock = func() uint64 { return uint64(time.Now().Unix()) }
	}
	return &Runtime{db: db, config: opts.Config, metrics: opts.Metrics, clock: clock}, nil
}

// Close closes underlying resources.
func (r *Runtime) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// CheckHealth performs a simple health check.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if r.db == nil {
		return errors.New("db not open")
	}
	it, err := r.db.NewIter(nil)
	if err != nil {
		return err
	}
	it.Close()
	return nil
}

// Now returns the current ledger time in seconds.
func (r *Runtime) Now() uint64 { return r.clock() }

// OpenLog opens the append-only event log for the given topic.
func (r *Runtime) OpenLog(topic string) (*eventlog.Log, error) {
	return eventlog.OpenLog(r.db, topic)
}

// Authorizer builds the configured authorizer.
func (r *Runtime) Authorizer() (authz.Authorizer, error) {
	switch r.config.Auth.Mode {
	case "", "allowall":
		return authz.AllowAll{}, nil
	case "hmac":
		keys := make(map[string][]byte, len(r.config.Auth.Keys))
		for principal, hexSecret := range r.config.Auth.Keys {
			secret, err := hex.DecodeString(hexSecret)
			if err != nil {
				return nil, fmt.Errorf("runtime: auth key for %q is not hex: %w", principal, err)
			}
			keys[principal] = secret
		}
		return authz.NewKeyring(keys), nil
	default:
		return nil, fmt.Errorf("runtime: unknown auth mode %q", r.config.Auth.Mode)
	}
}

// ParseFsyncMode maps a config fsync string onto a storage mode.
func ParseFsyncMode(mode string) (pebblestore.FsyncMode, error) {
	switch mode {
	case "", "always":
		return pebblestore.FsyncModeAlways, nil
	case "interval":
		return pebblestore.FsyncModeInterval, nil
	case "never":
		return pebblestore.FsyncModeNever, nil
	default:
		return pebblestore.FsyncModeUnspecified, fmt.Errorf("runtime: unknown fsync mode %q", mode)
	}
}

// DB exposes the underlying DB for advanced operations (internal use only).
func (r *Runtime) DB() *pebblestore.DB { return r.db }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }

// Metrics returns the metrics collectors, or nil when disabled.
func (r *Runtime) Metrics() *metrics.Metrics { return r.metrics }
