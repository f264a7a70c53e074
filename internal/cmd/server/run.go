package serverrun

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	cfgpkg "github.com/LabsCrypt/flowfi/internal/config"
	"github.com/LabsCrypt/flowfi/internal/metrics"
	"github.com/LabsCrypt/flowfi/internal/runtime"
	httpserver "github.com/LabsCrypt/flowfi/internal/server/http"
	pebblestore "github.com/LabsCrypt/flowfi/internal/storage/pebble"
	logpkg "github.com/LabsCrypt/flowfi/pkg/log"
)

func getenvDefault(key, def string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return def
}

// small wrapper to allow testing; replaced by os.Getenv at build time
var getenv = func(key string) string { return os.Getenv(key) }

type Options struct {
	DataDir       string
	HTTPAddr      string
	Fsync         pebblestore.FsyncMode
	FsyncInterval time.Duration
	Config        cfgpkg.Config
}

// Run starts the HTTP server and blocks until ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	// Be robust to callers that don't pass a signal-aware context; layer a
	// local signal context over the provided one.
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if opts.DataDir == "" {
		opts.DataDir = cfgpkg.DefaultDataDir()
	}
	storeDir := filepath.Join(opts.DataDir, "store")

	// Build process-wide logger; env wins over file config.
	logCfg := &logpkg.Config{
		Level:  getenvDefault("FLOWFI_LOG_LEVEL", opts.Config.Log.Level),
		Format: getenvDefault("FLOWFI_LOG_FORMAT", opts.Config.Log.Format),
	}
	procLogger, err := logpkg.ApplyConfig(logCfg)
	if err != nil {
		procLogger = logpkg.NewLogger(logpkg.WithLevel(logpkg.InfoLevel), logpkg.WithFormatter(&logpkg.TextFormatter{}))
	}
	logpkg.SetDefaultLogger(procLogger)

	// Redirect stdlib logs (e.g., Pebble) to our logger
	logpkg.RedirectStdLog(procLogger)

	m := metrics.New()
	rt, err := runtime.Open(runtime.Options{
		DataDir:       storeDir,
		Fsync:         opts.Fsync,
		FsyncInterval: opts.FsyncInterval,
		Config:        opts.Config,
		Metrics:       m,
	})
	if err != nil {
		return err
	}
	defer rt.Close()

	procLogger.Info("starting flowfi server",
		logpkg.Str("http", opts.HTTPAddr),
		logpkg.Str("data_dir", storeDir),
		logpkg.Str("escrow", opts.Config.EscrowAccount),
		logpkg.Str("auth_mode", opts.Config.Auth.Mode),
		logpkg.Str("level", logCfg.Level),
		logpkg.Str("format", logCfg.Format),
	)

	hsrv, err := httpserver.New(rt, procLogger)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- hsrv.ListenAndServe(sctx, opts.HTTPAddr)
	}()

	select {
	case <-sctx.Done():
		hsrv.Close()
		<-errCh
		return nil
	case err := <-errCh:
		return err
	}
}
