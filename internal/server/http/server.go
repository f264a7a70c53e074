package httpserver

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/LabsCrypt/flowfi/internal/ledger"
	"github.com/LabsCrypt/flowfi/internal/runtime"
	"github.com/LabsCrypt/flowfi/internal/services/payments"
	idpkg "github.com/LabsCrypt/flowfi/pkg/id"
	logpkg "github.com/LabsCrypt/flowfi/pkg/log"
)

type Server struct {
	rt     *runtime.Runtime
	srv    *http.Server
	lis    net.Listener
	pay    *payments.Service
	led    *ledger.Service
	logger logpkg.Logger
	reqIDs *idpkg.Generator

	// opMu serializes mutating lifecycle invocations; the payments service
	// takes no locks of its own.
	opMu sync.Mutex
}

func New(rt *runtime.Runtime, logger logpkg.Logger) (*Server, error) {
	if logger == nil {
		logger = logpkg.GetDefaultLogger()
	}
	led := ledger.New(rt.DB(), logger)
	pay, err := payments.New(rt, payments.Options{Tokens: led, Logger: logger})
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	s := &Server{
		rt:     rt,
		pay:    pay,
		led:    led,
		logger: logger.WithComponent("http"),
		reqIDs: idpkg.NewGenerator(),
		srv:    &http.Server{Handler: cors(mux)},
	}
	mux.HandleFunc("/v1/healthz", s.handleHealth)
	mux.HandleFunc("/v1/streams/create", s.handleCreate)
	mux.HandleFunc("/v1/streams/topup", s.handleTopUp)
	mux.HandleFunc("/v1/streams/withdraw", s.handleWithdraw)
	mux.HandleFunc("/v1/streams/cancel", s.handleCancel)
	mux.HandleFunc("/v1/streams/get", s.handleGet)
	mux.HandleFunc("/v1/streams/events", s.handleEventsSSE)
	mux.HandleFunc("/v1/streams/ack", s.handleAck)
	mux.HandleFunc("/v1/accounts/mint", s.handleMint)
	mux.HandleFunc("/v1/accounts/balance", s.handleBalance)
	if m := rt.Metrics(); m != nil {
		mux.Handle("/metrics", m.Handler())
	}
	return s, nil
}

// Payments exposes the lifecycle service, mainly for tests.
func (s *Server) Payments() *payments.Service { return s.pay }

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.lis = l
	s.logger.Info("http listening", logpkg.Str("addr", l.Addr().String()))
	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(l) }()
	select {
	case <-ctx.Done():
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(cctx)
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) Close() {
	if s.lis != nil {
		_ = s.lis.Close()
	}
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Flowfi-Principal, X-Flowfi-Signature")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.rt.CheckHealth(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "not_serving"})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
