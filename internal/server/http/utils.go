package httpserver

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/LabsCrypt/flowfi/internal/authz"
	"github.com/LabsCrypt/flowfi/internal/ledger"
	"github.com/LabsCrypt/flowfi/internal/services/payments"
	logpkg "github.com/LabsCrypt/flowfi/pkg/log"
)

const maxBodyBytes = 1 << 20

// decodeAuthedBody reads the request body, attaches the caller's credentials
// (principal + HMAC over the raw body) to a derived context, and unmarshals
// the body into dst.
func (s *Server) decodeAuthedBody(w http.ResponseWriter, r *http.Request, dst any) (context.Context, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, errors.New("read body"))
		return nil, false
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	ctx := r.Context()
	if principal := r.Header.Get("X-Flowfi-Principal"); principal != "" {
		sig, err := hex.DecodeString(r.Header.Get("X-Flowfi-Signature"))
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, errors.New("malformed signature"))
			return nil, false
		}
		ctx = authz.WithCredentials(ctx, authz.Credentials{
			Principal: principal,
			Signature: sig,
			Message:   body,
		})
	}

	if err := json.Unmarshal(body, dst); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return nil, false
	}
	return ctx, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	reqID := s.reqIDs.Next().String()
	w.Header().Set("X-Request-Id", reqID)
	s.logger.Warn("request failed",
		logpkg.Str("path", r.URL.Path),
		logpkg.Str("request_id", reqID),
		logpkg.Int("status", status),
		logpkg.Err(err))
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeDomainError maps payment errors onto HTTP statuses.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, payments.ErrInvalidAmount), errors.Is(err, ledger.ErrInvalidAmount):
		s.writeError(w, r, http.StatusBadRequest, err)
	case errors.Is(err, payments.ErrStreamNotFound):
		s.writeError(w, r, http.StatusNotFound, err)
	case errors.Is(err, payments.ErrUnauthorized):
		s.writeError(w, r, http.StatusForbidden, err)
	case errors.Is(err, payments.ErrStreamInactive):
		s.writeError(w, r, http.StatusConflict, err)
	case errors.Is(err, ledger.ErrInsufficientFunds):
		s.writeError(w, r, http.StatusPaymentRequired, err)
	default:
		s.writeError(w, r, http.StatusInternalServerError, err)
	}
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func requireGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}
