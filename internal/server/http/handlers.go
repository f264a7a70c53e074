package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/LabsCrypt/flowfi/internal/registry"
)

type createStreamReq struct {
	Sender         string `json:"sender"`
	Recipient      string `json:"recipient"`
	Token          string `json:"token"`
	Amount         int64  `json:"amount"`
	Duration       uint64 `json:"duration"`
	IdempotencyKey string `json:"idempotencyKey"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req createStreamReq
	ctx, ok := s.decodeAuthedBody(w, r, &req)
	if !ok {
		return
	}
	s.opMu.Lock()
	id, err := s.pay.CreateStream(ctx, req.Sender, req.Recipient, req.Token, req.Amount, req.Duration, req.IdempotencyKey)
	s.opMu.Unlock()
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]uint64{"id": id})
}

type topUpReq struct {
	Sender string `json:"sender"`
	ID     uint64 `json:"id"`
	Amount int64  `json:"amount"`
}

func (s *Server) handleTopUp(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req topUpReq
	ctx, ok := s.decodeAuthedBody(w, r, &req)
	if !ok {
		return
	}
	s.opMu.Lock()
	err := s.pay.TopUpStream(ctx, req.Sender, req.ID, req.Amount)
	s.opMu.Unlock()
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type withdrawReq struct {
	Recipient string `json:"recipient"`
	ID        uint64 `json:"id"`
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req withdrawReq
	ctx, ok := s.decodeAuthedBody(w, r, &req)
	if !ok {
		return
	}
	s.opMu.Lock()
	err := s.pay.Withdraw(ctx, req.Recipient, req.ID)
	s.opMu.Unlock()
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type cancelReq struct {
	Sender string `json:"sender"`
	ID     uint64 `json:"id"`
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req cancelReq
	ctx, ok := s.decodeAuthedBody(w, r, &req)
	if !ok {
		return
	}
	s.opMu.Lock()
	err := s.pay.CancelStream(ctx, req.Sender, req.ID)
	s.opMu.Unlock()
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type streamResp struct {
	ID uint64 `json:"id"`
	registry.Stream
	Claimable int64 `json:"claimable"`
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	id, err := strconv.ParseUint(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, errors.New("id must be a positive integer"))
		return
	}
	stream, ok, err := s.pay.GetStream(id)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		s.writeError(w, r, http.StatusNotFound, errors.New("stream not found"))
		return
	}
	claimable, err := s.pay.Claimable(id)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, streamResp{ID: id, Stream: stream, Claimable: claimable})
}

type mintReq struct {
	Token   string `json:"token"`
	Account string `json:"account"`
	Amount  int64  `json:"amount"`
}

func (s *Server) handleMint(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req mintReq
	ctx, ok := s.decodeAuthedBody(w, r, &req)
	if !ok {
		return
	}
	if err := s.led.Mint(ctx, req.Token, req.Account, req.Amount); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	token := r.URL.Query().Get("token")
	account := r.URL.Query().Get("account")
	if token == "" || account == "" {
		s.writeError(w, r, http.StatusBadRequest, errors.New("token and account are required"))
		return
	}
	bal, err := s.led.Balance(token, account)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"token": token, "account": account, "balance": bal})
}

type ackReq struct {
	Group string `json:"group"`
	Seq   uint64 `json:"seq"`
}

func (s *Server) handleAck(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req ackReq
	if _, ok := s.decodeAuthedBody(w, r, &req); !ok {
		return
	}
	if req.Group == "" {
		s.writeError(w, r, http.StatusBadRequest, errors.New("group is required"))
		return
	}
	if err := s.pay.AckEvents(req.Group, req.Seq); err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
