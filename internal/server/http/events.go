package httpserver

import (
	"context"
	"net/http"
	"strconv"

	"github.com/LabsCrypt/flowfi/internal/services/payments"
)

// sseSink writes tailed events as server-sent events.
type sseSink struct {
	w http.ResponseWriter
	r *http.Request
}

func (s sseSink) Send(it payments.TailItem) error {
	if _, err := s.w.Write([]byte("id: " + strconv.FormatUint(it.Seq, 10) + "\n")); err != nil {
		return err
	}
	if _, err := s.w.Write([]byte("event: " + it.Type + "\n")); err != nil {
		return err
	}
	// Payloads are single-line JSON, safe inside one data field.
	if _, err := s.w.Write([]byte("data: " + string(it.Payload) + "\n\n")); err != nil {
		return err
	}
	return nil
}

func (s sseSink) Context() context.Context { return s.r.Context() }

func (s sseSink) Flush() error {
	if f, ok := s.w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}

func (s *Server) handleEventsSSE(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	q := r.URL.Query()
	opts := payments.TailOptions{
		From:   q.Get("from"),
		Group:  q.Get("group"),
		Filter: q.Get("filter"),
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			opts.Limit = n
		}
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	if err := s.pay.TailEvents(opts, sseSink{w: w, r: r}); err != nil && r.Context().Err() == nil {
		// Filter compile errors arrive before any event is written.
		s.writeError(w, r, http.StatusBadRequest, err)
	}
}
