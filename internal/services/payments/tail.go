package payments

import (
	"encoding/binary"
	"time"

	"github.com/LabsCrypt/flowfi/internal/eventlog"
)

// TailEvents streams lifecycle events into sink until its context ends or
// the optional limit is reached. The start position resolves in order:
// the group's committed cursor, then From ("earliest" or "latest").
func (s *Service) TailEvents(opts TailOptions, sink TailSink) error {
	filter, err := newCELFilter(opts.Filter)
	if err != nil {
		return err
	}
	start := s.resolveStartToken(opts)

	delivered := 0
	for {
		if err := sink.Context().Err(); err != nil {
			return err
		}
		items, _ := s.events.Read(eventlog.ReadOptions{Start: start, Limit: 128})
		if len(items) == 0 {
			if !s.events.WaitForAppend(50 * time.Millisecond) {
				if err := sink.Context().Err(); err != nil {
					return err
				}
			}
			continue
		}
		for _, it := range items {
			if !filter.Eval(it.Seq, it.Header, it.Payload) {
				continue
			}
			if err := sink.Send(tailItem(it)); err != nil {
				return err
			}
			delivered++
			if opts.Limit > 0 && delivered >= opts.Limit {
				_ = sink.Flush()
				return nil
			}
		}
		_ = sink.Flush()
		start = eventlog.TokenFromSeq(items[len(items)-1].Seq + 1)
	}
}

// ReadEvents returns up to limit events from start (0 = beginning) without
// blocking, plus the sequence to pass as the next start.
func (s *Service) ReadEvents(start uint64, limit int) ([]TailItem, uint64) {
	items, next := s.events.Read(eventlog.ReadOptions{Start: eventlog.TokenFromSeq(start), Limit: limit})
	out := make([]TailItem, 0, len(items))
	for _, it := range items {
		out = append(out, tailItem(it))
	}
	return out, next.Seq()
}

// AckEvents advances a consumer group's durable cursor to seq. Cursors never
// move backwards.
func (s *Service) AckEvents(group string, seq uint64) error {
	return s.events.CommitCursor(group, eventlog.TokenFromSeq(seq))
}

func (s *Service) resolveStartToken(opts TailOptions) eventlog.Token {
	if opts.Group != "" {
		if tok, ok := s.events.GetCursor(opts.Group); ok {
			return eventlog.TokenFromSeq(tok.Seq() + 1)
		}
	}
	if opts.From == "earliest" {
		return eventlog.Token{}
	}
	return eventlog.TokenFromSeq(s.events.LastSeq() + 1)
}

func tailItem(it eventlog.Item) TailItem {
	var ts int64
	if len(it.Header) >= 8 {
		ts = int64(binary.BigEndian.Uint64(it.Header[:8]))
	}
	return TailItem{
		Seq:     it.Seq,
		TsMs:    ts,
		Type:    eventTypeOf(it.Payload),
		Payload: it.Payload,
	}
}
