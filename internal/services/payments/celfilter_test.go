package payments

import (
	"encoding/binary"
	"testing"
)

func TestCELFilterDisabled(t *testing.T) {
	f, err := newCELFilter("   ")
	if err != nil {
		t.Fatalf("empty filter: %v", err)
	}
	if !f.Eval(1, nil, []byte(`{"type":"stream_created"}`)) {
		t.Fatal("disabled filter must pass everything")
	}
}

func TestCELFilterEventType(t *testing.T) {
	f, err := newCELFilter(`event_type == "tokens_withdrawn"`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !f.Eval(1, nil, []byte(`{"type":"tokens_withdrawn","amount":500}`)) {
		t.Fatal("matching type rejected")
	}
	if f.Eval(2, nil, []byte(`{"type":"stream_created"}`)) {
		t.Fatal("non-matching type accepted")
	}
}

func TestCELFilterJSONFields(t *testing.T) {
	f, err := newCELFilter(`json.id == 3 && json.amount > 100`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !f.Eval(1, nil, []byte(`{"type":"tokens_withdrawn","id":3,"amount":500}`)) {
		t.Fatal("matching payload rejected")
	}
	if f.Eval(1, nil, []byte(`{"type":"tokens_withdrawn","id":4,"amount":500}`)) {
		t.Fatal("wrong id accepted")
	}
}

func TestCELFilterHeaderTimestamp(t *testing.T) {
	f, err := newCELFilter(`ts_ms >= 150000`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	var hdr [8]byte
	binary.BigEndian.PutUint64(hdr[:], 150000)
	if !f.Eval(1, hdr[:], []byte(`{}`)) {
		t.Fatal("timestamp at bound rejected")
	}
	binary.BigEndian.PutUint64(hdr[:], 149999)
	if f.Eval(1, hdr[:], []byte(`{}`)) {
		t.Fatal("earlier timestamp accepted")
	}
}

func TestCELFilterInvalidExpression(t *testing.T) {
	if _, err := newCELFilter("not valid CEL ((("); err == nil {
		t.Fatal("expected compile error")
	}
}

func TestCELFilterEvalErrorRejects(t *testing.T) {
	f, err := newCELFilter(`json.missing.deeply == 1`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if f.Eval(1, nil, []byte(`{"type":"stream_created"}`)) {
		t.Fatal("runtime eval error must reject the event")
	}
}
