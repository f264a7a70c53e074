package eventlog

import (
	"bytes"
	"testing"
)

func TestRecordRoundtrip(t *testing.T) {
	enc := EncodeRecord([]byte("hdr"), []byte("payload"))
	dec, ok := DecodeRecord(enc)
	if !ok {
		t.Fatal("decode failed")
	}
	if !bytes.Equal(dec.Header, []byte("hdr")) || !bytes.Equal(dec.Payload, []byte("payload")) {
		t.Fatalf("roundtrip mismatch: %+v", dec)
	}
}

func TestRecordEmptyHeader(t *testing.T) {
	enc := EncodeRecord(nil, []byte("p"))
	dec, ok := DecodeRecord(enc)
	if !ok || len(dec.Header) != 0 || string(dec.Payload) != "p" {
		t.Fatalf("empty-header roundtrip failed: ok=%v %+v", ok, dec)
	}
}

func TestRecordRejectsCorruption(t *testing.T) {
	enc := EncodeRecord([]byte("h"), []byte("p"))
	enc[len(enc)-1] ^= 0xFF // flip a checksum byte
	if _, ok := DecodeRecord(enc); ok {
		t.Fatal("expected checksum failure")
	}
	if _, ok := DecodeRecord([]byte{0x01}); ok {
		t.Fatal("expected short-buffer failure")
	}
}
