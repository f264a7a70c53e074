package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestTextFormatterSortsFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithLevel(DebugLevel), WithFormatter(&TextFormatter{}), WithOutput(&WriterOutput{W: &buf}))
	l.Info("hello", Str("b", "two"), Str("a", "one"))
	line := buf.String()
	if !strings.Contains(line, "INFO hello") {
		t.Fatalf("missing level/message: %q", line)
	}
	if strings.Index(line, "a=one") > strings.Index(line, "b=two") {
		t.Fatalf("fields not sorted: %q", line)
	}
}

func TestJSONFormatterIncludesFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithFormatter(&JSONFormatter{}), WithOutput(&WriterOutput{W: &buf}))
	l.With(Component("registry")).Error("boom", Err(errors.New("bad")), Int64("id", 7))
	var obj map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &obj); err != nil {
		t.Fatalf("invalid json: %v (%q)", err, buf.String())
	}
	if obj["level"] != "ERROR" || obj["msg"] != "boom" {
		t.Fatalf("unexpected envelope: %v", obj)
	}
	if obj["component"] != "registry" || obj["error"] != "bad" {
		t.Fatalf("unexpected fields: %v", obj)
	}
}

func TestLevelGate(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithLevel(WarnLevel), WithFormatter(&TextFormatter{}), WithOutput(&WriterOutput{W: &buf}))
	l.Debug("quiet")
	l.Info("quiet")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below warn, got %q", buf.String())
	}
	l.Warn("loud")
	if buf.Len() == 0 {
		t.Fatal("expected warn output")
	}
}

func TestParseLevel(t *testing.T) {
	if lvl, err := ParseLevel("debug"); err != nil || lvl != DebugLevel {
		t.Fatalf("debug: %v %v", lvl, err)
	}
	if _, err := ParseLevel("nope"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
