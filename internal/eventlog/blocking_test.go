package eventlog

import (
	"context"
	"testing"
	"time"
)

func TestWaitForAppendTimesOut(t *testing.T) {
	l := newTestLog(t)
	if l.WaitForAppend(10 * time.Millisecond) {
		t.Fatal("expected timeout with no appends")
	}
}

func TestWaitForAppendWakes(t *testing.T) {
	l := newTestLog(t)
	done := make(chan bool, 1)
	go func() { done <- l.WaitForAppend(2 * time.Second) }()
	time.Sleep(20 * time.Millisecond)
	if _, err := l.Append(context.Background(), []AppendRecord{{Payload: []byte("x")}}); err != nil {
		t.Fatalf("append: %v", err)
	}
	select {
	case woke := <-done:
		if !woke {
			t.Fatal("waiter timed out instead of waking")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("waiter never returned")
	}
}
