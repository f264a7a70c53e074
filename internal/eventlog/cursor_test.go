package eventlog

import (
	"testing"
)

func TestCursorCommitAndLoad(t *testing.T) {
	l := newTestLog(t)
	if _, ok := l.GetCursor("indexer"); ok {
		t.Fatal("unexpected cursor before commit")
	}
	if err := l.CommitCursor("indexer", TokenFromSeq(7)); err != nil {
		t.Fatalf("commit: %v", err)
	}
	tok, ok := l.GetCursor("indexer")
	if !ok || tok.Seq() != 7 {
		t.Fatalf("want seq 7, got ok=%v seq=%d", ok, tok.Seq())
	}
}

func TestCursorNeverMovesBackwards(t *testing.T) {
	l := newTestLog(t)
	if err := l.CommitCursor("indexer", TokenFromSeq(9)); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := l.CommitCursor("indexer", TokenFromSeq(3)); err != nil {
		t.Fatalf("commit lower: %v", err)
	}
	tok, _ := l.GetCursor("indexer")
	if tok.Seq() != 9 {
		t.Fatalf("cursor moved backwards: %d", tok.Seq())
	}
}
