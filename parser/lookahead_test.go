package parser

import (
	"testing"

	"github.com/dhamidi/jminus/diag"
)

func TestLookaheadReturnToPosition(t *testing.T) {
	s := NewLookaheadScanner(NewLexerString("a b c d", "test.java", nil))
	s.Next()
	if got := s.Token().Literal; got != "b" {
		t.Fatalf("Token() = %q, want %q", got, "b")
	}

	cp := s.RecordPosition()
	s.Next()
	s.Next()
	if got := s.Token().Literal; got != "d" {
		t.Fatalf("Token() = %q, want %q", got, "d")
	}
	s.ReturnToPosition(cp)

	if got := s.Token().Literal; got != "b" {
		t.Errorf("Token() after restore = %q, want %q", got, "b")
	}
	if got := s.PreviousToken().Literal; got != "a" {
		t.Errorf("PreviousToken() after restore = %q, want %q", got, "a")
	}
	s.Next()
	if got := s.Token().Literal; got != "c" {
		t.Errorf("Token() = %q, want %q", got, "c")
	}
}

func TestLookaheadNestedCheckpoints(t *testing.T) {
	s := NewLookaheadScanner(NewLexerString("1 2 3 4", "test.java", nil))
	outer := s.RecordPosition()
	s.Next()
	inner := s.RecordPosition()
	s.Next()
	s.ReturnToPosition(inner)
	if got := s.Token().Literal; got != "2" {
		t.Errorf("Token() after inner restore = %q, want %q", got, "2")
	}
	s.ReturnToPosition(outer)
	if got := s.Token().Literal; got != "1" {
		t.Errorf("Token() after outer restore = %q, want %q", got, "1")
	}
}

func TestLookaheadReportsOnce(t *testing.T) {
	c := &diag.Collector{}
	s := NewLookaheadScanner(NewLexerString("a # b", "test.java", c))
	cp := s.RecordPosition()
	s.Next()
	s.Next()
	if c.Len() != 0 {
		t.Fatalf("diagnostics while speculating: %v", c.Diagnostics())
	}
	s.ReturnToPosition(cp)
	for s.Token().Kind != TokenEOF {
		s.Next()
	}
	if c.Len() != 1 {
		t.Errorf("got %d diagnostics, want 1: %v", c.Len(), c.Diagnostics())
	}
	if !s.ErrorHasOccurred() {
		t.Error("ErrorHasOccurred() = false, want true")
	}
}
