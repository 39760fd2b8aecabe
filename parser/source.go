package parser

import (
	"io"
	"strings"
)

// EOFCh is returned by Source.Next once the input is exhausted.
const EOFCh rune = -1

// Source supplies characters one at a time and tracks the line of the
// character most recently returned. All line endings are normalized to
// '\n' before any counting happens.
type Source struct {
	text  []rune
	state sourceState
}

// sourceState is everything needed to rewind a Source.
type sourceState struct {
	offset       int
	line         int
	afterNewline bool
}

// NewSource reads r to the end. On a read error the returned Source holds
// whatever was read before the failure.
func NewSource(r io.Reader) (*Source, error) {
	data, err := io.ReadAll(r)
	return NewSourceString(string(data)), err
}

func NewSourceString(s string) *Source {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return &Source{
		text:  []rune(s),
		state: sourceState{line: 1},
	}
}

// Next returns the next character, or EOFCh.
func (s *Source) Next() rune {
	if s.state.offset >= len(s.text) {
		return EOFCh
	}
	if s.state.afterNewline {
		s.state.line++
	}
	ch := s.text[s.state.offset]
	s.state.offset++
	s.state.afterNewline = ch == '\n'
	return ch
}

// Line is the line of the last character returned by Next, starting at 1.
func (s *Source) Line() int {
	return s.state.line
}

func (s *Source) snapshot() sourceState {
	return s.state
}

func (s *Source) restore(st sourceState) {
	s.state = st
}
