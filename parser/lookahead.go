package parser

// Checkpoint is an immutable snapshot of a LookaheadScanner. Restoring it
// puts the scanner back exactly where it was when the checkpoint was
// taken.
type Checkpoint struct {
	lexer    lexerState
	token    Token
	previous Token
	quiet    int
}

// LookaheadScanner gives the parser the current token, the one before it,
// and the ability to scan ahead speculatively and come back.
type LookaheadScanner struct {
	lexer    *Lexer
	token    Token
	previous Token
}

// NewLookaheadScanner primes the scanner with the first token.
func NewLookaheadScanner(l *Lexer) *LookaheadScanner {
	s := &LookaheadScanner{lexer: l}
	s.Next()
	return s
}

// Next advances to the following token.
func (s *LookaheadScanner) Next() {
	s.previous = s.token
	s.token = s.lexer.NextToken()
}

// Token is the current, not yet consumed, token.
func (s *LookaheadScanner) Token() Token {
	return s.token
}

// PreviousToken is the most recently consumed token.
func (s *LookaheadScanner) PreviousToken() Token {
	return s.previous
}

// RecordPosition takes a checkpoint. Until the matching ReturnToPosition
// the lexer reports no diagnostics; the same input is scanned again, and
// reported then, once the parse proceeds for real.
func (s *LookaheadScanner) RecordPosition() Checkpoint {
	cp := Checkpoint{
		lexer:    s.lexer.snapshot(),
		token:    s.token,
		previous: s.previous,
		quiet:    s.lexer.quiet,
	}
	s.lexer.quiet++
	return cp
}

// ReturnToPosition replaces the scanner state with cp.
func (s *LookaheadScanner) ReturnToPosition(cp Checkpoint) {
	s.lexer.restore(cp.lexer)
	s.token = cp.token
	s.previous = cp.previous
	s.lexer.quiet = cp.quiet
}

func (s *LookaheadScanner) FileName() string {
	return s.lexer.FileName()
}

func (s *LookaheadScanner) ErrorHasOccurred() bool {
	return s.lexer.ErrorHasOccurred()
}
