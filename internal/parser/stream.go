package parser

import (
	"spool/internal/lexer"
	"spool/internal/token"
)

// tokenStream sits between the parser and a lexer.Source. It records every
// token it pulls, hidden ones included, and hands the parser only the
// default channel with a small lookahead buffer.
type tokenStream struct {
	src  lexer.Source
	all  []token.Token
	look []token.Token
	eof  bool
}

func newTokenStream(src lexer.Source) *tokenStream {
	return &tokenStream{src: src, all: make([]token.Token, 0, 256)}
}

func (s *tokenStream) fill(n int) {
	for len(s.look) < n {
		if s.eof {
			// EOF repeats but is recorded once
			s.look = append(s.look, s.look[len(s.look)-1])
			continue
		}
		tok := s.src.Next()
		s.all = append(s.all, tok)
		if tok.IsHidden() {
			continue
		}
		if tok.Kind == token.EOF {
			s.eof = true
		}
		s.look = append(s.look, tok)
	}
}

func (s *tokenStream) Peek() token.Token {
	s.fill(1)
	return s.look[0]
}

func (s *tokenStream) Peek2() token.Token {
	s.fill(2)
	return s.look[1]
}

func (s *tokenStream) Next() token.Token {
	s.fill(1)
	tok := s.look[0]
	s.look = s.look[1:]
	return tok
}

// drain pulls the rest of the source so the recorded stream is complete.
func (s *tokenStream) drain() []token.Token {
	for !s.eof {
		s.Next()
	}
	return s.all
}
