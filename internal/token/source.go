package token

// Source produces tokens on demand. It must eventually produce exactly one
// EOF token; callers never ask for more after that.
type Source interface {
	NextToken() *Token
	SourceName() string
}

// SliceSource replays a fixed token list. If the list does not end with an
// EOF token one is appended; after EOF it keeps returning the same EOF.
type SliceSource struct {
	name   string
	tokens []*Token
	pos    int
	pulled int
}

// NewSliceSource creates a source over toks.
func NewSliceSource(name string, toks ...*Token) *SliceSource {
	if len(toks) == 0 || toks[len(toks)-1].Type != EOF {
		eof := NewEOF()
		if len(toks) > 0 {
			last := toks[len(toks)-1]
			eof.Start = last.Stop + 1
			eof.Stop = last.Stop
			eof.Line = last.Line
		}
		toks = append(toks, eof)
	}
	return &SliceSource{name: name, tokens: toks}
}

// NextToken returns the next token of the list.
func (s *SliceSource) NextToken() *Token {
	s.pulled++
	t := s.tokens[s.pos]
	if s.pos < len(s.tokens)-1 {
		s.pos++
	}
	return t
}

// SourceName returns the name the source was created with.
func (s *SliceSource) SourceName() string { return s.name }

// Pulled reports how many times NextToken was called.
func (s *SliceSource) Pulled() int { return s.pulled }
