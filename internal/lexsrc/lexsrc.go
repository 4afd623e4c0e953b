// Package lexsrc is a token source over Go-like source text. It feeds the
// token buffer in the CLI and in tests that need realistic input rather than
// hand-built token lists.
package lexsrc

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/db47h/lex"
	"golang.org/x/text/unicode/norm"

	"atnrt/internal/grammar"
	"atnrt/internal/token"
)

// Token types produced by Scanner.
const (
	Ident = iota + token.MinUserTokenType
	Int
	Float
	Char
	String
	RawString
	Comment
	Punct
)

// lexer-only items, never handed out as tokens
const (
	itemEOF lex.Token = Punct + 1 + iota
	itemError
)

var symbolicNames = []string{"", "IDENT", "INT", "FLOAT", "CHAR", "STRING", "RAW_STRING", "COMMENT", "PUNCT"}

// Vocabulary names the token types of Scanner.
func Vocabulary() *grammar.Vocabulary {
	return grammar.NewVocabulary(nil, symbolicNames, nil)
}

// Position locates a scan error. Line and Column are 1-based.
type Position struct {
	Filename string
	Offset   int // rune offset
	Line     int
	Column   int
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// Reporter receives scan errors. Scanning continues after each one.
type Reporter interface {
	Report(pos Position, msg string)
}

// Options configures a Scanner.
type Options struct {
	Normalize      bool          // NFC-normalize the input before scanning
	CommentChannel token.Channel // channel for comments; 0 means hidden
	Reporter       Reporter      // may be nil
}

// cursor maps byte offsets to rune offsets and 0-based line columns.
type cursor struct {
	byteOff int
	runeOff int
	line    int
	col     int
}

// Scanner implements token.Source.
type Scanner struct {
	name string
	src  string
	opts Options
	lx   *lex.Lexer
	eof  *token.Token
	at   cursor

	// end of the token being scanned, and its value before the last read
	mark, prevMark int
	last           rune

	errors int
}

// New reads all of r and scans it.
func New(name string, r io.Reader, opts Options) (*Scanner, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: read: %w", name, err)
	}
	return NewString(name, string(data), opts), nil
}

// NewString scans src.
func NewString(name, src string, opts Options) *Scanner {
	if opts.Normalize {
		src = norm.NFC.String(src)
	}
	if opts.CommentChannel == token.DefaultChannel {
		opts.CommentChannel = token.HiddenChannel
	}
	s := &Scanner{name: name, src: src, opts: opts, at: cursor{line: 1}}
	s.lx = lex.NewLexer(lex.NewFile(name, strings.NewReader(src)), s.scan)
	return s
}

// SourceName returns the name given at construction.
func (s *Scanner) SourceName() string { return s.name }

// ErrorCount is the number of scan errors so far.
func (s *Scanner) ErrorCount() int { return s.errors }

// NextToken scans the next token. After the input is exhausted it keeps
// returning the same EOF token.
func (s *Scanner) NextToken() *token.Token {
	if s.eof != nil {
		return s.eof
	}
	for {
		item, off, v := s.lx.Lex()
		switch item {
		case itemEOF:
			c := s.locate(len(s.src))
			s.eof = token.NewEOF()
			s.eof.Start, s.eof.Stop = c.runeOff, c.runeOff-1
			s.eof.Line, s.eof.Column = c.line, c.col
			return s.eof
		case Ident, Int, Float, Char, String, RawString, Comment, Punct:
			end, _ := v.(int)
			return s.token(int(item), off, end)
		default:
			// itemError and errors raised by the lexer itself (invalid UTF-8)
			s.report(off, fmt.Sprint(v))
		}
	}
}

func (s *Scanner) token(ttype, off, end int) *token.Token {
	if end < off {
		end = off
	}
	text := s.src[off:end]
	c := s.locate(off)
	tok := token.New(ttype, text)
	tok.Start = c.runeOff
	tok.Stop = tok.Start + utf8.RuneCountInString(text) - 1
	tok.Line, tok.Column = c.line, c.col
	if ttype == Comment {
		tok.Channel = s.opts.CommentChannel
	}
	return tok
}

func (s *Scanner) report(off int, msg string) {
	s.errors++
	if s.opts.Reporter == nil {
		return
	}
	c := s.locate(off)
	s.opts.Reporter.Report(Position{Filename: s.name, Offset: c.runeOff, Line: c.line, Column: c.col + 1}, msg)
}

// locate advances the cursor to byte offset off. Errors may be reported
// behind the last token, in which case it restarts from the top.
func (s *Scanner) locate(off int) cursor {
	if off > len(s.src) {
		off = len(s.src)
	}
	if off < s.at.byteOff {
		s.at = cursor{line: 1}
	}
	for _, r := range s.src[s.at.byteOff:off] {
		s.at.runeOff++
		if r == '\n' {
			s.at.line++
			s.at.col = 0
		} else {
			s.at.col++
		}
	}
	s.at.byteOff = off
	return s.at
}

// next reads one rune and moves the token end past it.
func (s *Scanner) next(l *lex.State) rune {
	r := l.Next()
	s.prevMark, s.last = s.mark, r
	if r != lex.EOF {
		s.mark = l.Pos() + utf8.RuneLen(r)
	}
	return r
}

// backup undoes the last next.
func (s *Scanner) backup(l *lex.State) {
	if s.last != lex.EOF {
		l.Backup()
	}
	s.mark = s.prevMark
}

func (s *Scanner) emit(l *lex.State, start int, t lex.Token) lex.StateFn {
	l.Emit(start, t, s.mark)
	return nil
}

func (s *Scanner) fail(l *lex.State, off int, msg string) {
	l.Emit(off, itemError, msg)
}

// scan is the initial state: skip white space and dispatch on the first
// rune of a token.
func (s *Scanner) scan(l *lex.State) lex.StateFn {
	r := s.next(l)
	for unicode.IsSpace(r) {
		r = s.next(l)
	}
	if r == lex.EOF {
		l.Emit(len(s.src), itemEOF, nil)
		return nil
	}
	start := l.Pos()
	switch {
	case isLetter(r):
		s.run(l, isIdentPart)
		return s.emit(l, start, Ident)
	case isDecimal(r):
		return s.number(l, start, r)
	case r == '"' || r == '\'' || r == '`':
		return s.quoted(l, start, r)
	case r == '/':
		return s.comment(l, start)
	}
	return s.emit(l, start, Punct)
}

func (s *Scanner) run(l *lex.State, ok func(rune) bool) {
	for {
		if r := s.next(l); !ok(r) {
			s.backup(l)
			return
		}
	}
}

func (s *Scanner) number(l *lex.State, start int, first rune) lex.StateFn {
	if first == '0' {
		if r := s.next(l); r == 'x' || r == 'X' {
			s.run(l, isHex)
			return s.emit(l, start, Int)
		}
		s.backup(l)
	}
	s.run(l, isDecimal)
	kind := lex.Token(Int)
	r := s.next(l)
	if r == '.' {
		kind = Float
		s.run(l, isDecimal)
		r = s.next(l)
	}
	if r != 'e' && r != 'E' {
		s.backup(l)
		return s.emit(l, start, kind)
	}
	kind = Float
	if r = s.next(l); r == '+' || r == '-' {
		r = s.next(l)
	}
	if !isDecimal(r) {
		s.backup(l)
		s.fail(l, start, "exponent has no digits")
		return s.emit(l, start, kind)
	}
	s.run(l, isDecimal)
	return s.emit(l, start, kind)
}

func (s *Scanner) quoted(l *lex.State, start int, quote rune) lex.StateFn {
	kind := lex.Token(String)
	switch quote {
	case '\'':
		kind = Char
	case '`':
		kind = RawString
	}
	for {
		r := s.next(l)
		switch {
		case r == quote:
			return s.emit(l, start, kind)
		case r == '\\' && quote != '`':
			s.next(l)
		case r == lex.EOF, r == '\n' && quote != '`':
			s.backup(l)
			s.fail(l, start, "literal not terminated")
			return s.emit(l, start, kind)
		}
	}
}

func (s *Scanner) comment(l *lex.State, start int) lex.StateFn {
	switch s.next(l) {
	case '/':
		s.run(l, func(r rune) bool { return r != '\n' && r != lex.EOF })
		return s.emit(l, start, Comment)
	case '*':
		var prev rune
		for {
			r := s.next(l)
			if r == lex.EOF {
				s.fail(l, start, "comment not terminated")
				return s.emit(l, start, Comment)
			}
			if prev == '*' && r == '/' {
				return s.emit(l, start, Comment)
			}
			prev = r
		}
	}
	s.backup(l)
	return s.emit(l, start, Punct)
}

func isLetter(r rune) bool    { return r == '_' || unicode.IsLetter(r) }
func isIdentPart(r rune) bool { return isLetter(r) || unicode.IsDigit(r) }
func isDecimal(r rune) bool   { return '0' <= r && r <= '9' || r == '_' }
func isHex(r rune) bool       { return isDecimal(r) || 'a' <= r && r <= 'f' || 'A' <= r && r <= 'F' }
