package token

import (
	"fmt"
	"strconv"
	"strings"
)

// Reserved token types.
const (
	// InvalidType marks a token with no valid type.
	InvalidType = 0
	// EOF marks the end of the token stream.
	EOF = -1
	// Epsilon is used in lookahead sets for "reached the end of the rule".
	Epsilon = -2
	// MinUserTokenType is the smallest type a grammar may assign.
	MinUserTokenType = 1
)

// Token represents a single token produced by a Source.
type Token struct {
	Type    int
	Channel Channel
	Start   int // char offset, inclusive
	Stop    int // char offset, inclusive
	Line    int
	Column  int
	Text    string

	index   int
	stamped bool
}

// New creates a default-channel token of the given type and text.
func New(ttype int, text string) *Token {
	return &Token{Type: ttype, Text: text, Start: -1, Stop: -1}
}

// NewEOF creates an EOF token.
func NewEOF() *Token {
	return &Token{Type: EOF, Text: "<EOF>", Start: -1, Stop: -1}
}

// Index returns the token's position in its stream, or -1 if it was never
// fetched by one.
func (t *Token) Index() int {
	if !t.stamped {
		return -1
	}
	return t.index
}

// SetIndex stamps the stream position. Streams call it exactly once, when
// the token is fetched.
func (t *Token) SetIndex(i int) {
	t.index = i
	t.stamped = true
}

// IsEOF reports whether the token ends the stream.
func (t *Token) IsEOF() bool { return t != nil && t.Type == EOF }

// OnDefaultChannel reports whether the token is primary content.
func (t *Token) OnDefaultChannel() bool { return t.Channel == DefaultChannel }

// String renders the token the way diagnostic dumps print it:
// [@index,start:stop='text',<type>,channel=n,line:col].
func (t *Token) String() string {
	if t == nil {
		return "<nil>"
	}
	var sb strings.Builder
	sb.WriteString("[@")
	sb.WriteString(strconv.Itoa(t.Index()))
	sb.WriteString(",")
	sb.WriteString(strconv.Itoa(t.Start))
	sb.WriteString(":")
	sb.WriteString(strconv.Itoa(t.Stop))
	sb.WriteString("='")
	sb.WriteString(EscapeWhitespace(t.Text))
	sb.WriteString("',<")
	sb.WriteString(strconv.Itoa(t.Type))
	sb.WriteString(">")
	if t.Channel != DefaultChannel {
		sb.WriteString(",channel=")
		sb.WriteString(strconv.Itoa(int(t.Channel)))
	}
	sb.WriteString(fmt.Sprintf(",%d:%d]", t.Line, t.Column))
	return sb.String()
}

var whitespaceEscaper = strings.NewReplacer("\n", `\n`, "\r", `\r`, "\t", `\t`)

// EscapeWhitespace replaces newlines, carriage returns and tabs with their
// escape sequences so token text stays on one line.
func EscapeWhitespace(s string) string {
	return whitespaceEscaper.Replace(s)
}
