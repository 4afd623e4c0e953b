// Package stream buffers tokens pulled from a token.Source and gives parsers
// random access to them.
//
// The buffer never discards a fetched token: rewinding only moves the
// cursor, so lookahead, lookbehind and backtracking are plain slice reads.
// Tokens are fetched lazily, one at a time, the first time an index is
// needed; Fill materializes the whole source.
package stream

import (
	"fmt"
	"strings"

	"atnrt/internal/interval"
	"atnrt/internal/token"
)

// fillBlockSize is the number of tokens Fill requests per round.
const fillBlockSize = 1000

// BufferedStream is a random-access, lazily filled buffer over a token
// source. It is owned by one parsing session and is not safe for
// concurrent use.
type BufferedStream struct {
	source     token.Source
	tokens     []*token.Token
	p          int
	needSetup  bool
	fetchedEOF bool

	// adjust maps a requested seek index to the index the cursor lands on.
	adjust func(i int) int
}

// NewBuffered creates a stream bound to src. Nothing is fetched until the
// first access.
func NewBuffered(src token.Source) *BufferedStream {
	b := &BufferedStream{
		source:    src,
		tokens:    make([]*token.Token, 0, 100),
		needSetup: true,
	}
	b.adjust = func(i int) int { return i }
	return b
}

// Source returns the bound token source.
func (b *BufferedStream) Source() token.Source { return b.source }

// SourceName returns the bound source's name.
func (b *BufferedStream) SourceName() string { return b.source.SourceName() }

// SetSource rebinds the stream. Buffered tokens are dropped and the stream
// is set up again on next access.
func (b *BufferedStream) SetSource(src token.Source) {
	b.source = src
	b.tokens = b.tokens[:0]
	b.p = 0
	b.fetchedEOF = false
	b.needSetup = true
}

// Index returns the cursor position.
func (b *BufferedStream) Index() int { return b.p }

// Mark is a no-op; the stream keeps every token.
func (b *BufferedStream) Mark() int { return 0 }

// Release is a no-op counterpart of Mark.
func (b *BufferedStream) Release(int) {}

// Reset seeks to the first token.
func (b *BufferedStream) Reset() { b.Seek(0) }

// Seek moves the cursor to the adjusted position for i.
func (b *BufferedStream) Seek(i int) {
	b.lazyInit()
	b.p = b.adjust(i)
}

// Size returns the number of tokens fetched so far.
func (b *BufferedStream) Size() int { return len(b.tokens) }

// Initialized reports whether the first token has been fetched.
func (b *BufferedStream) Initialized() bool { return !b.needSetup }

// Consume advances the cursor by one token. Consuming EOF is an error.
func (b *BufferedStream) Consume() error {
	var skipEOFCheck bool
	if !b.needSetup {
		if b.fetchedEOF {
			// the last buffered token is EOF; any earlier index is safe
			skipEOFCheck = b.p < len(b.tokens)-1
		} else {
			skipEOFCheck = b.p < len(b.tokens)
		}
	}
	if !skipEOFCheck && b.LA(1) == token.EOF {
		return fmt.Errorf("cannot consume EOF at index %d: %w", b.p, ErrIllegalState)
	}
	if b.sync(b.p + 1) {
		b.p = b.adjust(b.p + 1)
	}
	return nil
}

// sync makes sure index i is buffered. It reports false if the source hit
// EOF before reaching i.
func (b *BufferedStream) sync(i int) bool {
	n := i - len(b.tokens) + 1
	if n > 0 {
		return b.fetch(n) >= n
	}
	return true
}

// fetch pulls up to n tokens, stamping each with its index, and stops right
// after an EOF token. It returns how many tokens were added.
func (b *BufferedStream) fetch(n int) int {
	if b.fetchedEOF {
		return 0
	}
	for i := 0; i < n; i++ {
		t := b.source.NextToken()
		t.SetIndex(len(b.tokens))
		b.tokens = append(b.tokens, t)
		if t.Type == token.EOF {
			b.fetchedEOF = true
			return i + 1
		}
	}
	return n
}

// Get returns the token at absolute index i. Only buffered tokens are
// reachable; Get never fetches.
func (b *BufferedStream) Get(i int) (*token.Token, error) {
	if i < 0 || i >= len(b.tokens) {
		return nil, &RangeError{Index: i, Stop: -1, Size: len(b.tokens)}
	}
	return b.tokens[i], nil
}

// GetRange returns tokens start..stop inclusive, clamped to the buffer and
// cut short before an EOF token.
func (b *BufferedStream) GetRange(start, stop int) []*token.Token {
	if start < 0 || stop < 0 {
		return nil
	}
	b.lazyInit()
	if len(b.tokens) == 0 {
		return nil
	}
	if stop >= len(b.tokens) {
		stop = len(b.tokens) - 1
	}
	var subset []*token.Token
	for i := start; i <= stop; i++ {
		t := b.tokens[i]
		if t.Type == token.EOF {
			break
		}
		subset = append(subset, t)
	}
	return subset
}

// LA returns the type of LT(k), or token.InvalidType when LT(k) is nil.
func (b *BufferedStream) LA(k int) int {
	t := b.LT(k)
	if t == nil {
		return token.InvalidType
	}
	return t.Type
}

// LB looks k tokens behind the cursor. It returns nil before index 0 and
// past the buffered tokens.
func (b *BufferedStream) LB(k int) *token.Token {
	if k <= 0 || b.p-k < 0 || b.p-k >= len(b.tokens) {
		return nil
	}
	return b.tokens[b.p-k]
}

// LT returns the token k positions from the cursor: k=1 is the current
// token, negative k looks behind. LT(0) and lookbehind past the start are
// nil; lookahead past the end yields the EOF token.
func (b *BufferedStream) LT(k int) *token.Token {
	b.lazyInit()
	if k == 0 {
		return nil
	}
	if k < 0 {
		return b.LB(-k)
	}
	i := b.p + k - 1
	b.sync(i)
	if i >= len(b.tokens) {
		// EOF is always the last buffered token here
		return b.tokens[len(b.tokens)-1]
	}
	return b.tokens[i]
}

func (b *BufferedStream) lazyInit() {
	if b.needSetup {
		b.setup()
	}
}

func (b *BufferedStream) setup() {
	b.needSetup = false
	b.sync(0)
	b.p = b.adjust(0)
}

// Tokens returns the buffered tokens. The slice must not be modified.
func (b *BufferedStream) Tokens() []*token.Token { return b.tokens }

// TokensInRange returns buffered tokens start..stop inclusive whose type is
// one of types, or all of them when types is empty.
func (b *BufferedStream) TokensInRange(start, stop int, types ...int) ([]*token.Token, error) {
	b.lazyInit()
	if start < 0 || stop >= len(b.tokens) || stop < 0 || start >= len(b.tokens) {
		return nil, &RangeError{Index: start, Stop: stop, Size: len(b.tokens)}
	}
	if start > stop {
		return nil, nil
	}
	var filtered []*token.Token
	for _, t := range b.tokens[start : stop+1] {
		if len(types) == 0 || containsType(types, t.Type) {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

func containsType(types []int, t int) bool {
	for _, v := range types {
		if v == t {
			return true
		}
	}
	return false
}

// NextTokenOnChannel returns the index of the first token at or after i on
// channel ch. EOF counts as being on every channel.
func (b *BufferedStream) NextTokenOnChannel(i int, ch token.Channel) int {
	b.sync(i)
	if i >= len(b.tokens) {
		return len(b.tokens) - 1
	}
	t := b.tokens[i]
	for t.Channel != ch {
		if t.Type == token.EOF {
			return i
		}
		i++
		b.sync(i)
		t = b.tokens[i]
	}
	return i
}

// PreviousTokenOnChannel returns the index of the last token at or before i
// on channel ch, or -1 if there is none. EOF counts as being on every
// channel.
func (b *BufferedStream) PreviousTokenOnChannel(i int, ch token.Channel) int {
	b.sync(i)
	if i >= len(b.tokens) {
		return len(b.tokens) - 1
	}
	for i >= 0 {
		t := b.tokens[i]
		if t.Type == token.EOF || t.Channel == ch {
			return i
		}
		i--
	}
	return i
}

// HiddenTokensToRight collects the tokens after tokenIndex up to the next
// default-channel token that match sel. It returns nil when there are none.
func (b *BufferedStream) HiddenTokensToRight(tokenIndex int, sel token.ChannelSelector) ([]*token.Token, error) {
	b.lazyInit()
	if tokenIndex < 0 || tokenIndex >= len(b.tokens) {
		return nil, &RangeError{Index: tokenIndex, Stop: -1, Size: len(b.tokens)}
	}
	nextOnChannel := b.NextTokenOnChannel(tokenIndex+1, token.DefaultChannel)
	from := tokenIndex + 1
	to := nextOnChannel
	if nextOnChannel == -1 {
		to = len(b.tokens) - 1
	}
	return b.filterForChannel(from, to, sel), nil
}

// HiddenTokensToLeft collects the tokens before tokenIndex back to the
// previous default-channel token that match sel. It returns nil when there
// are none.
func (b *BufferedStream) HiddenTokensToLeft(tokenIndex int, sel token.ChannelSelector) ([]*token.Token, error) {
	b.lazyInit()
	if tokenIndex < 0 || tokenIndex >= len(b.tokens) {
		return nil, &RangeError{Index: tokenIndex, Stop: -1, Size: len(b.tokens)}
	}
	if tokenIndex == 0 {
		return nil, nil
	}
	prevOnChannel := b.PreviousTokenOnChannel(tokenIndex-1, token.DefaultChannel)
	if prevOnChannel == tokenIndex-1 {
		return nil, nil
	}
	// prevOnChannel is -1 when nothing on-channel precedes the token
	from := prevOnChannel + 1
	to := tokenIndex - 1
	return b.filterForChannel(from, to, sel), nil
}

func (b *BufferedStream) filterForChannel(from, to int, sel token.ChannelSelector) []*token.Token {
	var hidden []*token.Token
	for i := from; i <= to && i < len(b.tokens); i++ {
		t := b.tokens[i]
		if sel.Match(t.Channel) {
			hidden = append(hidden, t)
		}
	}
	return hidden
}

// Text fills the stream and returns the text of every token before EOF.
func (b *BufferedStream) Text() string {
	b.Fill()
	return b.TextInterval(interval.Of(0, len(b.tokens)-1))
}

// TextInterval concatenates the text of tokens in iv, clamped to the
// buffer and stopping at EOF.
func (b *BufferedStream) TextInterval(iv interval.Interval) string {
	start, stop := iv.Start, iv.Stop
	if start < 0 || stop < 0 {
		return ""
	}
	b.sync(stop)
	if stop >= len(b.tokens) {
		stop = len(b.tokens) - 1
	}
	var sb strings.Builder
	for i := start; i <= stop; i++ {
		t := b.tokens[i]
		if t.Type == token.EOF {
			break
		}
		sb.WriteString(t.Text)
	}
	return sb.String()
}

// TextBetween returns the text from start to stop inclusive; both tokens
// must belong to this stream.
func (b *BufferedStream) TextBetween(start, stop *token.Token) string {
	if start == nil || stop == nil {
		return ""
	}
	return b.TextInterval(interval.Of(start.Index(), stop.Index()))
}

// Spanned is anything covering a range of token indexes, such as a parse
// tree node.
type Spanned interface {
	SourceInterval() interval.Interval
}

// TextOf returns the text of the tokens n covers.
func (b *BufferedStream) TextOf(n Spanned) string {
	return b.TextInterval(n.SourceInterval())
}

// Fill fetches every remaining token from the source.
func (b *BufferedStream) Fill() {
	b.lazyInit()
	for {
		if fetched := b.fetch(fillBlockSize); fetched < fillBlockSize {
			return
		}
	}
}
