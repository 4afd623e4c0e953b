package stream

import "atnrt/internal/token"

// CommonStream is a BufferedStream whose cursor only ever rests on tokens
// of one channel. Off-channel tokens stay buffered, so hidden-token queries
// and text extraction still see them.
type CommonStream struct {
	*BufferedStream
	channel token.Channel
}

// NewCommonStream creates a stream over src that skips tokens not on ch.
func NewCommonStream(src token.Source, ch token.Channel) *CommonStream {
	c := &CommonStream{
		BufferedStream: NewBuffered(src),
		channel:        ch,
	}
	c.adjust = func(i int) int { return c.NextTokenOnChannel(i, c.channel) }
	return c
}

// Channel returns the channel the cursor follows.
func (c *CommonStream) Channel() token.Channel { return c.channel }

// LB looks k on-channel tokens behind the cursor.
func (c *CommonStream) LB(k int) *token.Token {
	if k <= 0 || c.p-k < 0 {
		return nil
	}
	i := c.p
	// find k good tokens looking backward
	for n := 1; n <= k; n++ {
		if i <= 0 {
			return nil
		}
		i = c.PreviousTokenOnChannel(i-1, c.channel)
	}
	if i < 0 || i >= len(c.tokens) {
		return nil
	}
	return c.tokens[i]
}

// LT returns the k-th on-channel token from the cursor.
func (c *CommonStream) LT(k int) *token.Token {
	c.lazyInit()
	if k == 0 {
		return nil
	}
	if k < 0 {
		return c.LB(-k)
	}
	i := c.p
	// find k good tokens
	for n := 1; n < k; n++ {
		if c.sync(i + 1) {
			i = c.NextTokenOnChannel(i+1, c.channel)
		}
	}
	return c.tokens[i]
}

// LA returns the type of LT(k), or token.InvalidType when LT(k) is nil.
func (c *CommonStream) LA(k int) int {
	t := c.LT(k)
	if t == nil {
		return token.InvalidType
	}
	return t.Type
}

// OnChannelCount fills the stream and counts tokens on the followed
// channel, EOF included.
func (c *CommonStream) OnChannelCount() int {
	c.Fill()
	n := 0
	for _, t := range c.tokens {
		if t.Channel == c.channel {
			n++
		}
		if t.Type == token.EOF {
			break
		}
	}
	return n
}
