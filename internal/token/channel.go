package token

import "strconv"

// Channel tags a token as primary content or auxiliary content.
type Channel int

const (
	// DefaultChannel carries the tokens a parser consumes.
	DefaultChannel Channel = 0
	// HiddenChannel is the conventional channel for whitespace and comments.
	HiddenChannel Channel = 1
)

func (c Channel) String() string {
	switch c {
	case DefaultChannel:
		return "default"
	case HiddenChannel:
		return "hidden"
	default:
		return "channel(" + strconv.Itoa(int(c)) + ")"
	}
}

// ChannelSelector picks tokens by channel. The zero value, AnyOffChannel,
// selects every token not on the default channel.
type ChannelSelector struct {
	channel  Channel
	specific bool
}

// AnyOffChannel selects tokens on any channel other than DefaultChannel.
var AnyOffChannel = ChannelSelector{}

// OnChannel selects tokens on exactly c.
func OnChannel(c Channel) ChannelSelector {
	return ChannelSelector{channel: c, specific: true}
}

// Channel returns the selected channel and whether one was specified.
func (s ChannelSelector) Channel() (Channel, bool) {
	return s.channel, s.specific
}

// Match reports whether a token on channel c is selected.
func (s ChannelSelector) Match(c Channel) bool {
	if s.specific {
		return c == s.channel
	}
	return c != DefaultChannel
}

func (s ChannelSelector) String() string {
	if !s.specific {
		return "off-channel"
	}
	return s.channel.String()
}
