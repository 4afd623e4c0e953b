// Package token defines the token record the runtime buffers and the pull
// interface producing tokens.
// Invariants:
//   - Token types are opaque small integers; EOF (-1) is the only type the
//     runtime interprets.
//   - A token's Index is stamped once, by the stream that fetched it, and is
//     -1 before that.
//   - Channel 0 is the default channel; every other channel is "hidden"
//     content (whitespace, comments) as far as channel queries go.
//   - A Source yields exactly one EOF token and nothing after it.
package token
