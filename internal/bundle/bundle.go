// Package bundle stores a grammar on disk: the serialized ATN together with
// the names a recognizer needs. Bundles are msgpack files; they are built
// from a TOML pack manifest.
package bundle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"

	"atnrt/internal/atn"
	"atnrt/internal/grammar"
	"atnrt/internal/sim"
	"atnrt/internal/trace"
)

// Schema is the current bundle format version; bump when Bundle changes.
const Schema uint16 = 1

// Ext is the conventional bundle file extension.
const Ext = ".atnb"

// ErrSchema reports a bundle written with another format version.
var ErrSchema = errors.New("bundle: schema mismatch")

// Bundle is one grammar ready to load.
type Bundle struct {
	Schema      uint16
	Name        string
	GrammarType uint8 // atn.GrammarType

	LiteralNames  []string
	SymbolicNames []string
	RuleNames     []string
	ModeNames     []string
	ChannelNames  []string

	ATN []int32
}

// Vocabulary builds the token vocabulary of b.
func (b *Bundle) Vocabulary() *grammar.Vocabulary {
	return grammar.NewVocabulary(b.LiteralNames, b.SymbolicNames, nil)
}

// Names returns the rule, mode and channel names of b.
func (b *Bundle) Names() grammar.Names {
	return grammar.Names{Rules: b.RuleNames, Modes: b.ModeNames, Channels: b.ChannelNames}
}

// Load deserializes the ATN and binds it to the bundle's names. The
// grammar type recorded in the bundle must match the ATN.
func (b *Bundle) Load(ctx context.Context, opts ...sim.Option) (*grammar.Recognizer, error) {
	span, ctx := trace.Start(ctx, trace.ScopeGrammar, "grammar:"+b.Name)
	s, err := sim.Load(ctx, b.ATN, opts...)
	if err != nil {
		span.End("error")
		return nil, fmt.Errorf("grammar %s: %w", b.Name, err)
	}
	if got := s.ATN().GrammarType; got != atn.GrammarType(b.GrammarType) {
		span.End("error")
		return nil, fmt.Errorf("grammar %s: bundle says %v, ATN is %v", b.Name, atn.GrammarType(b.GrammarType), got)
	}
	r, err := grammar.NewRecognizer(b.Name, b.Vocabulary(), b.Names(), s)
	if err != nil {
		span.End("error")
		return nil, err
	}
	span.WithExtra("rules", strconv.Itoa(len(b.RuleNames))).End("ok")
	return r, nil
}

// Write encodes b to path, replacing any existing file atomically.
func Write(path string, b *Bundle) (err error) {
	if b.Schema == 0 {
		b.Schema = Schema
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(b); err != nil {
		return fmt.Errorf("%s: encode: %w", path, err)
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// Read decodes the bundle at path.
func Read(path string) (*Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var b Bundle
	if err := msgpack.NewDecoder(f).Decode(&b); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", path, err)
	}
	if b.Schema != Schema {
		return nil, fmt.Errorf("%s: %w: got %d, want %d", path, ErrSchema, b.Schema, Schema)
	}
	return &b, nil
}
