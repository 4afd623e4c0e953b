package bundle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"

	"atnrt/internal/atn"
)

// Manifest describes a grammar to pack:
//
//	[grammar]
//	name = "Expr"
//	type = "parser"
//	atn = "Expr.atn"
//
//	[names]
//	symbolic = ["", "A", "B", "C"]
//	rules = ["s", "b"]
type Manifest struct {
	Path string `toml:"-"`

	Grammar grammarSection `toml:"grammar"`
	Names   namesSection   `toml:"names"`
}

type grammarSection struct {
	Name   string `toml:"name"`
	Type   string `toml:"type"`
	ATN    string `toml:"atn"`
	Output string `toml:"output"`
}

type namesSection struct {
	Literal  []string `toml:"literal"`
	Symbolic []string `toml:"symbolic"`
	Rules    []string `toml:"rules"`
	Modes    []string `toml:"modes"`
	Channels []string `toml:"channels"`
}

// ReadManifest decodes and validates the manifest at path.
func ReadManifest(path string) (*Manifest, error) {
	var m Manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("grammar") {
		return nil, fmt.Errorf("%s: missing [grammar]", path)
	}
	if !meta.IsDefined("grammar", "name") || strings.TrimSpace(m.Grammar.Name) == "" {
		return nil, fmt.Errorf("%s: missing [grammar].name", path)
	}
	if !meta.IsDefined("grammar", "atn") || strings.TrimSpace(m.Grammar.ATN) == "" {
		return nil, fmt.Errorf("%s: missing [grammar].atn", path)
	}
	if _, err := ParseGrammarType(m.Grammar.Type); err != nil {
		return nil, fmt.Errorf("%s: [grammar].type: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	m.Path = path
	return &m, nil
}

// ParseGrammarType accepts "lexer" or "parser"; empty means parser.
func ParseGrammarType(s string) (atn.GrammarType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "parser":
		return atn.GrammarParser, nil
	case "lexer":
		return atn.GrammarLexer, nil
	default:
		return 0, fmt.Errorf("unknown grammar type %q", s)
	}
}

// Root is the directory relative paths in the manifest resolve against.
func (m *Manifest) Root() string { return filepath.Dir(m.Path) }

// OutputPath is where the bundle goes: [grammar].output, or the grammar
// name with the bundle extension next to the manifest.
func (m *Manifest) OutputPath() string {
	out := m.Grammar.Output
	if out == "" {
		out = m.Grammar.Name + Ext
	}
	return m.resolve(out)
}

func (m *Manifest) resolve(p string) string {
	p = filepath.FromSlash(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Root(), p)
}

// Build reads the ATN text the manifest points at and assembles a bundle.
// The ATN is not validated here.
func (m *Manifest) Build() (*Bundle, error) {
	gt, err := ParseGrammarType(m.Grammar.Type)
	if err != nil {
		return nil, err
	}
	atnPath := m.resolve(m.Grammar.ATN)
	f, err := os.Open(atnPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := ParseATN(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", atnPath, err)
	}
	return &Bundle{
		Schema:        Schema,
		Name:          m.Grammar.Name,
		GrammarType:   uint8(gt),
		LiteralNames:  m.Names.Literal,
		SymbolicNames: m.Names.Symbolic,
		RuleNames:     m.Names.Rules,
		ModeNames:     m.Names.Modes,
		ChannelNames:  m.Names.Channels,
		ATN:           data,
	}, nil
}

const maxLine = 16 << 20

// ParseATN reads serialized ATN values written as integers separated by
// commas or whitespace. Text after '#' or "//" on a line is ignored, so
// generated Go slice bodies can be pasted in directly.
func ParseATN(r io.Reader) ([]int32, error) {
	var data []int32
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.Index(text, "//"); i >= 0 {
			text = text[:i]
		}
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		for _, field := range strings.FieldsFunc(text, isSeparator) {
			v, err := strconv.ParseInt(field, 0, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad value %q", line, field)
			}
			n, err := safecast.Conv[int32](v)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			data = append(data, n)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return data, nil
}

func isSeparator(r rune) bool {
	return r == ',' || r == ' ' || r == '\t' || r == '\r'
}
