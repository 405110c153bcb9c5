package confstr

import (
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/confstr/log"
)

// Option configures a call to [Parse].
type Option func(*parser)

// WithLogger sets the logger used to trace parsing. Parameter values are
// never logged.
func WithLogger(logger log.Logger) Option {
	return func(p *parser) { p.logger = logger }
}

// Parse parses a configuration string.
//
// The returned error, if any, is an [*Error].
func Parse(s string, opts ...Option) (*ConfStr, error) {
	p := &parser{input: s}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	c, err := p.parse()
	if err != nil {
		p.logger.Trace("parse failed", slog.Any("error", err))

		return nil, err
	}

	p.logger.Trace("parse complete",
		slog.String("service", c.service),
		slog.Int("param_count", len(c.params)))

	return c, nil
}

// ParseBytes is like [Parse] but reads a byte slice.
func ParseBytes(b []byte, opts ...Option) (*ConfStr, error) {
	return Parse(string(b), opts...)
}

type parser struct {
	cur    *cursor[char]
	input  string
	logger log.Logger
}

func (p *parser) parse() (*ConfStr, error) {
	if pos := invalidUTF8(p.input); pos >= 0 {
		return nil, &Error{Kind: KindInvalidUTF8, Pos: pos}
	}

	p.cur = newCursor(chars(p.input))

	service, err := p.ident()
	if err != nil {
		return nil, err
	}

	params := make(Params)

	more, err := p.serviceSeparator()
	if err != nil {
		return nil, err
	}

	if more {
		if err := p.params(params); err != nil {
			return nil, err
		}
	}

	return &ConfStr{service: service, params: params}, nil
}

// invalidUTF8 returns the byte offset of the first invalid UTF-8 sequence in
// s, or -1.
func invalidUTF8(s string) int {
	if utf8.ValidString(s) {
		return -1
	}

	for i := 0; i < len(s); {
		r, n := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && n == 1 {
			return i
		}

		i += n
	}

	return -1
}

func isIdentRune(r rune) bool {
	return r == '_' ||
		('0' <= r && r <= '9') ||
		('a' <= r && r <= 'z') ||
		('A' <= r && r <= 'Z')
}

// ident reads a maximal run of identifier runes. It stops without error at
// ASCII punctuation so the caller can report the separator.
func (p *parser) ident() (string, error) {
	start, end := len(p.input), len(p.input)
	if c, ok := p.cur.peek0(); ok {
		start = c.pos
	}

	for {
		c, ok := p.cur.peek0()
		if !ok {
			break
		}

		if isIdentRune(c.ch) {
			p.cur.advance()

			continue
		}

		end = c.pos

		if end == start {
			return "", &Error{Kind: KindExpectedIdentifierNot, Pos: c.pos, Char: c.ch}
		}

		if c.ch >= utf8.RuneSelf || c.ch <= ' ' {
			return "", &Error{Kind: KindMustBeAlphanumeric, Pos: c.pos, Char: c.ch}
		}

		return p.input[start:end], nil
	}

	if start == end {
		return "", &Error{Kind: KindExpectedIdentifierNotEmpty, Pos: start}
	}

	return p.input[start:end], nil
}

// serviceSeparator consumes "::" and reports whether parameters follow.
func (p *parser) serviceSeparator() (bool, error) {
	c1, ok1 := p.cur.advance()
	c2, ok2 := p.cur.advance()

	switch {
	case !ok1:
		return false, nil
	case c1.ch != ':' || !ok2:
		// a lone trailing ':' is reported as itself
		return false, badSeparator(':', c1)
	case c2.ch != ':':
		return false, badSeparator(':', c2)
	}

	return true, nil
}

func badSeparator(expected rune, got char) *Error {
	return &Error{
		Kind:     KindBadSeparator,
		Pos:      got.pos,
		Char:     got.ch,
		Expected: expected,
	}
}

func (p *parser) params(params Params) error {
	for {
		k, ok := p.cur.peek0()
		if !ok {
			return nil
		}

		key, err := p.ident()
		if err != nil {
			return err
		}

		if _, dup := params[key]; dup {
			return &Error{Kind: KindDuplicateKey, Pos: k.pos, Key: key}
		}

		sep, ok := p.cur.advance()
		if !ok {
			return &Error{Kind: KindIncompleteKeyValue, Pos: len(p.input)}
		}

		if sep.ch != '=' {
			return badSeparator('=', sep)
		}

		value, err := p.value()
		if err != nil {
			return err
		}

		p.cur.advance() // ';'

		params[key] = value
	}
}

// value reads up to the first unescaped ';', unescaping ";;".
func (p *parser) value() (string, error) {
	var sb strings.Builder

	for {
		c1, ok := p.cur.peek0()
		if !ok {
			break
		}

		if c1.ch == ';' {
			c2, ok := p.cur.peek1()
			if !ok || c2.ch != ';' {
				break
			}

			p.cur.advance()
			p.cur.advance()
			sb.WriteByte(';')

			continue
		}

		if unicode.IsControl(c1.ch) {
			return "", &Error{Kind: KindInvalidCharInValue, Pos: c1.pos, Char: c1.ch}
		}

		sb.WriteRune(c1.ch)
		p.cur.advance()
	}

	return sb.String(), nil
}
