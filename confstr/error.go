package confstr

import (
	"fmt"
	"log/slog"
	"strconv"
)

// Kind identifies the class of a parse failure.
type Kind int

const (
	// KindExpectedIdentifierNot means an identifier was required but the
	// input held some other rune.
	KindExpectedIdentifierNot Kind = iota // expected_identifier_not
	// KindMustBeAlphanumeric means an identifier was interrupted by a
	// whitespace, control or non-ASCII rune.
	KindMustBeAlphanumeric // must_be_alphanumeric
	// KindExpectedIdentifierNotEmpty means the input ended where an
	// identifier was required.
	KindExpectedIdentifierNotEmpty // expected_identifier_not_empty
	// KindBadSeparator means a "::" or "=" separator was malformed.
	KindBadSeparator // bad_separator
	// KindIncompleteKeyValue means the input ended after a key.
	KindIncompleteKeyValue // incomplete_key_value
	// KindInvalidCharInValue means a value held a control character.
	KindInvalidCharInValue // invalid_char_in_value
	// KindDuplicateKey means a key appeared more than once.
	KindDuplicateKey // duplicate_key
	// KindInvalidUTF8 means the input was not valid UTF-8.
	KindInvalidUTF8 // invalid_utf8
)

// Sentinel errors, one per [Kind]. Any [*Error] matches the sentinel of its
// kind under [errors.Is].
var (
	ErrExpectedIdentifierNot      = &Error{Kind: KindExpectedIdentifierNot}
	ErrMustBeAlphanumeric         = &Error{Kind: KindMustBeAlphanumeric}
	ErrExpectedIdentifierNotEmpty = &Error{Kind: KindExpectedIdentifierNotEmpty}
	ErrBadSeparator               = &Error{Kind: KindBadSeparator}
	ErrIncompleteKeyValue         = &Error{Kind: KindIncompleteKeyValue}
	ErrInvalidCharInValue         = &Error{Kind: KindInvalidCharInValue}
	ErrDuplicateKey               = &Error{Kind: KindDuplicateKey}
	ErrInvalidUTF8                = &Error{Kind: KindInvalidUTF8}
)

// Error describes why and where parsing failed.
type Error struct {
	// Key is the repeated key of a [KindDuplicateKey] error.
	Key string
	// Pos is the byte offset into the input.
	Pos  int
	Kind Kind
	// Char is the offending rune, if any.
	Char rune
	// Expected is the separator that was required for [KindBadSeparator].
	Expected rune
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Description() + " at position " + strconv.Itoa(e.Pos)
}

// Description returns the message of e without its position.
func (e *Error) Description() string {
	switch e.Kind {
	case KindExpectedIdentifierNot:
		return fmt.Sprintf(
			"expected identifier to start with ascii letter, not %q", e.Char,
		)
	case KindMustBeAlphanumeric:
		return fmt.Sprintf("must be alphanumeric, not %q", e.Char)
	case KindExpectedIdentifierNotEmpty:
		return "expected identifier, not an empty string"
	case KindBadSeparator:
		return fmt.Sprintf(
			"bad separator, expected %q got %q", e.Expected, e.Char,
		)
	case KindIncompleteKeyValue:
		return "incomplete key-value pair before end of input"
	case KindInvalidCharInValue:
		return fmt.Sprintf("invalid char %q in value", e.Char)
	case KindDuplicateKey:
		return fmt.Sprintf("duplicate key %q", e.Key)
	case KindInvalidUTF8:
		return "invalid UTF-8 sequence"
	default:
		return e.Kind.String()
	}
}

// Is reports whether target is an [*Error] of the same [Kind].
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.Kind == e.Kind
}

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("kind", e.Kind.String()),
		slog.Int("pos", e.Pos),
	}

	switch e.Kind {
	case KindExpectedIdentifierNot, KindMustBeAlphanumeric,
		KindInvalidCharInValue:
		attrs = append(attrs, slog.String("char", strconv.QuoteRune(e.Char)))
	case KindBadSeparator:
		attrs = append(attrs,
			slog.String("expected", strconv.QuoteRune(e.Expected)),
			slog.String("char", strconv.QuoteRune(e.Char)),
		)
	case KindDuplicateKey:
		attrs = append(attrs, slog.String("key", e.Key))
	}

	return slog.GroupValue(attrs...)
}
