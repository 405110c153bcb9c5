// Package confstr parses configuration strings of the form
//
//	service::key1=value1;key2=value2;
//
// into a service name and a set of key/value parameters.
//
// # Grammar
//
//	conf_str := ident ( "::" params )?
//	ident    := [0-9A-Za-z_]+
//	params   := entry*
//	entry    := ident "=" value ";"?
//	value    := ( ";;" | <any rune but ';'> )*
//
// A doubled semicolon inside a value is a literal ';'. A single ';'
// terminates the value. Control characters (U+0000–U+001F, U+007F–U+009F)
// are not permitted in values.
//
// Keys are case-sensitive and must be unique. Values are opaque strings;
// no type conversion is performed.
//
// # Errors
//
// Parsing stops at the first problem and returns an [*Error] carrying the
// [Kind] of failure and the byte offset into the input where it was
// detected. Offsets are exact for multi-byte input. Each kind has a
// sentinel (e.g. [ErrBadSeparator]) usable with [errors.Is].
//
// # Example
//
//	c, err := confstr.Parse("http::addr=localhost:9000;retry=3;")
//	if err != nil {
//		return err
//	}
//
//	addr, ok := c.Get("addr")
package confstr

//go:generate go tool stringer --linecomment --type Kind
