package confstr

import "unicode/utf8"

// cursor is a two-item lookahead over a pull function.
//
// Once next reports exhaustion it is never called again.
type cursor[T any] struct {
	next func() (T, bool)
	item [2]T
	ok   [2]bool
	done bool
}

func newCursor[T any](next func() (T, bool)) *cursor[T] {
	c := &cursor[T]{next: next}
	c.item[0], c.ok[0] = c.pull()
	c.item[1], c.ok[1] = c.pull()

	return c
}

func (c *cursor[T]) pull() (T, bool) {
	var zero T

	if c.done {
		return zero, false
	}

	v, ok := c.next()
	if !ok {
		c.done = true

		return zero, false
	}

	return v, true
}

// peek0 returns the current item without consuming it.
func (c *cursor[T]) peek0() (T, bool) { return c.item[0], c.ok[0] }

// peek1 returns the item after the current one without consuming anything.
func (c *cursor[T]) peek1() (T, bool) { return c.item[1], c.ok[1] }

// advance consumes and returns the current item.
func (c *cursor[T]) advance() (T, bool) {
	v, ok := c.item[0], c.ok[0]

	c.item[0], c.ok[0] = c.item[1], c.ok[1]
	c.item[1], c.ok[1] = c.pull()

	return v, ok
}

// char is a rune with its byte offset in the input.
type char struct {
	pos int
	ch  rune
}

// chars returns a pull function over the runes of s and their byte offsets.
func chars(s string) func() (char, bool) {
	var i int

	return func() (char, bool) {
		if i >= len(s) {
			return char{}, false
		}

		r, n := utf8.DecodeRuneInString(s[i:])
		c := char{pos: i, ch: r}
		i += n

		return c, true
	}
}
