//go:build cgo

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/confstr/internal/capi"
)

func TestParse(t *testing.T) {
	h, msg, _ := callParse("http::port=9000;host=a;;b;", true)
	require.NotZero(t, h, msg)
	defer callFree(h)

	for _, lenOut := range []bool{true, false} {
		svc, ok := callService(h, lenOut)
		require.True(t, ok)
		assert.Equal(t, "http", svc)

		val, ok := callGet(h, "host", lenOut)
		require.True(t, ok)
		assert.Equal(t, "a;b", val)

		_, ok = callGet(h, "missing", lenOut)
		assert.False(t, ok)
	}

	_, ok := callGet(h, "\xff", true)
	assert.False(t, ok, "an invalid UTF-8 key is not found")
}

func TestParse_Error(t *testing.T) {
	_, _, e0 := capi.Live()

	h, msg, pos := callParse("http::host", true)
	assert.Zero(t, h)
	assert.Equal(t, "incomplete key-value pair before end of input at position 10", msg)
	assert.Equal(t, 10, pos)

	_, _, e1 := capi.Live()
	assert.Equal(t, e0, e1, "error record leaked")
}

func TestParse_NullErrOut(t *testing.T) {
	_, _, e0 := capi.Live()

	h, _, _ := callParse("http;port", false)
	assert.Zero(t, h)

	assert.Zero(t, callParseNull())

	_, _, e1 := capi.Live()
	assert.Equal(t, e0, e1, "record must be freed when err_out is NULL")
}

func TestIter(t *testing.T) {
	c0, i0, _ := capi.Live()

	h, msg, _ := callParse("s::b=2;a=1;", true)
	require.NotZero(t, h, msg)

	it := callIterPairs(h)
	require.NotZero(t, it)

	var got [][2]string

	for {
		k, v, ok := callIterNext(it, true)
		if !ok {
			break
		}

		got = append(got, [2]string{k, v})
	}

	assert.Equal(t, [][2]string{{"a", "1"}, {"b", "2"}}, got)

	_, _, ok := callIterNext(it, true)
	assert.False(t, ok, "exhausted iterator stays exhausted")

	callIterFree(it)

	it = callIterPairs(h)

	n := 0
	for {
		if _, _, ok := callIterNext(it, false); !ok {
			break
		}

		n++
	}

	assert.Equal(t, 2, n, "NULL out pointers still advance the iterator")

	callIterFree(it)
	callIterFree(it)
	callFree(h)
	callFree(h)

	c1, i1, _ := capi.Live()
	assert.Equal(t, c0, c1)
	assert.Equal(t, i0, i1)
}

func TestZeroHandles(t *testing.T) {
	_, ok := callService(0, true)
	assert.False(t, ok)

	_, ok = callGet(0, "k", true)
	assert.False(t, ok)

	assert.Zero(t, callIterPairs(0))

	_, _, ok = callIterNext(0, true)
	assert.False(t, ok)

	callIterFree(0)
	callFree(0)
}
