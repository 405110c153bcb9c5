//go:build cgo

package capi

import (
	"strings"
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) unsafe.Pointer {
	if s == "" {
		return nil
	}

	return unsafe.Pointer(unsafe.StringData(s))
}

// view copies n bytes at p, or reports nil.
func view(p unsafe.Pointer, n int) (string, bool) {
	if p == nil {
		return "", false
	}

	return strings.Clone(unsafe.String((*byte)(p), n)), true
}

func terminated(p unsafe.Pointer, n int) bool {
	return *(*byte)(unsafe.Add(p, n)) == 0
}

func mustParse(t *testing.T, s string) uintptr {
	t.Helper()

	h, perr := Parse(ptr(s), len(s))
	if perr != nil {
		msg := ErrorMessage(perr)
		FreeError(perr)
		require.FailNow(t, "parse failed", msg)
	}

	require.NotZero(t, h)
	t.Cleanup(func() { Free(h) })

	return h
}

func get(h uintptr, key string) (string, bool) {
	return view(Get(h, ptr(key), len(key)))
}

func TestParse_Success(t *testing.T) {
	h := mustParse(t, "http::host=localhost;port=9000;empty=;")

	p, n := Service(h)
	svc, ok := view(p, n)
	require.True(t, ok)
	assert.Equal(t, "http", svc)
	assert.True(t, terminated(p, n))

	v, ok := get(h, "host")
	assert.True(t, ok)
	assert.Equal(t, "localhost", v)

	v, ok = get(h, "port")
	assert.True(t, ok)
	assert.Equal(t, "9000", v)

	vp, vn := Get(h, ptr("empty"), len("empty"))
	require.NotNil(t, vp, "empty value must be a non-NULL view")
	assert.Zero(t, vn)
	assert.True(t, terminated(vp, vn))

	_, ok = get(h, "missing")
	assert.False(t, ok)

	_, ok = get(h, "Host")
	assert.False(t, ok, "lookup must be case-sensitive")
}

func TestParse_Error(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
		pos   int
	}{
		{
			name:  "bad separator",
			input: "http;port=9000",
			msg:   "bad separator, expected ':' got ';' at position 4",
			pos:   4,
		},
		{
			name:  "empty",
			input: "",
			msg:   "expected identifier, not an empty string at position 0",
			pos:   0,
		},
		{
			name:  "invalid utf8",
			input: "a::b=\xff;",
			msg:   "invalid UTF-8 sequence at position 5",
			pos:   5,
		},
		{
			name:  "duplicate key",
			input: "a::k=1;k=2;",
			msg:   `duplicate key "k" at position 7`,
			pos:   7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, before := Live()

			h, perr := Parse(ptr(tt.input), len(tt.input))
			require.Zero(t, h)
			require.NotNil(t, perr)

			assert.Equal(t, tt.msg, ErrorMessage(perr))
			assert.Equal(t, tt.pos, ErrorPosition(perr))

			_, _, during := Live()
			assert.Equal(t, before+1, during)

			FreeError(perr)
			FreeError(perr)
			FreeError(nil)

			_, _, after := Live()
			assert.Equal(t, before, after)
		})
	}
}

func TestParse_DoesNotRetainInput(t *testing.T) {
	buf := []byte("svc::k=value;")
	h, perr := Parse(unsafe.Pointer(&buf[0]), len(buf))
	require.Nil(t, perr)
	t.Cleanup(func() { Free(h) })

	for i := range buf {
		buf[i] = 'x'
	}

	v, ok := get(h, "k")
	assert.True(t, ok)
	assert.Equal(t, "value", v)

	p, n := Service(h)
	svc, _ := view(p, n)
	assert.Equal(t, "svc", svc)
}

func TestGet_InvalidKeys(t *testing.T) {
	h := mustParse(t, "s::k=v;")

	bad := "k\xff"
	p, n := Get(h, ptr(bad), len(bad))
	assert.Nil(t, p)
	assert.Zero(t, n)

	p, _ = Get(h, nil, 3)
	assert.Nil(t, p)

	p, _ = Get(h, nil, 0)
	assert.Nil(t, p)
}

func TestIter(t *testing.T) {
	h := mustParse(t, "s::b=2;a=1;c=x;;y;")

	collect := func(it uintptr) []string {
		var out []string
		for {
			kp, kn, vp, vn, ok := Next(it)
			if !ok {
				return out
			}

			assert.True(t, terminated(kp, kn))
			assert.True(t, terminated(vp, vn))

			k, _ := view(kp, kn)
			v, _ := view(vp, vn)
			out = append(out, k+"="+v)
		}
	}

	it1 := Iter(h)
	it2 := Iter(h)
	require.NotZero(t, it1)
	require.NotEqual(t, it1, it2)

	defer FreeIter(it1)
	defer FreeIter(it2)

	// iterators advance independently
	_, _, _, _, ok := Next(it1)
	require.True(t, ok)

	assert.Equal(t, []string{"a=1", "b=2", "c=x;y"}, collect(it2))
	assert.Equal(t, []string{"b=2", "c=x;y"}, collect(it1))

	_, _, _, _, ok = Next(it1)
	assert.False(t, ok, "exhausted iterator must stay exhausted")
}

func TestIter_ConfFreedFirst(t *testing.T) {
	h, perr := Parse(ptr("s::a=1;b=2;"), len("s::a=1;b=2;"))
	require.Nil(t, perr)

	it := Iter(h)
	require.NotZero(t, it)

	Free(h)

	_, _, _, _, ok := Next(it)
	assert.False(t, ok)

	FreeIter(it)
}

func TestZeroAndStaleHandles(t *testing.T) {
	p, n := Service(0)
	assert.Nil(t, p)
	assert.Zero(t, n)

	p, _ = Get(0, ptr("k"), 1)
	assert.Nil(t, p)

	assert.Zero(t, Iter(0))

	_, _, _, _, ok := Next(0)
	assert.False(t, ok)

	Free(0)
	FreeIter(0)

	h, perr := Parse(ptr("s::k=v;"), len("s::k=v;"))
	require.Nil(t, perr)

	Free(h)
	Free(h)

	p, _ = Service(h)
	assert.Nil(t, p)
	assert.Zero(t, Iter(h))
}

func TestNoLeaks(t *testing.T) {
	c0, i0, e0 := Live()

	h, perr := Parse(ptr("s::a=1;"), len("s::a=1;"))
	require.Nil(t, perr)

	it := Iter(h)

	c1, i1, _ := Live()
	assert.Equal(t, c0+1, c1)
	assert.Equal(t, i0+1, i1)

	FreeIter(it)
	Free(h)

	c2, i2, e2 := Live()
	assert.Equal(t, c0, c2)
	assert.Equal(t, i0, i2)
	assert.Equal(t, e0, e2)
}

func TestConcurrentReads(t *testing.T) {
	h := mustParse(t, "s::a=1;b=2;c=3;d=4;")

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for range 100 {
				v, ok := get(h, "c")
				assert.True(t, ok)
				assert.Equal(t, "3", v)
			}

			it := Iter(h)
			defer FreeIter(it)

			var n int
			for {
				if _, _, _, _, ok := Next(it); !ok {
					break
				}
				n++
			}

			assert.Equal(t, 4, n)
		}()
	}

	wg.Wait()
}
