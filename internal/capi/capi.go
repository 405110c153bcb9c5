// Package capi implements the C-callable surface of the confstr parser.
//
// Parsed results are held behind integer handles. Every string handed to C
// is copied into C memory owned by its handle, so views stay valid until the
// handle is freed regardless of what the Go garbage collector does.
//
// Functions here take and return unsafe.Pointer rather than C types because
// cgo types cannot be shared across packages; cmd/libconfstr does the
// conversion.
package capi

/*
#cgo CFLAGS: -I${SRCDIR}/../../include
#include <stdlib.h>
#include "confstr_types.h"
*/
import "C"

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"
	"unsafe"

	"github.com/ardnew/confstr/confstr"
	"github.com/ardnew/confstr/log"
)

var (
	confs  registry[*conf]
	iters  registry[*iterator]
	errRec sync.Map // uintptr(*C.confstr_parse_err) → struct{}
)

// cstr is a NUL-terminated copy of a Go string in C memory.
type cstr struct {
	p *C.char
	n int
}

func newCstr(s string) cstr { return cstr{p: C.CString(s), n: len(s)} }

func (s cstr) free() { C.free(unsafe.Pointer(s.p)) }

type pair struct{ key, val cstr }

// conf owns the C copies of one parsed configuration string.
type conf struct {
	index   map[string]int
	pairs   []pair
	service cstr
	mu      sync.RWMutex
	freed   bool
}

func newConf(c *confstr.ConfStr) *conf {
	keys := c.Keys()

	cc := &conf{
		service: newCstr(c.Service()),
		index:   make(map[string]int, len(keys)),
		pairs:   make([]pair, 0, len(keys)),
	}

	for i, k := range keys {
		v, _ := c.Get(k)
		cc.index[k] = i
		cc.pairs = append(cc.pairs, pair{key: newCstr(k), val: newCstr(v)})
	}

	return cc
}

func (c *conf) release() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.freed {
		return
	}

	c.freed = true
	c.service.free()

	for _, p := range c.pairs {
		p.key.free()
		p.val.free()
	}

	c.pairs = nil
	c.index = nil
}

type iterator struct {
	c *conf
	i int
}

func recovered(fn string, r any) {
	log.Error("recovered panic", slog.String("func", fn), slog.Any("panic", r))
}

// newError allocates a C error record. The caller releases it with
// [FreeError].
func newError(msg string, pos int) unsafe.Pointer {
	e := (*C.confstr_parse_err)(C.malloc(C.size_t(unsafe.Sizeof(C.confstr_parse_err{}))))
	e.msg = C.CString(msg)
	e.msg_len = C.size_t(len(msg))
	e.pos = C.size_t(pos)

	errRec.Store(uintptr(unsafe.Pointer(e)), struct{}{})

	return unsafe.Pointer(e)
}

// Parse parses n bytes at str. It returns a config handle, or 0 and an error
// record.
func Parse(str unsafe.Pointer, n int) (h uintptr, perr unsafe.Pointer) {
	defer func() {
		if r := recover(); r != nil {
			recovered("Parse", r)

			h, perr = 0, newError(fmt.Sprint("internal error: ", r), 0)
		}
	}()

	var s string
	if str != nil && n > 0 {
		// the input is borrowed from C and must not be retained
		s = strings.Clone(unsafe.String((*byte)(str), n))
	}

	c, err := confstr.Parse(s, confstr.WithLogger(log.Default()))
	if err != nil {
		pos := 0

		var ce *confstr.Error
		if errors.As(err, &ce) {
			pos = ce.Pos
		}

		return 0, newError(err.Error(), pos)
	}

	h = confs.add(newConf(c))

	log.Trace("handle created",
		slog.Uint64("handle", uint64(h)),
		slog.Any("conf", c))

	return h, nil
}

// FreeError releases an error record. nil and already freed records are
// ignored.
func FreeError(perr unsafe.Pointer) {
	if perr == nil {
		return
	}

	if _, ok := errRec.LoadAndDelete(uintptr(perr)); !ok {
		return
	}

	e := (*C.confstr_parse_err)(perr)
	C.free(unsafe.Pointer(e.msg))
	C.free(perr)
}

// ErrorMessage returns a copy of the message of an error record.
func ErrorMessage(perr unsafe.Pointer) string {
	e := (*C.confstr_parse_err)(perr)

	return C.GoStringN(e.msg, C.int(e.msg_len))
}

// ErrorPosition returns the byte offset stored in an error record.
func ErrorPosition(perr unsafe.Pointer) int {
	return int((*C.confstr_parse_err)(perr).pos)
}

// Service returns a view of the service name of h, or nil if h is not a live
// handle.
func Service(h uintptr) (p unsafe.Pointer, n int) {
	defer func() {
		if r := recover(); r != nil {
			recovered("Service", r)

			p, n = nil, 0
		}
	}()

	c, ok := confs.get(h)
	if !ok {
		return nil, 0
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.freed {
		return nil, 0
	}

	return unsafe.Pointer(c.service.p), c.service.n
}

// Get returns a view of the value of the n-byte key at key, or nil if h is
// not live or the key is absent. A key that is not valid UTF-8 is absent.
func Get(h uintptr, key unsafe.Pointer, n int) (p unsafe.Pointer, vn int) {
	defer func() {
		if r := recover(); r != nil {
			recovered("Get", r)

			p, vn = nil, 0
		}
	}()

	c, ok := confs.get(h)
	if !ok {
		return nil, 0
	}

	var k string
	if n > 0 {
		if key == nil {
			return nil, 0
		}

		k = unsafe.String((*byte)(key), n)
	}

	if !utf8.ValidString(k) {
		return nil, 0
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.freed {
		return nil, 0
	}

	i, ok := c.index[k]
	if !ok {
		return nil, 0
	}

	v := c.pairs[i].val

	return unsafe.Pointer(v.p), v.n
}

// Iter returns a new iterator over the parameters of h in sorted key order,
// or 0 if h is not live.
func Iter(h uintptr) (it uintptr) {
	defer func() {
		if r := recover(); r != nil {
			recovered("Iter", r)

			it = 0
		}
	}()

	c, ok := confs.get(h)
	if !ok {
		return 0
	}

	return iters.add(&iterator{c: c})
}

// Next advances it and returns views of the next key and value. ok is false
// once the iterator is exhausted, unknown, or its config has been freed.
func Next(it uintptr) (
	k unsafe.Pointer, kn int,
	v unsafe.Pointer, vn int,
	ok bool,
) {
	defer func() {
		if r := recover(); r != nil {
			recovered("Next", r)

			k, kn, v, vn, ok = nil, 0, nil, 0, false
		}
	}()

	i, found := iters.get(it)
	if !found {
		return nil, 0, nil, 0, false
	}

	i.c.mu.RLock()
	defer i.c.mu.RUnlock()

	if i.c.freed || i.i >= len(i.c.pairs) {
		return nil, 0, nil, 0, false
	}

	p := i.c.pairs[i.i]
	i.i++

	return unsafe.Pointer(p.key.p), p.key.n,
		unsafe.Pointer(p.val.p), p.val.n,
		true
}

// FreeIter releases an iterator. Unknown handles are ignored.
func FreeIter(it uintptr) {
	iters.take(it)
}

// Free releases a config handle and every view obtained from it. Unknown
// handles are ignored.
func Free(h uintptr) {
	defer func() {
		if r := recover(); r != nil {
			recovered("Free", r)
		}
	}()

	c, ok := confs.take(h)
	if !ok {
		return
	}

	c.release()

	log.Trace("handle freed", slog.Uint64("handle", uint64(h)))
}

// Live returns the number of live config handles, iterators and error
// records.
func Live() (confCount, iterCount, errCount int) {
	errRec.Range(func(any, any) bool {
		errCount++

		return true
	})

	return confs.len(), iters.len(), errCount
}
