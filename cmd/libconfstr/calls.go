package main

/*
#include <stdlib.h>
#include "confstr_types.h"
*/
import "C"

import "unsafe"

// The functions below drive the exported functions through C types so that
// package tests, which cannot use cgo, exercise the same code paths a C
// caller does. A false out argument passes NULL for the corresponding
// pointer.

func callParse(s string, errOut bool) (h uintptr, msg string, pos int) {
	cs := C.CString(s)
	defer C.free(unsafe.Pointer(cs))

	if !errOut {
		return uintptr(confstr_parse(cs, C.size_t(len(s)), nil)), "", 0
	}

	var perr *C.confstr_parse_err

	h = uintptr(confstr_parse(cs, C.size_t(len(s)), &perr))
	if perr != nil {
		msg = C.GoStringN(perr.msg, C.int(perr.msg_len))
		pos = int(perr.pos)

		confstr_parse_err_free(perr)
		// Freeing twice is a no-op.
		confstr_parse_err_free(perr)
	}

	return h, msg, pos
}

func callParseNull() uintptr {
	return uintptr(confstr_parse(nil, 0, nil))
}

func callService(h uintptr, lenOut bool) (string, bool) {
	if !lenOut {
		p := confstr_service(C.confstr_handle(h), nil)
		if p == nil {
			return "", false
		}

		return C.GoString(p), true
	}

	var n C.size_t

	p := confstr_service(C.confstr_handle(h), &n)
	if p == nil {
		return "", false
	}

	return C.GoStringN(p, C.int(n)), true
}

func callGet(h uintptr, key string, lenOut bool) (string, bool) {
	ck := C.CString(key)
	defer C.free(unsafe.Pointer(ck))

	var (
		n  C.size_t
		np *C.size_t
	)

	if lenOut {
		np = &n
	}

	p := confstr_get(C.confstr_handle(h), ck, C.size_t(len(key)), np)
	if p == nil {
		return "", false
	}

	if !lenOut {
		return C.GoString(p), true
	}

	return C.GoStringN(p, C.int(n)), true
}

func callIterPairs(h uintptr) uintptr {
	return uintptr(confstr_iter_pairs(C.confstr_handle(h)))
}

func callIterNext(it uintptr, out bool) (key, val string, ok bool) {
	if !out {
		return "", "", bool(confstr_iter_next(C.confstr_iter_handle(it), nil, nil, nil, nil))
	}

	var (
		k, v   *C.char
		kn, vn C.size_t
	)

	if !bool(confstr_iter_next(C.confstr_iter_handle(it), &k, &kn, &v, &vn)) {
		return "", "", false
	}

	return C.GoStringN(k, C.int(kn)), C.GoStringN(v, C.int(vn)), true
}

func callIterFree(it uintptr) { confstr_iter_free(C.confstr_iter_handle(it)) }

func callFree(h uintptr) { confstr_free(C.confstr_handle(h)) }
