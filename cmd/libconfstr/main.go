// Command libconfstr is the confstr parser as a C shared library.
//
//	go build -buildmode=c-shared -o libconfstr.so ./cmd/libconfstr
//
// C callers include include/confstr.h. Logging goes to stderr and is
// controlled by the CONFSTR_LOG_LEVEL and CONFSTR_LOG_FORMAT environment
// variables, read once when the library is loaded.
package main

/*
#cgo CFLAGS: -I${SRCDIR}/../../include
#include <stdbool.h>
#include <stddef.h>
#include "confstr_types.h"
*/
import "C"

import (
	"unsafe"

	"github.com/ardnew/confstr/internal/capi"
)

func init() { capi.Configure() }

func main() {}

//export confstr_parse
func confstr_parse(
	str *C.char,
	n C.size_t,
	errOut **C.confstr_parse_err,
) C.confstr_handle {
	h, perr := capi.Parse(unsafe.Pointer(str), int(n))
	if perr != nil {
		if errOut == nil {
			capi.FreeError(perr)
		} else {
			*errOut = (*C.confstr_parse_err)(perr)
		}

		return 0
	}

	return C.confstr_handle(h)
}

//export confstr_parse_err_free
func confstr_parse_err_free(err *C.confstr_parse_err) {
	capi.FreeError(unsafe.Pointer(err))
}

//export confstr_service
func confstr_service(h C.confstr_handle, lenOut *C.size_t) *C.char {
	p, n := capi.Service(uintptr(h))
	if lenOut != nil {
		*lenOut = C.size_t(n)
	}

	return (*C.char)(p)
}

//export confstr_get
func confstr_get(
	h C.confstr_handle,
	key *C.char,
	keyLen C.size_t,
	valLenOut *C.size_t,
) *C.char {
	p, n := capi.Get(uintptr(h), unsafe.Pointer(key), int(keyLen))
	if valLenOut != nil {
		*valLenOut = C.size_t(n)
	}

	return (*C.char)(p)
}

//export confstr_iter_pairs
func confstr_iter_pairs(h C.confstr_handle) C.confstr_iter_handle {
	return C.confstr_iter_handle(capi.Iter(uintptr(h)))
}

//export confstr_iter_next
func confstr_iter_next(
	it C.confstr_iter_handle,
	keyOut **C.char,
	keyLenOut *C.size_t,
	valOut **C.char,
	valLenOut *C.size_t,
) C.bool {
	k, kn, v, vn, ok := capi.Next(uintptr(it))
	if !ok {
		return false
	}

	if keyOut != nil {
		*keyOut = (*C.char)(k)
	}

	if keyLenOut != nil {
		*keyLenOut = C.size_t(kn)
	}

	if valOut != nil {
		*valOut = (*C.char)(v)
	}

	if valLenOut != nil {
		*valLenOut = C.size_t(vn)
	}

	return true
}

//export confstr_iter_free
func confstr_iter_free(it C.confstr_iter_handle) {
	capi.FreeIter(uintptr(it))
}

//export confstr_free
func confstr_free(h C.confstr_handle) {
	capi.Free(uintptr(h))
}
