// Package native loads compiled contract objects with the platform dynamic
// linker and bridges calls into their exported entry points.
//
// A loaded library must outlive every call into a symbol resolved from it;
// the handle is only released through Close, never by the garbage collector.
package native

/*
#cgo LDFLAGS: -ldl

#include <dlfcn.h>
#include <stdint.h>
#include <stdlib.h>

// Entry points emitted by the EVM-LLVM backend. The frame carries the
// bytecode, calldata and gas budget; outputs are written back through the
// result struct. The callee allocates the output buffer with malloc and the
// caller releases it with free (status < 0 means the call itself failed).
typedef struct {
	const uint8_t *code;
	size_t         code_len;
	const uint8_t *input;
	size_t         input_len;
	uint64_t       gas;
	uint8_t        read_only;
} evm_native_frame;

typedef struct {
	int32_t  status; // 0 success, 1 revert, negative backend failure
	uint64_t gas_left;
	uint8_t *output;
	size_t   output_len;
} evm_native_result;

typedef void (*evm_native_fn)(const evm_native_frame *frame, evm_native_result *result);

static void evm_native_call(void *fn, const evm_native_frame *frame, evm_native_result *result) {
	((evm_native_fn)fn)(frame, result);
}
*/
import "C"

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/TevmFoundation/tevm-chain/core/vm"
)

// callStatus values returned by compiled entry points.
const (
	statusSuccess = 0
	statusRevert  = 1
)

// Library wraps a dlopen handle.
type Library struct {
	handle unsafe.Pointer
	path   string
}

// Loader opens shared objects via the platform dynamic linker.
type Loader struct{}

// NewLoader returns the dlopen-backed loader.
func NewLoader() *Loader { return &Loader{} }

// Open loads the shared object at path. The handle stays valid until Close.
func (*Loader) Open(path string) (*Library, error) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	handle := C.dlopen(cpath, C.RTLD_NOW|C.RTLD_LOCAL)
	if handle == nil {
		return nil, fmt.Errorf("dlopen %s: %s", path, dlerror())
	}
	return &Library{handle: handle, path: path}, nil
}

// Lookup resolves the entry point exported under label.
func (l *Library) Lookup(label string) (*Func, error) {
	if l.handle == nil {
		return nil, errors.New("library already closed")
	}
	clabel := C.CString(label)
	defer C.free(unsafe.Pointer(clabel))

	C.dlerror() // clear any stale error
	sym := C.dlsym(l.handle, clabel)
	if sym == nil {
		return nil, fmt.Errorf("dlsym %s in %s: %s", label, l.path, dlerror())
	}
	return &Func{lib: l, sym: sym}, nil
}

// Close releases the dlopen handle. The caller must guarantee no call into a
// resolved symbol is still running.
func (l *Library) Close() error {
	if l.handle == nil {
		return nil
	}
	if C.dlclose(l.handle) != 0 {
		return fmt.Errorf("dlclose %s: %s", l.path, dlerror())
	}
	l.handle = nil
	return nil
}

// Func is a resolved compiled entry point. The owning Library is retained so
// the object cannot be unloaded underneath an outstanding Func.
type Func struct {
	lib *Library
	sym unsafe.Pointer
}

// Call executes the compiled frame. The library handle is kept alive on the
// stack for the full duration of the native call.
func (f *Func) Call(contract *vm.Contract, input []byte, readOnly bool) ([]byte, error) {
	if f.lib.handle == nil {
		return nil, errors.New("library already closed")
	}
	var frame C.evm_native_frame
	if len(contract.Code) > 0 {
		frame.code = (*C.uint8_t)(unsafe.Pointer(&contract.Code[0]))
		frame.code_len = C.size_t(len(contract.Code))
	}
	if len(input) > 0 {
		frame.input = (*C.uint8_t)(unsafe.Pointer(&input[0]))
		frame.input_len = C.size_t(len(input))
	}
	frame.gas = C.uint64_t(contract.Gas)
	if readOnly {
		frame.read_only = 1
	}

	var result C.evm_native_result
	C.evm_native_call(f.sym, &frame, &result)

	var output []byte
	if result.output != nil {
		output = C.GoBytes(unsafe.Pointer(result.output), C.int(result.output_len))
		C.free(unsafe.Pointer(result.output))
	}
	contract.Gas = uint64(result.gas_left)

	switch int32(result.status) {
	case statusSuccess:
		return output, nil
	case statusRevert:
		return output, vm.ErrExecutionReverted
	default:
		return nil, fmt.Errorf("native execution failed with status %d", int32(result.status))
	}
}

func dlerror() string {
	if msg := C.dlerror(); msg != nil {
		return C.GoString(msg)
	}
	return "unknown error"
}
