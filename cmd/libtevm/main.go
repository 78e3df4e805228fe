// libtevm exposes the virtual machine to a foreign host process as a
// C shared library. A VM handle is an opaque token the host frees exactly
// once; execute and simulate are not reentrant on the same handle.
package main

/*
#include "libtevm.h"
#include <stdlib.h>
*/
import "C"

import (
	"unsafe"

	"github.com/TevmFoundation/tevm-chain/tevm"
)

func viewBytes(view C.tevm_view) []byte {
	if view.is_some == 0 || view.ptr == nil || view.len == 0 {
		return nil
	}
	return C.GoBytes(unsafe.Pointer(view.ptr), C.int(view.len))
}

// fillBuf hands bytes to the host in a malloc'd buffer released with
// tevm_free_buf.
func fillBuf(out *C.tevm_buf, data []byte) {
	if out == nil {
		return
	}
	if len(data) == 0 {
		out.ptr = nil
		out.len = 0
		return
	}
	out.ptr = (*C.uint8_t)(C.CBytes(data))
	out.len = C.size_t(len(data))
}

//export new_vm
func new_vm(specID C.uint8_t) C.uintptr_t {
	vm := tevm.NewVM(uint8(specID))
	return C.uintptr_t(tevm.NewHandle(vm))
}

//export new_vm_with_compiler
func new_vm_with_compiler(specID C.uint8_t, threshold C.uint64_t, maxConcurrent C.size_t, errOut *C.tevm_buf) C.uintptr_t {
	vm, err := tevm.NewVMWithCompiler(uint8(specID), uint64(threshold), int(maxConcurrent))
	if err != nil {
		fillBuf(errOut, []byte(err.Error()))
		return 0
	}
	return C.uintptr_t(tevm.NewHandle(vm))
}

//export free_vm
func free_vm(handle C.uintptr_t, tiered C.int32_t) {
	if vm := tevm.DeleteHandle(uintptr(handle)); vm != nil {
		vm.Close()
	}
}

//export execute_tx
func execute_tx(handle C.uintptr_t, db *C.tevm_db, block C.tevm_view, tx C.tevm_view, errOut *C.tevm_buf, resultOut *C.tevm_buf) C.int32_t {
	return transact(handle, db, block, tx, errOut, resultOut, true)
}

//export simulate_tx
func simulate_tx(handle C.uintptr_t, db *C.tevm_db, block C.tevm_view, tx C.tevm_view, errOut *C.tevm_buf, resultOut *C.tevm_buf) C.int32_t {
	return transact(handle, db, block, tx, errOut, resultOut, false)
}

func transact(handle C.uintptr_t, db *C.tevm_db, block C.tevm_view, tx C.tevm_view, errOut, resultOut *C.tevm_buf, commit bool) C.int32_t {
	vm := tevm.GetHandle(uintptr(handle))
	if vm == nil {
		fillBuf(errOut, []byte("invalid vm handle"))
		return -1
	}
	storage := newGoStorage(db)
	var (
		data []byte
		err  error
	)
	if commit {
		data, err = vm.ExecuteTx(storage, viewBytes(block), viewBytes(tx))
	} else {
		data, err = vm.SimulateTx(storage, viewBytes(block), viewBytes(tx))
	}
	if err != nil {
		fillBuf(errOut, []byte(err.Error()))
		return -1
	}
	fillBuf(resultOut, data)
	return 0
}

//export tevm_free_buf
func tevm_free_buf(buf C.tevm_buf) {
	if buf.ptr != nil {
		C.free(unsafe.Pointer(buf.ptr))
	}
}

func main() {}
