package tevm

import "sync"

// The host owns VM instances through opaque integer handles: Go pointers
// must not cross the C boundary, so the export layer hands out tokens and
// resolves them here. A handle is valid from NewHandle until exactly one
// DeleteHandle.
var (
	handleMu   sync.Mutex
	handleSeq  uintptr
	handleVMap = make(map[uintptr]*VM)
)

// NewHandle registers vm and returns its token. The zero token is never
// issued; it is the null handle.
func NewHandle(vm *VM) uintptr {
	handleMu.Lock()
	defer handleMu.Unlock()
	handleSeq++
	handleVMap[handleSeq] = vm
	return handleSeq
}

// GetHandle resolves a token, or nil for unknown or already-freed handles.
func GetHandle(h uintptr) *VM {
	handleMu.Lock()
	defer handleMu.Unlock()
	return handleVMap[h]
}

// DeleteHandle unregisters a token and returns the VM it named, if any.
// The caller is responsible for closing the returned VM.
func DeleteHandle(h uintptr) *VM {
	handleMu.Lock()
	defer handleMu.Unlock()
	vm := handleVMap[h]
	delete(handleVMap, h)
	return vm
}
