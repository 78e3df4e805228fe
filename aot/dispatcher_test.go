package aot

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/TevmFoundation/tevm-chain/common"
	"github.com/TevmFoundation/tevm-chain/core/rawdb"
	"github.com/TevmFoundation/tevm-chain/core/state"
	"github.com/TevmFoundation/tevm-chain/core/vm"
	"github.com/TevmFoundation/tevm-chain/crypto"
	"github.com/TevmFoundation/tevm-chain/params"
	"github.com/holiman/uint256"
)

// fakeFunc mimics a compiled entry point with a canned response.
type fakeFunc struct {
	output []byte
	err    error
	calls  int64
}

func (f *fakeFunc) Call(contract *vm.Contract, input []byte, readOnly bool) ([]byte, error) {
	atomic.AddInt64(&f.calls, 1)
	return f.output, f.err
}

type fakeLibrary struct {
	fns    map[string]*fakeFunc
	closed bool
}

func (l *fakeLibrary) Lookup(label string) (NativeFunc, error) {
	if fn, ok := l.fns[label]; ok {
		return fn, nil
	}
	return nil, errors.New("symbol not found")
}

func (l *fakeLibrary) Close() error {
	l.closed = true
	return nil
}

// fakeLoader serves pre-registered libraries by artifact path.
type fakeLoader struct {
	libs  map[string]*fakeLibrary
	opens int
}

func (l *fakeLoader) Open(path string) (Library, error) {
	l.opens++
	if lib, ok := l.libs[path]; ok {
		return lib, nil
	}
	return nil, errors.New("cannot open shared object")
}

func newTestEVM(t *testing.T, storage *state.MemStorage) (*vm.EVM, *state.StateDB) {
	t.Helper()
	statedb := state.New(storage)
	ctx := vm.Context{
		GasPrice:    new(uint256.Int),
		GasLimit:    uint256.NewInt(30_000_000),
		BlockNumber: uint256.NewInt(1),
		Time:        uint256.NewInt(1700000000),
		Difficulty:  new(uint256.Int),
		BaseFee:     new(uint256.Int),
	}
	return vm.NewEVM(ctx, statedb, params.CancunSpec, 1, vm.Config{}), statedb
}

func TestDispatcherFallsThrough(t *testing.T) {
	db := rawdb.NewMemoryArtifactDB()
	defer db.Close()

	storage := state.NewMemStorage()
	contractAddr := common.HexToAddress("0xc0de")
	code := []byte{byte(vm.PUSH1), 0x2a, byte(vm.PUSH1), 0x00, byte(vm.MSTORE), byte(vm.PUSH1), 0x20, byte(vm.PUSH1), 0x00, byte(vm.RETURN)}
	hash := storage.DeployContract(contractAddr, code)

	evm, _ := newTestEVM(t, storage)
	sink := new(captureSink)
	loader := &fakeLoader{libs: map[string]*fakeLibrary{}}
	d := NewDispatcher(db, NewTracker(db, sink, 10), nil, loader)
	defer d.Close()
	d.Attach(evm)

	caller := common.HexToAddress("0xca11")
	ret, _, err := evm.Call(caller, contractAddr, nil, 100_000, nil)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if len(ret) != 32 || ret[31] != 0x2a {
		t.Fatalf("unexpected interpreter output % x", ret)
	}
	// No artifact published: the loader must never have been touched, and
	// the execution observed once.
	if loader.opens != 0 {
		t.Fatalf("loader opened %d times with no artifact", loader.opens)
	}
	if count := db.Count(hash); count != 1 {
		t.Fatalf("observe count = %d, want 1", count)
	}
}

func TestDispatcherNativeDispatch(t *testing.T) {
	db := rawdb.NewMemoryArtifactDB()
	defer db.Close()

	storage := state.NewMemStorage()
	contractAddr := common.HexToAddress("0xc0de")
	code := []byte{byte(vm.PUSH1), 0x2a, byte(vm.PUSH1), 0x00, byte(vm.MSTORE), byte(vm.PUSH1), 0x20, byte(vm.PUSH1), 0x00, byte(vm.RETURN)}
	hash := storage.DeployContract(contractAddr, code)

	// The fake native function returns exactly what the interpreter would.
	native := &fakeFunc{output: common.LeftPadBytes([]byte{0x2a}, 32)}
	label := SymbolLabel(hash)
	lib := &fakeLibrary{fns: map[string]*fakeFunc{label: native}}
	loader := &fakeLoader{libs: map[string]*fakeLibrary{"/tmp/native.so": lib}}
	if err := db.PublishArtifact(hash, label, "/tmp/native.so"); err != nil {
		t.Fatal(err)
	}

	evm, _ := newTestEVM(t, storage)
	d := NewDispatcher(db, NewTracker(db, new(captureSink), 100), nil, loader)
	defer d.Close()
	d.Attach(evm)

	caller := common.HexToAddress("0xca11")
	for i := 0; i < 3; i++ {
		ret, _, err := evm.Call(caller, contractAddr, nil, 100_000, nil)
		if err != nil {
			t.Fatalf("Call %d: %v", i, err)
		}
		if len(ret) != 32 || ret[31] != 0x2a {
			t.Fatalf("unexpected native output % x", ret)
		}
	}
	if calls := atomic.LoadInt64(&native.calls); calls != 3 {
		t.Fatalf("native function called %d times, want 3", calls)
	}
	// The library is cached across frames: opened once, still open.
	if loader.opens != 1 {
		t.Fatalf("loader opened %d times, want 1", loader.opens)
	}
	if lib.closed {
		t.Fatal("cached library was closed while the VM is live")
	}
	// Observation continues while dispatching native.
	if count := db.Count(hash); count != 3 {
		t.Fatalf("observe count = %d, want 3", count)
	}

	d.Close()
	if !lib.closed {
		t.Fatal("library not closed on dispatcher shutdown")
	}
}

func TestDispatcherDropsUnloadableArtifact(t *testing.T) {
	db := rawdb.NewMemoryArtifactDB()
	defer db.Close()

	storage := state.NewMemStorage()
	contractAddr := common.HexToAddress("0xc0de")
	code := []byte{byte(vm.STOP)}
	hash := storage.DeployContract(contractAddr, code)

	label := SymbolLabel(hash)
	if err := db.PublishArtifact(hash, label, "/nonexistent/stale.so"); err != nil {
		t.Fatal(err)
	}
	loader := &fakeLoader{libs: map[string]*fakeLibrary{}}

	evm, _ := newTestEVM(t, storage)
	d := NewDispatcher(db, NewTracker(db, new(captureSink), 100), nil, loader)
	defer d.Close()
	d.Attach(evm)

	caller := common.HexToAddress("0xca11")
	if _, _, err := evm.Call(caller, contractAddr, nil, 100_000, nil); err != nil {
		t.Fatalf("Call: %v", err)
	}
	// The stale record is dropped so later frames skip the probe entirely.
	if db.HasArtifact(hash) {
		t.Fatal("unloadable artifact record survived")
	}
	if _, _, err := evm.Call(caller, contractAddr, nil, 100_000, nil); err != nil {
		t.Fatalf("Call after drop: %v", err)
	}
	if loader.opens != 1 {
		t.Fatalf("loader opened %d times, want 1", loader.opens)
	}
}

func TestDispatcherRecomputesMissingLabel(t *testing.T) {
	db := rawdb.NewMemoryArtifactDB()
	defer db.Close()

	storage := state.NewMemStorage()
	contractAddr := common.HexToAddress("0xc0de")
	code := []byte{byte(vm.STOP)}
	hash := storage.DeployContract(contractAddr, code)

	native := &fakeFunc{}
	label := SymbolLabel(hash)
	lib := &fakeLibrary{fns: map[string]*fakeFunc{label: native}}
	loader := &fakeLoader{libs: map[string]*fakeLibrary{"/tmp/native.so": lib}}

	// Degenerate record with an empty label. The dispatcher must fall back
	// to the computed mangling.
	if err := db.PublishArtifact(hash, "", "/tmp/native.so"); err != nil {
		t.Fatal(err)
	}
	d := NewDispatcher(db, NewTracker(db, new(captureSink), 100), nil, loader)
	defer d.Close()

	evm, _ := newTestEVM(t, storage)
	d.Attach(evm)

	caller := common.HexToAddress("0xca11")
	if _, _, err := evm.Call(caller, contractAddr, nil, 100_000, nil); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if calls := atomic.LoadInt64(&native.calls); calls != 1 {
		t.Fatalf("native function called %d times, want 1", calls)
	}
}

func TestCrypto3ByteMangle(t *testing.T) {
	code := []byte{byte(vm.STOP)}
	hash := crypto.Keccak256Hash(code)
	label := SymbolLabel(hash)
	if len(label) != 7 || label[0] != '_' {
		t.Fatalf("unexpected label %q", label)
	}
}
