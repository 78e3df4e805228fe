package tevm

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/TevmFoundation/tevm-chain/aot"
	"github.com/TevmFoundation/tevm-chain/common"
	"github.com/TevmFoundation/tevm-chain/core/rawdb"
	"github.com/TevmFoundation/tevm-chain/core/state"
	"github.com/TevmFoundation/tevm-chain/core/types"
	"github.com/TevmFoundation/tevm-chain/core/types/evmpb"
	"github.com/TevmFoundation/tevm-chain/core/vm"
	"github.com/TevmFoundation/tevm-chain/crypto"
	"github.com/TevmFoundation/tevm-chain/params"
	"github.com/golang/protobuf/proto"
	"github.com/holiman/uint256"
	"github.com/inconshreveable/log15"
)

var (
	testCaller   = common.HexToAddress("0x1000000000000000000000000000000000000001")
	testContract = common.HexToAddress("0xc0de000000000000000000000000000000000001")
	testCoinbase = common.HexToAddress("0xfee0000000000000000000000000000000000001")
)

func encodeBlock(t *testing.T, number uint64) []byte {
	t.Helper()
	pb := &evmpb.Block{
		Number:    new(uint256.Int).SetUint64(number).Bytes(),
		Coinbase:  testCoinbase.Bytes(),
		Timestamp: new(uint256.Int).SetUint64(1700000000).Bytes(),
		GasLimit:  new(uint256.Int).SetUint64(30_000_000).Bytes(),
	}
	data, err := proto.Marshal(pb)
	if err != nil {
		t.Fatalf("marshal block: %v", err)
	}
	return data
}

func encodeTx(t *testing.T, to *common.Address, data []byte, nonce uint64) []byte {
	t.Helper()
	pb := &evmpb.Transaction{
		Caller:   testCaller.Bytes(),
		GasLimit: 1_000_000,
		Nonce:    nonce,
	}
	if to != nil {
		pb.To = to.Bytes()
	}
	if len(data) > 0 {
		pb.Data = data
	}
	enc, err := proto.Marshal(pb)
	if err != nil {
		t.Fatalf("marshal tx: %v", err)
	}
	return enc
}

func seedStorage(t *testing.T, code []byte) (*state.MemStorage, common.Hash) {
	t.Helper()
	storage := state.NewMemStorage()
	storage.SetAccount(testCaller, &state.Account{
		Balance:  uint256.NewInt(0).Lsh(uint256.NewInt(1), 64),
		CodeHash: crypto.Keccak256Hash(nil),
	})
	hash := storage.DeployContract(testContract, code)
	return storage, hash
}

// stubCompiler produces empty artifact files; err != nil fails every build.
type stubCompiler struct {
	dir   string
	err   error
	calls int64
}

func (c *stubCompiler) Compile(label string, bytecode []byte, spec params.SpecId) (string, error) {
	atomic.AddInt64(&c.calls, 1)
	if c.err != nil {
		return "", &aot.CompileError{Label: label, Err: c.err}
	}
	path := filepath.Join(c.dir, label+".so")
	if err := os.WriteFile(path, []byte{0x7f}, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// stubNative mimics a compiled STOP contract: no output, no error.
type stubNative struct{ calls int64 }

func (f *stubNative) Call(contract *vm.Contract, input []byte, readOnly bool) ([]byte, error) {
	atomic.AddInt64(&f.calls, 1)
	return nil, nil
}

type stubLibrary struct{ fn *stubNative }

func (l *stubLibrary) Lookup(label string) (aot.NativeFunc, error) { return l.fn, nil }
func (l *stubLibrary) Close() error                                { return nil }

type stubLoader struct {
	fn    *stubNative
	opens int64
}

func (l *stubLoader) Open(path string) (aot.Library, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	atomic.AddInt64(&l.opens, 1)
	return &stubLibrary{fn: l.fn}, nil
}

// newTieredVM assembles a VM whose compiler and loader are test doubles.
func newTieredVM(t *testing.T, threshold uint64, compiler aot.Compiler, loader aot.Loader) *VM {
	t.Helper()
	cfg := DefaultConfig(params.CancunSpec)
	cfg.Compiler.Threshold = threshold
	cfg.Compiler.MaxConcurrent = 2

	db := rawdb.NewMemoryArtifactDB()
	v := &VM{cfg: cfg, log: log15.New("module", "tevm-test")}
	v.artifacts = db
	v.worker = aot.NewWorker(db, compiler, cfg.Compiler)
	v.tracker = aot.NewTracker(db, v.worker, cfg.Compiler.Threshold)
	v.dispatcher = aot.NewDispatcher(db, v.tracker, v.worker, loader)
	return v
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestExecuteStopContract(t *testing.T) {
	storage, _ := seedStorage(t, []byte{byte(vm.STOP)})
	v := NewVM(uint8(params.CancunSpec))
	defer v.Close()

	out, err := v.ExecuteTx(storage, encodeBlock(t, 1), encodeTx(t, &testContract, nil, 0))
	if err != nil {
		t.Fatalf("ExecuteTx: %v", err)
	}
	res, err := types.DecodeResult(out)
	if err != nil {
		t.Fatalf("DecodeResult: %v", err)
	}
	if res.Kind != types.ResultSuccess || res.Reason != types.SuccessStop {
		t.Fatalf("result = %+v, want Success/Stop", res)
	}
	if res.GasUsed != params.TxGas {
		t.Fatalf("gas used = %d, want %d", res.GasUsed, params.TxGas)
	}
	// The commit must have advanced the caller nonce.
	acc, err := storage.GetAccount(testCaller)
	if err != nil || acc == nil {
		t.Fatalf("caller account missing after commit: %v", err)
	}
	if acc.Nonce != 1 {
		t.Fatalf("caller nonce = %d, want 1", acc.Nonce)
	}
}

func TestSimulateDoesNotCommit(t *testing.T) {
	storage, _ := seedStorage(t, []byte{byte(vm.STOP)})
	v := NewVM(uint8(params.CancunSpec))
	defer v.Close()

	if _, err := v.SimulateTx(storage, encodeBlock(t, 1), encodeTx(t, &testContract, nil, 0)); err != nil {
		t.Fatalf("SimulateTx: %v", err)
	}
	acc, err := storage.GetAccount(testCaller)
	if err != nil || acc == nil {
		t.Fatal("caller account missing")
	}
	if acc.Nonce != 0 {
		t.Fatalf("simulate committed state: nonce = %d", acc.Nonce)
	}
}

func TestThresholdScenario(t *testing.T) {
	storage, hash := seedStorage(t, []byte{byte(vm.STOP)})

	compiler := &stubCompiler{dir: t.TempDir()}
	native := &stubNative{}
	loader := &stubLoader{fn: native}
	v := newTieredVM(t, 10, compiler, loader)
	defer v.Close()

	// Nine executions: nothing may be queued or published.
	var reference []byte
	for i := 0; i < 9; i++ {
		out, err := v.ExecuteTx(storage, encodeBlock(t, 1), encodeTx(t, &testContract, nil, uint64(i)))
		if err != nil {
			t.Fatalf("ExecuteTx %d: %v", i, err)
		}
		reference = out
	}
	if v.artifacts.HasArtifact(hash) {
		t.Fatal("artifact published below threshold")
	}
	if calls := atomic.LoadInt64(&compiler.calls); calls != 0 {
		t.Fatalf("compiler invoked %d times below threshold", calls)
	}

	// The tenth execution crosses the threshold; exactly one compilation
	// eventually publishes.
	if _, err := v.ExecuteTx(storage, encodeBlock(t, 1), encodeTx(t, &testContract, nil, 9)); err != nil {
		t.Fatalf("ExecuteTx 10: %v", err)
	}
	waitFor(t, 2*time.Second, func() bool { return v.artifacts.HasArtifact(hash) })
	if calls := atomic.LoadInt64(&compiler.calls); calls != 1 {
		t.Fatalf("compiler invoked %d times, want 1", calls)
	}

	// Subsequent executions dispatch native with an identical result.
	out, err := v.ExecuteTx(storage, encodeBlock(t, 1), encodeTx(t, &testContract, nil, 10))
	if err != nil {
		t.Fatalf("ExecuteTx 11: %v", err)
	}
	if atomic.LoadInt64(&native.calls) == 0 {
		t.Fatal("native entry point never dispatched")
	}
	if !bytes.Equal(out, reference) {
		t.Fatalf("tiered result diverged:\n  native      % x\n  interpreter % x", out, reference)
	}
}

func TestTieredEquivalence(t *testing.T) {
	code := []byte{byte(vm.STOP)}

	run := func(v *VM) []byte {
		storage, _ := seedStorage(t, code)
		out, err := v.ExecuteTx(storage, encodeBlock(t, 7), encodeTx(t, &testContract, nil, 0))
		if err != nil {
			t.Fatalf("ExecuteTx: %v", err)
		}
		return out
	}

	plain := NewVM(uint8(params.CancunSpec))
	defer plain.Close()
	tiered := newTieredVM(t, 1_000_000, &stubCompiler{dir: t.TempDir()}, &stubLoader{fn: &stubNative{}})
	defer tiered.Close()

	if !bytes.Equal(run(plain), run(tiered)) {
		t.Fatal("tier-enabled execution diverged from the interpreter")
	}
}

func TestCompileFailureKeepsInterpreter(t *testing.T) {
	storage, hash := seedStorage(t, []byte{byte(vm.STOP)})

	compiler := &stubCompiler{dir: t.TempDir(), err: errors.New("invalid EOF container")}
	v := newTieredVM(t, 3, compiler, &stubLoader{fn: &stubNative{}})
	defer v.Close()

	for i := 0; i < 8; i++ {
		out, err := v.ExecuteTx(storage, encodeBlock(t, 1), encodeTx(t, &testContract, nil, uint64(i)))
		if err != nil {
			t.Fatalf("ExecuteTx %d: %v", i, err)
		}
		res, err := types.DecodeResult(out)
		if err != nil || res.Kind != types.ResultSuccess {
			t.Fatalf("execution %d not successful after compile failure", i)
		}
	}
	waitFor(t, 2*time.Second, func() bool { return atomic.LoadInt64(&compiler.calls) >= 1 })
	time.Sleep(50 * time.Millisecond)
	if calls := atomic.LoadInt64(&compiler.calls); calls != 1 {
		t.Fatalf("compiler attempted %d times, want 1", calls)
	}
	if v.artifacts.HasArtifact(hash) {
		t.Fatal("failed compilation published an artifact")
	}
}

func TestDecodeErrorSurfaces(t *testing.T) {
	storage, _ := seedStorage(t, []byte{byte(vm.STOP)})
	v := NewVM(uint8(params.CancunSpec))
	defer v.Close()

	_, err := v.ExecuteTx(storage, []byte{0xff, 0xff, 0xff}, encodeTx(t, &testContract, nil, 0))
	var decodeErr *types.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("err = %v, want DecodeError", err)
	}
}

func TestFreeVMIdempotent(t *testing.T) {
	v, err := NewVMWithCompiler(uint8(params.CancunSpec), 10, 2)
	if err != nil {
		t.Fatalf("NewVMWithCompiler: %v", err)
	}
	h := NewHandle(v)
	if GetHandle(h) != v {
		t.Fatal("handle does not resolve")
	}
	got := DeleteHandle(h)
	if got != v {
		t.Fatal("delete returned wrong vm")
	}
	got.Close()
	got.Close() // double close is a no-op

	if GetHandle(h) != nil {
		t.Fatal("handle resolves after delete")
	}
	storage := state.NewMemStorage()
	if _, err := v.ExecuteTx(storage, nil, nil); err != ErrVMClosed {
		t.Fatalf("err = %v, want ErrVMClosed", err)
	}
}

func TestInvalidNonceRejected(t *testing.T) {
	storage, _ := seedStorage(t, []byte{byte(vm.STOP)})
	v := NewVM(uint8(params.CancunSpec))
	defer v.Close()

	_, err := v.ExecuteTx(storage, encodeBlock(t, 1), encodeTx(t, &testContract, nil, 5))
	if err == nil {
		t.Fatal("nonce-skipping transaction accepted")
	}
}
