package aot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/TevmFoundation/tevm-chain/common"
	"github.com/TevmFoundation/tevm-chain/core/rawdb"
	"github.com/TevmFoundation/tevm-chain/crypto"
	"github.com/TevmFoundation/tevm-chain/params"
)

// stubCompiler produces empty artifact files, tracking concurrency and call
// counts. A non-nil err fails every compilation.
type stubCompiler struct {
	dir   string
	delay time.Duration
	err   error

	calls   int64
	running int64
	peak    int64
}

func (c *stubCompiler) Compile(label string, bytecode []byte, spec params.SpecId) (string, error) {
	atomic.AddInt64(&c.calls, 1)
	now := atomic.AddInt64(&c.running, 1)
	for {
		peak := atomic.LoadInt64(&c.peak)
		if now <= peak || atomic.CompareAndSwapInt64(&c.peak, peak, now) {
			break
		}
	}
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	atomic.AddInt64(&c.running, -1)
	if c.err != nil {
		return "", &CompileError{Label: label, Err: c.err}
	}
	path := filepath.Join(c.dir, label+".so")
	if err := os.WriteFile(path, []byte{0x7f}, 0o644); err != nil {
		return "", err
	}
	return path, nil
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

func testConfig(t *testing.T) Config {
	cfg := DefaultConfig()
	cfg.ArtifactDir = t.TempDir()
	cfg.Threshold = 10
	cfg.MaxConcurrent = 2
	return cfg
}

func TestWorkerPublishes(t *testing.T) {
	db := rawdb.NewMemoryArtifactDB()
	defer db.Close()

	cfg := testConfig(t)
	compiler := &stubCompiler{dir: cfg.ArtifactDir}
	w := NewWorker(db, compiler, cfg)
	defer w.Close()

	code := []byte{0x00}
	hash := crypto.Keccak256Hash(code)
	if !w.Submit(&CompileRequest{CodeHash: hash, Bytecode: code}) {
		t.Fatal("submit rejected")
	}
	waitFor(t, 2*time.Second, func() bool { return db.HasArtifact(hash) })

	label, ok := db.SymbolLabel(hash)
	if !ok || label != SymbolLabel(hash) {
		t.Fatalf("published label = %q, %v", label, ok)
	}
	path, _ := db.ArtifactPath(hash)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("published artifact missing on disk: %v", err)
	}
}

func TestWorkerConcurrencyCap(t *testing.T) {
	db := rawdb.NewMemoryArtifactDB()
	defer db.Close()

	cfg := testConfig(t)
	cfg.MaxConcurrent = 2
	compiler := &stubCompiler{dir: cfg.ArtifactDir, delay: 50 * time.Millisecond}
	w := NewWorker(db, compiler, cfg)
	defer w.Close()

	var hashes []common.Hash
	for i := 0; i < 4; i++ {
		code := []byte{0x60, byte(i), 0x00}
		hash := crypto.Keccak256Hash(code)
		hashes = append(hashes, hash)
		w.Submit(&CompileRequest{CodeHash: hash, Bytecode: code})
	}
	waitFor(t, 5*time.Second, func() bool {
		for _, hash := range hashes {
			if !db.HasArtifact(hash) {
				return false
			}
		}
		return true
	})
	if peak := atomic.LoadInt64(&compiler.peak); peak > 2 {
		t.Fatalf("observed %d concurrent compilations, cap is 2", peak)
	}
}

func TestWorkerDeduplicates(t *testing.T) {
	db := rawdb.NewMemoryArtifactDB()
	defer db.Close()

	cfg := testConfig(t)
	compiler := &stubCompiler{dir: cfg.ArtifactDir, delay: 30 * time.Millisecond}
	w := NewWorker(db, compiler, cfg)
	defer w.Close()

	code := []byte{0x5b, 0x00}
	hash := crypto.Keccak256Hash(code)
	for i := 0; i < 5; i++ {
		w.Submit(&CompileRequest{CodeHash: hash, Bytecode: code})
	}
	waitFor(t, 2*time.Second, func() bool { return db.HasArtifact(hash) })
	w.Close()

	if calls := atomic.LoadInt64(&compiler.calls); calls != 1 {
		t.Fatalf("compiled %d times, want 1", calls)
	}
}

func TestWorkerPoisonsFailures(t *testing.T) {
	db := rawdb.NewMemoryArtifactDB()
	defer db.Close()

	cfg := testConfig(t)
	compiler := &stubCompiler{dir: cfg.ArtifactDir, err: errors.New("invalid EOF container")}
	w := NewWorker(db, compiler, cfg)
	defer w.Close()

	code := []byte{0xef, 0x00, 0x01}
	hash := crypto.Keccak256Hash(code)
	w.Submit(&CompileRequest{CodeHash: hash, Bytecode: code})
	waitFor(t, 2*time.Second, func() bool { return w.Poisoned(hash) })

	// Poisoned hashes are never retried and never publish.
	w.Submit(&CompileRequest{CodeHash: hash, Bytecode: code})
	time.Sleep(50 * time.Millisecond)
	if calls := atomic.LoadInt64(&compiler.calls); calls != 1 {
		t.Fatalf("compile attempted %d times for poisoned hash, want 1", calls)
	}
	if db.HasArtifact(hash) {
		t.Fatal("poisoned hash has a published artifact")
	}
}

func TestWorkerSkipsPublished(t *testing.T) {
	db := rawdb.NewMemoryArtifactDB()
	defer db.Close()

	cfg := testConfig(t)
	compiler := &stubCompiler{dir: cfg.ArtifactDir}
	w := NewWorker(db, compiler, cfg)
	defer w.Close()

	code := []byte{0x00}
	hash := crypto.Keccak256Hash(code)
	if err := db.PublishArtifact(hash, SymbolLabel(hash), "/tmp/preexisting.so"); err != nil {
		t.Fatal(err)
	}
	w.Submit(&CompileRequest{CodeHash: hash, Bytecode: code})
	time.Sleep(50 * time.Millisecond)
	if calls := atomic.LoadInt64(&compiler.calls); calls != 0 {
		t.Fatalf("compiled %d times for an already published hash, want 0", calls)
	}
}

func TestWorkerSweep(t *testing.T) {
	db := rawdb.NewMemoryArtifactDB()
	defer db.Close()

	cfg := testConfig(t)
	cfg.Threshold = 3

	// Simulate a previous run: counts over threshold with persisted bytecode
	// but no artifact.
	var pending []common.Hash
	for i := 0; i < 3; i++ {
		code := []byte{0x60, byte(i), 0x60, 0x01, 0x00}
		hash := crypto.Keccak256Hash(code)
		pending = append(pending, hash)
		for j := 0; j < 4; j++ {
			if _, err := db.IncCount(hash); err != nil {
				t.Fatal(err)
			}
		}
		if err := db.PutBytecode(hash, code); err != nil {
			t.Fatal(err)
		}
	}
	// And one cold hash that must stay untouched.
	coldCode := []byte{0x00}
	cold := crypto.Keccak256Hash(coldCode)
	if _, err := db.IncCount(cold); err != nil {
		t.Fatal(err)
	}
	if err := db.PutBytecode(cold, coldCode); err != nil {
		t.Fatal(err)
	}

	compiler := &stubCompiler{dir: cfg.ArtifactDir}
	w := NewWorker(db, compiler, cfg)
	defer w.Close()

	if n := w.Sweep(); n != 3 {
		t.Fatalf("sweep submitted %d, want 3", n)
	}
	waitFor(t, 2*time.Second, func() bool {
		for _, hash := range pending {
			if !db.HasArtifact(hash) {
				return false
			}
		}
		return true
	})
	if db.HasArtifact(cold) {
		t.Fatal("sweep compiled a hash below the threshold")
	}
}

func TestWorkerCloseJoins(t *testing.T) {
	db := rawdb.NewMemoryArtifactDB()
	defer db.Close()

	cfg := testConfig(t)
	compiler := &stubCompiler{dir: cfg.ArtifactDir, delay: 50 * time.Millisecond}
	w := NewWorker(db, compiler, cfg)

	var hashes []common.Hash
	for i := 0; i < 3; i++ {
		code := []byte{0x61, byte(i), byte(i), 0x00}
		hash := crypto.Keccak256Hash(code)
		hashes = append(hashes, hash)
		w.Submit(&CompileRequest{CodeHash: hash, Bytecode: code})
	}
	// Give the loop a moment to start dispatching, then close; Close must
	// wait for whatever is in flight.
	time.Sleep(10 * time.Millisecond)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.Close()
	}()
	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not return")
	}
	if running := atomic.LoadInt64(&compiler.running); running != 0 {
		t.Fatalf("%d compilations still running after Close", running)
	}
	// Calling Close again is a no-op.
	w.Close()
}

func TestCompileErrorMessage(t *testing.T) {
	err := &CompileError{Label: "_a1b2c3", Err: fmt.Errorf("backend exploded")}
	want := "compilation of _a1b2c3 failed: backend exploded"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}
