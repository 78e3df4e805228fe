package aot

import (
	"sync"
	"testing"

	"github.com/TevmFoundation/tevm-chain/common"
	"github.com/TevmFoundation/tevm-chain/core/rawdb"
	"github.com/TevmFoundation/tevm-chain/crypto"
)

// captureSink records submitted compile requests.
type captureSink struct {
	mu   sync.Mutex
	reqs []*CompileRequest
}

func (c *captureSink) Submit(req *CompileRequest) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reqs = append(c.reqs, req)
	return true
}

func (c *captureSink) submitted() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.reqs)
}

func TestSymbolLabel(t *testing.T) {
	hash := common.HexToHash("0xa1b2c3d4e5f60000000000000000000000000000000000000000000000000000")
	if got := SymbolLabel(hash); got != "_a1b2c3" {
		t.Fatalf("SymbolLabel = %q, want %q", got, "_a1b2c3")
	}
}

func TestObserveThresholdCrossing(t *testing.T) {
	db := rawdb.NewMemoryArtifactDB()
	defer db.Close()

	sink := new(captureSink)
	tracker := NewTracker(db, sink, 10)

	code := []byte{byte(0x60), 0x01, 0x00}
	hash := crypto.Keccak256Hash(code)

	// Below the threshold nothing may be queued.
	for i := 0; i < 9; i++ {
		tracker.Observe(hash, code)
	}
	if n := sink.submitted(); n != 0 {
		t.Fatalf("submitted %d requests below threshold, want 0", n)
	}
	// The exact crossing queues exactly one request.
	tracker.Observe(hash, code)
	if n := sink.submitted(); n != 1 {
		t.Fatalf("submitted %d requests at threshold, want 1", n)
	}
	// Executions beyond the threshold never re-queue.
	for i := 0; i < 5; i++ {
		tracker.Observe(hash, code)
	}
	if n := sink.submitted(); n != 1 {
		t.Fatalf("submitted %d requests beyond threshold, want 1", n)
	}
	if count := db.Count(hash); count != 15 {
		t.Fatalf("persisted count = %d, want 15", count)
	}
}

func TestObserveEmptyBytecode(t *testing.T) {
	db := rawdb.NewMemoryArtifactDB()
	defer db.Close()

	sink := new(captureSink)
	tracker := NewTracker(db, sink, 3)

	hash := crypto.Keccak256Hash([]byte("account without code"))
	for i := 0; i < 5; i++ {
		tracker.Observe(hash, nil)
	}
	// The count still advances, but nothing can be compiled.
	if count := db.Count(hash); count != 5 {
		t.Fatalf("persisted count = %d, want 5", count)
	}
	if n := sink.submitted(); n != 0 {
		t.Fatalf("submitted %d requests for empty bytecode, want 0", n)
	}
}

func TestObserveZeroHash(t *testing.T) {
	db := rawdb.NewMemoryArtifactDB()
	defer db.Close()

	sink := new(captureSink)
	tracker := NewTracker(db, sink, 1)

	tracker.Observe(common.Hash{}, []byte{0x00})
	if n := sink.submitted(); n != 0 {
		t.Fatalf("submitted %d requests for the zero hash, want 0", n)
	}
}

func TestObservePersistsBytecode(t *testing.T) {
	db := rawdb.NewMemoryArtifactDB()
	defer db.Close()

	tracker := NewTracker(db, new(captureSink), 10)
	code := []byte{0x5b, 0x00}
	hash := crypto.Keccak256Hash(code)

	tracker.Observe(hash, code)
	stored, ok := db.Bytecode(hash)
	if !ok {
		t.Fatal("bytecode not persisted on first observe")
	}
	if string(stored) != string(code) {
		t.Fatal("persisted bytecode differs")
	}
}
