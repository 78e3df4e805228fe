package aot

import (
	"github.com/TevmFoundation/tevm-chain/common"
	"github.com/TevmFoundation/tevm-chain/core/rawdb"
	"github.com/inconshreveable/log15"
)

// compileSink receives threshold-crossing bytecodes. It is the worker in
// production and a capture stub in the tests.
type compileSink interface {
	Submit(req *CompileRequest) bool
}

// Tracker counts executions per code hash and hands bytecodes that cross the
// configured threshold to the compilation worker. It runs on the execution
// hot path: one counter read-modify-write per frame, nothing else unless the
// threshold fires.
type Tracker struct {
	db        *rawdb.ArtifactDB
	sink      compileSink
	threshold uint64
	log       log15.Logger
}

// NewTracker creates a tracker feeding sink at the given threshold.
func NewTracker(db *rawdb.ArtifactDB, sink compileSink, threshold uint64) *Tracker {
	return &Tracker{
		db:        db,
		sink:      sink,
		threshold: threshold,
		log:       log15.New("module", "aot"),
	}
}

// Observe records one execution of the bytecode identified by hash. The
// count transition threshold-1 -> threshold enqueues exactly one compile
// request; every other transition is a pure counter bump. An empty bytecode
// still counts but is never enqueued, there is nothing to compile.
func (t *Tracker) Observe(hash common.Hash, bytecode []byte) {
	if hash.IsZero() {
		return
	}
	count, err := t.db.IncCount(hash)
	if err != nil {
		// A failed bump only delays compilation; execution continues on the
		// interpreter path.
		t.log.Warn("Execution count update failed", "hash", hash, "err", err)
		return
	}
	if count == 1 && len(bytecode) > 0 {
		// Remember the bytecode so a restarted process can promote this hash
		// without re-observing it.
		if err := t.db.PutBytecode(hash, bytecode); err != nil {
			t.log.Warn("Bytecode persist failed", "hash", hash, "err", err)
		}
	}
	if count == t.threshold && len(bytecode) > 0 {
		t.sink.Submit(&CompileRequest{CodeHash: hash, Bytecode: common.CopyBytes(bytecode)})
	}
}

// Threshold returns the configured compile threshold.
func (t *Tracker) Threshold() uint64 { return t.threshold }
