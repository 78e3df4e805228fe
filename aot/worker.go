package aot

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/TevmFoundation/tevm-chain/common"
	"github.com/TevmFoundation/tevm-chain/core/rawdb"
	mapset "github.com/deckarep/golang-set"
	"github.com/inconshreveable/log15"
	"github.com/rcrowley/go-metrics"
	"golang.org/x/sync/semaphore"
)

// compileQueueSize is the size of the channel buffering compile requests
// between the execution thread and the worker.
const compileQueueSize = 256

var (
	compileSuccessCounter = metrics.GetOrRegisterCounter("aot/compile/success", nil)
	compileFailureCounter = metrics.GetOrRegisterCounter("aot/compile/failure", nil)
	compileInflightGauge  = metrics.GetOrRegisterGauge("aot/compile/inflight", nil)
)

// CompileRequest is one unit of background work: a bytecode that crossed the
// execution threshold. The bytecode is an owned copy, the request outlives
// the frame that produced it.
type CompileRequest struct {
	CodeHash common.Hash
	Bytecode []byte
}

// Worker consumes compile requests on a background goroutine, bounds the
// number of concurrent backend invocations with a counting semaphore, and
// publishes finished artifacts into the store. It shares no state with the
// execution thread other than the store and the request channel.
type Worker struct {
	db       *rawdb.ArtifactDB
	compiler Compiler
	cfg      Config

	queue chan *CompileRequest
	slots *semaphore.Weighted

	// inflight prevents duplicate work when the same hash crosses the
	// threshold more than once (e.g. restarts with stale counts). poisoned
	// remembers hashes whose compilation failed; they are not retried for
	// the life of the process and keep executing on the interpreter.
	inflight mapset.Set
	poisoned mapset.Set

	running int64 // compilations currently holding a slot

	ctx    context.Context
	cancel context.CancelFunc
	quit   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once

	log log15.Logger
}

// NewWorker creates the compilation worker and starts its dispatch loop.
func NewWorker(db *rawdb.ArtifactDB, compiler Compiler, cfg Config) *Worker {
	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Worker{
		db:       db,
		compiler: compiler,
		cfg:      cfg,
		queue:    make(chan *CompileRequest, compileQueueSize),
		slots:    semaphore.NewWeighted(int64(cfg.MaxConcurrent)),
		inflight: mapset.NewSet(),
		poisoned: mapset.NewSet(),
		ctx:      ctx,
		cancel:   cancel,
		quit:     make(chan struct{}),
		log:      log15.New("module", "aot"),
	}
	w.wg.Add(1)
	go w.loop()
	return w
}

// Submit enqueues a compile request without blocking the execution thread.
// It reports whether the request was accepted; a full queue drops the
// request, the hash will be resubmitted by the startup sweep or simply stays
// on the interpreter.
func (w *Worker) Submit(req *CompileRequest) bool {
	select {
	case w.queue <- req:
		return true
	case <-w.quit:
		return false
	default:
		w.log.Warn("Compile queue full, dropping request", "hash", req.CodeHash)
		return false
	}
}

// Poisoned reports whether hash failed compilation in this process.
func (w *Worker) Poisoned(hash common.Hash) bool {
	return w.poisoned.Contains(hash)
}

// Sweep scans persisted counts and enqueues every hash that crossed the
// threshold in a previous run but has no published artifact yet. It is the
// restart-recovery path; during live execution the tracker submits directly.
func (w *Worker) Sweep() int {
	// Collect candidates first; probing the store from inside the iteration
	// callback would re-enter its lock.
	var over []common.Hash
	w.db.IterateCounts(func(hash common.Hash, count uint64) bool {
		if count >= w.cfg.Threshold {
			over = append(over, hash)
		}
		return true
	})
	submitted := 0
	for _, hash := range over {
		if w.db.HasArtifact(hash) || w.poisoned.Contains(hash) {
			continue
		}
		code, ok := w.db.Bytecode(hash)
		if !ok || len(code) == 0 {
			continue
		}
		if w.Submit(&CompileRequest{CodeHash: hash, Bytecode: code}) {
			submitted++
		}
	}
	if submitted > 0 {
		w.log.Info("Resuming pending compilations", "count", submitted)
	}
	return submitted
}

// Close shuts the worker down: the queue is closed for business and every
// in-flight compilation is awaited. Safe to call more than once.
func (w *Worker) Close() {
	w.once.Do(func() {
		close(w.quit)
		w.cancel()
	})
	w.wg.Wait()
}

func (w *Worker) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.quit:
			return
		case req := <-w.queue:
			w.dispatch(req)
		}
	}
}

func (w *Worker) dispatch(req *CompileRequest) {
	hash := req.CodeHash
	if w.poisoned.Contains(hash) {
		return
	}
	// Deduplicate: Add reports false if the hash is already in flight.
	if !w.inflight.Add(hash) {
		return
	}
	// Skip hashes that already have a committed artifact; counts may be
	// stale across restarts.
	if w.db.HasArtifact(hash) {
		w.inflight.Remove(hash)
		return
	}
	if err := w.slots.Acquire(w.ctx, 1); err != nil {
		// Shutdown while waiting for a slot.
		w.inflight.Remove(hash)
		return
	}
	w.wg.Add(1)
	compileInflightGauge.Update(atomic.AddInt64(&w.running, 1))
	go func() {
		defer func() {
			compileInflightGauge.Update(atomic.AddInt64(&w.running, -1))
			w.slots.Release(1)
			w.inflight.Remove(hash)
			w.wg.Done()
		}()
		w.compile(req)
	}()
}

func (w *Worker) compile(req *CompileRequest) {
	label := SymbolLabel(req.CodeHash)
	path, err := w.compiler.Compile(label, req.Bytecode, w.cfg.Spec)
	if err != nil {
		w.poison(req.CodeHash, label, err)
		return
	}
	// Publish label before path; the path is the commit marker readers wait
	// for. A store write failure is a compile failure.
	if err := w.db.PublishArtifact(req.CodeHash, label, path); err != nil {
		w.poison(req.CodeHash, label, err)
		return
	}
	compileSuccessCounter.Inc(1)
	w.log.Info("Published native artifact", "hash", req.CodeHash, "label", label, "path", path)
}

func (w *Worker) poison(hash common.Hash, label string, err error) {
	w.poisoned.Add(hash)
	compileFailureCounter.Inc(1)
	w.log.Warn("Compilation failed, hash poisoned", "hash", hash, "label", label, "err", err)
}
