package aot

import (
	"fmt"
	"sync"

	"github.com/TevmFoundation/tevm-chain/common"
	"github.com/TevmFoundation/tevm-chain/core/rawdb"
	"github.com/TevmFoundation/tevm-chain/core/vm"
	lru "github.com/hashicorp/golang-lru"
	"github.com/inconshreveable/log15"
)

// libraryCacheSize bounds the number of shared objects kept open at once.
const libraryCacheSize = 128

// NativeFunc is a resolved entry point inside a loaded shared object. Its
// Call must be semantically equivalent to running the frame's bytecode on
// the interpreter.
type NativeFunc interface {
	Call(contract *vm.Contract, input []byte, readOnly bool) ([]byte, error)
}

// Library is an open shared object. It must stay open for the duration of
// any call into a function resolved from it.
type Library interface {
	Lookup(label string) (NativeFunc, error)
	Close() error
}

// Loader opens shared objects from disk.
type Loader interface {
	Open(path string) (Library, error)
}

// loadedLib pairs an open library with its resolved entry point.
type loadedLib struct {
	lib Library
	fn  NativeFunc
}

// Dispatcher interposes on the EVM frame executor. For every frame it bumps
// the hotness tracker, probes the artifact store, and either calls the
// published native function or falls through to the interpreter. Loaded
// libraries are cached per code hash in an LRU of libraryCacheSize entries;
// an evicted library is closed, the others stay open until the VM is
// released. Dispatch runs on the single foreground thread, so an eviction can
// never close the library of the frame currently executing.
type Dispatcher struct {
	db      *rawdb.ArtifactDB
	tracker *Tracker
	worker  *Worker
	loader  Loader

	mu   sync.Mutex
	libs *lru.Cache // common.Hash -> *loadedLib

	log log15.Logger
}

// NewDispatcher wires the interposer to its collaborators.
func NewDispatcher(db *rawdb.ArtifactDB, tracker *Tracker, worker *Worker, loader Loader) *Dispatcher {
	cache, _ := lru.NewWithEvict(libraryCacheSize, func(key, value interface{}) {
		if entry, ok := value.(*loadedLib); ok {
			entry.lib.Close()
		}
	})
	return &Dispatcher{
		db:      db,
		tracker: tracker,
		worker:  worker,
		loader:  loader,
		libs:    cache,
		log:     log15.New("module", "aot"),
	}
}

// Attach registers the interposer into the EVM's frame executor. The wrapped
// executor keeps the previous one as the interpreter fallthrough.
func (d *Dispatcher) Attach(evm *vm.EVM) {
	evm.WrapFrameExecutor(func(prev vm.ExecuteFrameFunc) vm.ExecuteFrameFunc {
		return func(contract *vm.Contract, input []byte, readOnly bool) ([]byte, error) {
			hash := contract.CodeHash
			if hash.IsZero() {
				return prev(contract, input, readOnly)
			}
			d.tracker.Observe(hash, contract.Code)

			entry := d.function(hash)
			if entry == nil {
				return prev(contract, input, readOnly)
			}
			// entry.lib is held by the cache and cannot be evicted while this
			// call runs on the same goroutine.
			return entry.fn.Call(contract, input, readOnly)
		}
	})
}

// function resolves the native entry point for hash, or nil when the hash is
// not (yet) published. The presence of the artifact path is the commit
// marker; a label without a path is an unfinished publish and reads as
// missing.
func (d *Dispatcher) function(hash common.Hash) *loadedLib {
	d.mu.Lock()
	defer d.mu.Unlock()

	if cached, ok := d.libs.Get(hash); ok {
		return cached.(*loadedLib)
	}
	if d.worker != nil && d.worker.Poisoned(hash) {
		return nil
	}
	path, ok := d.db.ArtifactPath(hash)
	if !ok {
		return nil
	}
	label, ok := d.db.SymbolLabel(hash)
	if !ok || label == "" {
		// Publish writes the label before the path and delete removes the
		// path first, so a path without a label means the label record was
		// lost; recompute the mangling instead.
		label = SymbolLabel(hash)
	}
	lib, err := d.loader.Open(path)
	if err != nil {
		// A stale or unloadable artifact degrades to the interpreter; drop
		// the record so the probe is not repeated every frame.
		d.log.Warn("Failed to load native artifact", "hash", hash, "path", path, "err", err)
		if derr := d.db.DeleteArtifact(hash); derr != nil {
			d.log.Warn("Failed to drop stale artifact record", "hash", hash, "err", derr)
		}
		return nil
	}
	fn, err := lib.Lookup(label)
	if err != nil {
		d.log.Warn("Symbol missing in native artifact", "hash", hash, "label", label, "err", err)
		lib.Close()
		return nil
	}
	entry := &loadedLib{lib: lib, fn: fn}
	d.libs.Add(hash, entry)
	return entry
}

// Close drops every cached library. Must only be called once no frame is
// executing, i.e. at VM release.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.libs.Purge()
}

// String implements fmt.Stringer for diagnostics.
func (d *Dispatcher) String() string {
	return fmt.Sprintf("aot.Dispatcher(libs=%d)", d.libs.Len())
}
