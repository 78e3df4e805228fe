// Package tevm assembles the virtual machine exposed to the host: an EVM
// bound to the host's storage collaborator, optionally fronted by the
// adaptive compilation tier.
package tevm

import (
	"errors"
	"path/filepath"

	"github.com/TevmFoundation/tevm-chain/aot"
	"github.com/TevmFoundation/tevm-chain/core"
	"github.com/TevmFoundation/tevm-chain/core/rawdb"
	"github.com/TevmFoundation/tevm-chain/core/state"
	"github.com/TevmFoundation/tevm-chain/core/types"
	"github.com/TevmFoundation/tevm-chain/core/vm"
	"github.com/TevmFoundation/tevm-chain/params"
	"github.com/inconshreveable/log15"
)

// ErrVMClosed is returned when a released VM handle is used.
var ErrVMClosed = errors.New("vm already released")

// Config assembles everything a VM instance needs.
type Config struct {
	Spec    params.SpecId
	ChainID uint64
	// DataDir roots the artifact store and the finished shared objects.
	// Empty keeps the store in memory (artifacts still go to the temp root).
	DataDir string
	// Compiler carries the tier parameters; ignored when the tier is off.
	Compiler aot.Config
	// VM is the interpreter configuration.
	VM vm.Config
}

// DefaultConfig returns a VM configuration for the given revision.
func DefaultConfig(spec params.SpecId) Config {
	cfg := Config{
		Spec:     spec,
		ChainID:  1,
		Compiler: aot.DefaultConfig(),
	}
	cfg.Compiler.Spec = spec
	return cfg
}

// VM is one host-owned virtual machine instance. Execute and Simulate are
// synchronous and not reentrant; the compilation tier runs on background
// goroutines owned by this object and is joined on Close.
type VM struct {
	cfg Config

	artifacts  *rawdb.ArtifactDB
	worker     *aot.Worker
	tracker    *aot.Tracker
	dispatcher *aot.Dispatcher

	closed bool
	log    log15.Logger
}

// NewVM creates an interpreter-only VM for the given revision byte.
func NewVM(specByte uint8) *VM {
	vmobj, _ := NewVMWithConfig(DefaultConfig(params.SpecFromUint8(specByte)), false)
	return vmobj
}

// NewVMWithCompiler creates a VM with the adaptive compilation tier enabled.
func NewVMWithCompiler(specByte uint8, threshold uint64, maxConcurrent int) (*VM, error) {
	cfg := DefaultConfig(params.SpecFromUint8(specByte))
	if threshold > 0 {
		cfg.Compiler.Threshold = threshold
	}
	if maxConcurrent > 0 {
		cfg.Compiler.MaxConcurrent = maxConcurrent
	}
	return NewVMWithConfig(cfg, true)
}

// NewVMWithConfig assembles a VM. With tiered set, the artifact store is
// opened (stale records pruned), the worker started, and any hashes left
// over threshold by a previous run are queued again.
func NewVMWithConfig(cfg Config, tiered bool) (*VM, error) {
	v := &VM{cfg: cfg, log: log15.New("module", "tevm", "spec", cfg.Spec)}
	if !tiered {
		return v, nil
	}
	var (
		db  *rawdb.ArtifactDB
		err error
	)
	if cfg.DataDir == "" {
		db = rawdb.NewMemoryArtifactDB()
	} else {
		if db, err = rawdb.NewArtifactDB(filepath.Join(cfg.DataDir, "artifacts")); err != nil {
			return nil, err
		}
		cfg.Compiler.ArtifactDir = filepath.Join(cfg.DataDir, "objects")
	}
	if pruned := db.PruneStaleArtifacts(); pruned > 0 {
		v.log.Info("Pruned stale native artifacts", "count", pruned)
	}
	v.artifacts = db
	v.worker = aot.NewWorker(db, aot.NewCompiler(cfg.Compiler), cfg.Compiler)
	v.tracker = aot.NewTracker(db, v.worker, cfg.Compiler.Threshold)
	v.dispatcher = aot.NewDispatcher(db, v.tracker, v.worker, aot.NewNativeLoader())
	v.worker.Sweep()
	return v, nil
}

// Tiered reports whether the compilation tier is active.
func (v *VM) Tiered() bool { return v.dispatcher != nil }

// ArtifactDB exposes the compilation cache, used by the inspection tooling.
func (v *VM) ArtifactDB() *rawdb.ArtifactDB { return v.artifacts }

// ExecuteTx decodes the host-provided block and transaction views, runs the
// transaction and commits the resulting state changes into storage. The
// returned bytes are the encoded result envelope.
func (v *VM) ExecuteTx(storage state.Storage, blockBytes, txBytes []byte) ([]byte, error) {
	return v.transact(storage, blockBytes, txBytes, true)
}

// SimulateTx runs the transaction without committing state.
func (v *VM) SimulateTx(storage state.Storage, blockBytes, txBytes []byte) ([]byte, error) {
	return v.transact(storage, blockBytes, txBytes, false)
}

func (v *VM) transact(storage state.Storage, blockBytes, txBytes []byte, commit bool) ([]byte, error) {
	if v.closed {
		return nil, ErrVMClosed
	}
	block, err := types.DecodeBlockEnv(blockBytes)
	if err != nil {
		return nil, err
	}
	tx, err := types.DecodeTxEnv(txBytes)
	if err != nil {
		return nil, err
	}
	statedb := state.New(storage)
	evm := vm.NewEVM(blockContext(block, tx), statedb, v.cfg.Spec, v.cfg.ChainID, v.cfg.VM)
	if v.dispatcher != nil {
		v.dispatcher.Attach(evm)
	}
	res, err := core.ApplyTransaction(evm, statedb, tx)
	if err != nil {
		return nil, err
	}
	if commit {
		if err := statedb.Commit(); err != nil {
			return nil, err
		}
	}
	return types.EncodeResult(res)
}

// Close releases the VM: the compile queue is shut, in-flight compilations
// are awaited, loaded libraries are dropped and the store is closed. Safe to
// call on an interpreter-only VM.
func (v *VM) Close() {
	if v.closed {
		return
	}
	v.closed = true
	if v.worker != nil {
		v.worker.Close()
	}
	if v.dispatcher != nil {
		v.dispatcher.Close()
	}
	if v.artifacts != nil {
		if err := v.artifacts.Close(); err != nil {
			v.log.Warn("Artifact store close failed", "err", err)
		}
	}
}

// blockContext maps the decoded environments onto the EVM context.
func blockContext(block *types.BlockEnv, tx *types.TxEnv) vm.Context {
	ctx := vm.Context{
		Origin:      tx.Caller,
		GasPrice:    tx.GasPrice,
		Coinbase:    block.Coinbase,
		GasLimit:    block.GasLimit,
		BlockNumber: block.Number,
		Time:        block.Timestamp,
		Difficulty:  block.Difficulty,
		BaseFee:     block.BaseFee,
	}
	if block.PrevRandao != nil {
		randao := *block.PrevRandao
		ctx.PrevRandao = &randao
	}
	return ctx
}
