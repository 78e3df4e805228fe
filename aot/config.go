// Package aot implements the adaptive compilation tier: execution counting,
// background ahead-of-time compilation of hot bytecodes into native shared
// objects, and per-frame dispatch between the compiled entry point and the
// interpreter.
package aot

import (
	"os"
	"path/filepath"

	"github.com/TevmFoundation/tevm-chain/params"
)

// OptLevel selects the backend optimization level.
type OptLevel int

const (
	OptNone OptLevel = iota
	OptLess
	OptDefault
	OptAggressive
)

func (o OptLevel) String() string {
	switch o {
	case OptNone:
		return "none"
	case OptLess:
		return "less"
	case OptDefault:
		return "default"
	default:
		return "aggressive"
	}
}

// Config carries the compile-time options of the native backend together
// with the tiering parameters.
type Config struct {
	// Spec is the EVM revision compiled against; fixed per VM lifetime.
	Spec params.SpecId

	// OptLevel is handed to the LLVM backend.
	OptLevel OptLevel
	// NoGasMetering builds objects without gas accounting. Must match the
	// interpreter flag or the two tiers diverge.
	NoGasMetering bool
	// NoStackChecks disables operand stack depth validation in emitted code.
	NoStackChecks bool
	// DebugAssertions builds objects with internal assertions enabled.
	DebugAssertions bool
	// ValidateEOF runs EOF container validation before translation.
	ValidateEOF bool

	// Threshold is the execution count at which a bytecode is queued for
	// compilation.
	Threshold uint64
	// MaxConcurrent bounds the number of in-flight compilations.
	MaxConcurrent int

	// ArtifactDir is where finished shared objects are kept. Scratch space
	// for individual compilations is allocated under the system temp root.
	ArtifactDir string

	// BackendPath is the EVM-LLVM backend executable. LinkerPath is the
	// platform linker driver used to produce the final shared object.
	BackendPath string
	LinkerPath  string
}

// DefaultConfig returns the configuration matching the stock deployment.
func DefaultConfig() Config {
	return Config{
		Spec:            params.CancunSpec,
		OptLevel:        OptAggressive,
		NoGasMetering:   false,
		NoStackChecks:   false,
		DebugAssertions: false,
		ValidateEOF:     true,
		Threshold:       params.CompileThreshold,
		MaxConcurrent:   params.MaxConcurrentCompilations,
		ArtifactDir:     filepath.Join(os.TempDir(), "tevm-artifacts"),
		BackendPath:     "evm-llvmc",
		LinkerPath:      "cc",
	}
}
