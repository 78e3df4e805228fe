package aot

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/TevmFoundation/tevm-chain/params"
	"github.com/inconshreveable/log15"
	"github.com/pborman/uuid"
)

// CompileError wraps a backend or toolchain failure for one bytecode. It is
// background-only: it never reaches the foreground caller and never kills
// the VM, it taints a single code hash.
type CompileError struct {
	Label string
	Err   error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compilation of %s failed: %v", e.Label, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// Compiler produces a loadable shared object from EVM bytecode. The returned
// path is the final artifact location; the object exports exactly one symbol
// named after the given label.
type Compiler interface {
	Compile(label string, bytecode []byte, spec params.SpecId) (string, error)
}

// llvmCompiler drives the external EVM-LLVM backend and the platform linker.
// Each compilation runs in a fresh scratch directory that is removed once the
// finished object has been moved into the artifact directory.
type llvmCompiler struct {
	cfg Config
	log log15.Logger
}

// NewCompiler returns the backend-driving compiler for cfg.
func NewCompiler(cfg Config) Compiler {
	return &llvmCompiler{cfg: cfg, log: log15.New("module", "aot")}
}

func (c *llvmCompiler) Compile(label string, bytecode []byte, spec params.SpecId) (path string, err error) {
	scratch := filepath.Join(os.TempDir(), "aot-"+uuid.New())
	if err := os.MkdirAll(scratch, 0o700); err != nil {
		return "", &CompileError{Label: label, Err: err}
	}
	defer os.RemoveAll(scratch)

	input := filepath.Join(scratch, "bytecode.bin")
	if err := os.WriteFile(input, bytecode, 0o600); err != nil {
		return "", &CompileError{Label: label, Err: err}
	}
	obj := filepath.Join(scratch, "a.o")

	// Translate the bytecode into a native object. The flag set mirrors the
	// VM configuration so interpreted and compiled execution agree.
	args := []string{
		"--label", label,
		"--spec", spec.String(),
		"--opt-level", c.cfg.OptLevel.String(),
		"--frame-pointers",
		"--inspect-stack-length",
		"-o", obj,
		input,
	}
	if c.cfg.NoGasMetering {
		args = append(args, "--no-gas")
	}
	if c.cfg.NoStackChecks {
		args = append(args, "--no-stack-checks")
	}
	if c.cfg.DebugAssertions {
		args = append(args, "--debug-assertions")
	}
	if c.cfg.ValidateEOF {
		args = append(args, "--validate-eof")
	}
	if out, err := exec.Command(c.cfg.BackendPath, args...).CombinedOutput(); err != nil {
		return "", &CompileError{Label: label, Err: fmt.Errorf("backend: %v: %s", err, out)}
	}
	if _, err := os.Stat(obj); err != nil {
		return "", &CompileError{Label: label, Err: fmt.Errorf("backend produced no object file")}
	}

	// Link into a shared object.
	so := filepath.Join(scratch, "a"+sharedObjectExt)
	if out, err := exec.Command(c.cfg.LinkerPath, "-shared", "-o", so, obj).CombinedOutput(); err != nil {
		return "", &CompileError{Label: label, Err: fmt.Errorf("linker: %v: %s", err, out)}
	}
	if _, err := os.Stat(so); err != nil {
		return "", &CompileError{Label: label, Err: fmt.Errorf("linker produced no shared object")}
	}

	// Move the finished object out of the scratch directory before it is
	// removed.
	if err := os.MkdirAll(c.cfg.ArtifactDir, 0o700); err != nil {
		return "", &CompileError{Label: label, Err: err}
	}
	final := filepath.Join(c.cfg.ArtifactDir, label+sharedObjectExt)
	if err := moveFile(so, final); err != nil {
		return "", &CompileError{Label: label, Err: err}
	}
	c.log.Debug("Compiled bytecode", "label", label, "artifact", final)
	return final, nil
}

// moveFile renames src to dst, falling back to copy-and-delete when the two
// paths live on different filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dst, data, 0o700); err != nil {
		return err
	}
	return os.Remove(src)
}
