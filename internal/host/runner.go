// Copyright 2026 wasmgreet authors
// Licensed under the MIT License

package host

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"
)

var (
	// ErrNoEntryPoint means the module exports neither _initialize nor _start.
	ErrNoEntryPoint = errors.New("module exports neither _initialize nor _start")

	// ErrModuleExited means the module ran to completion during Start, so its
	// instance is gone and exports can no longer be invoked. Guests that want
	// to stay callable must be built as reactors (-buildmode=c-shared).
	ErrModuleExited = errors.New("module already exited")

	// ErrNoSuchExport means the requested function is not exported by the
	// module.
	ErrNoSuchExport = errors.New("no such exported function")
)

// Options configures a Runner. Eval services the guest's env.eval_script
// import; Stdout and Stderr receive the guest's WASI output.
type Options struct {
	Eval   Evaluator
	Stdout io.Writer
	Stderr io.Writer
	Log    zerolog.Logger
}

// Runner owns one wasm module instance and the wazero runtime it lives in.
// Not safe for concurrent use.
type Runner struct {
	runtime  wazero.Runtime
	compiled wazero.CompiledModule
	opts     Options

	mod    api.Module
	exited bool
}

// NewRunner compiles wasm and prepares the host side of its imports: WASI
// preview1 and the env module with eval_script. The module is not instantiated
// until Start.
func NewRunner(ctx context.Context, wasm []byte, opts Options) (_ *Runner, err error) {
	if opts.Eval == nil {
		return nil, errors.New("options: Eval is required")
	}
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}
	if opts.Stderr == nil {
		opts.Stderr = io.Discard
	}

	r := wazero.NewRuntime(ctx)
	defer func() {
		if err != nil {
			r.Close(ctx)
		}
	}()

	wasi_snapshot_preview1.MustInstantiate(ctx, r)

	_, err = r.NewHostModuleBuilder("env").
		NewFunctionBuilder().
		WithFunc(func(ctx context.Context, m api.Module, ptr, size uint32) {
			evalScript(m.Memory(), opts.Eval, opts.Log, ptr, size)
		}).
		Export("eval_script").
		Instantiate(ctx)
	if err != nil {
		return nil, fmt.Errorf("instantiate env module: %w", err)
	}

	compiled, err := r.CompileModule(ctx, wasm)
	if err != nil {
		return nil, fmt.Errorf("compile module: %w", err)
	}

	return &Runner{runtime: r, compiled: compiled, opts: opts}, nil
}

// guestMemory is the slice of api.Memory that eval_script needs. Narrowed so
// the handler can be tested without a live module.
type guestMemory interface {
	Read(offset, byteCount uint32) ([]byte, bool)
}

func evalScript(mem guestMemory, eval Evaluator, log zerolog.Logger, ptr, size uint32) {
	if size == 0 {
		return
	}
	buf, ok := mem.Read(ptr, size)
	if !ok {
		log.Warn().
			Uint32("ptr", ptr).
			Uint32("size", size).
			Msg("eval_script: script out of memory range, dropped")
		return
	}
	eval.Eval(string(buf))
}

// Start instantiates the module and runs its entry point. Reactor modules
// (exporting _initialize) are initialized and stay live for Invoke. Command
// modules (exporting _start) run to completion; a clean exit is success, and
// the instance is gone afterwards.
func (r *Runner) Start(ctx context.Context) error {
	cfg := wazero.NewModuleConfig().
		WithName("greeter").
		WithStdout(r.opts.Stdout).
		WithStderr(r.opts.Stderr).
		WithStartFunctions() // entry point is chosen below

	mod, err := r.runtime.InstantiateModule(ctx, r.compiled, cfg)
	if err != nil {
		return fmt.Errorf("instantiate module: %w", err)
	}
	r.mod = mod

	if init := mod.ExportedFunction("_initialize"); init != nil {
		if _, err := init.Call(ctx); err != nil {
			return fmt.Errorf("run _initialize: %w", err)
		}
		return nil
	}

	start := mod.ExportedFunction("_start")
	if start == nil {
		return ErrNoEntryPoint
	}

	_, err = start.Call(ctx)
	var exitErr *sys.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.ExitCode() != 0 {
			return fmt.Errorf("run _start: %w", err)
		}
		r.exited = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("run _start: %w", err)
	}
	return nil
}

// Invoke calls a zero-argument, no-result exported function by name.
func (r *Runner) Invoke(ctx context.Context, name string) error {
	if r.mod == nil {
		return errors.New("module not started")
	}
	if r.exited {
		return fmt.Errorf("invoke %s: %w", name, ErrModuleExited)
	}
	fn := r.mod.ExportedFunction(name)
	if fn == nil {
		return fmt.Errorf("invoke %s: %w", name, ErrNoSuchExport)
	}
	if _, err := fn.Call(ctx); err != nil {
		return fmt.Errorf("invoke %s: %w", name, err)
	}
	return nil
}

// Close releases the runtime and everything instantiated in it.
func (r *Runner) Close(ctx context.Context) error {
	return r.runtime.Close(ctx)
}
