/*
File    : korc/codegen/module.go
*/

// Package codegen lowers a Klang ast.Node sequence to an LLVM module:
// the module-level codegen driver and the per-function compiler. It
// is the only package that touches the LLVM backend, bound concretely
// here to tinygo.org/x/go-llvm.
package codegen

import (
	"fmt"
	"os"

	"tinygo.org/x/go-llvm"

	"github.com/kayagokalp/korc/ast"
)

// funcEntry is one row of the module-scope function table. defined is
// true once a body has been compiled for this name; a name may be
// declared (extern) and later defined exactly once.
type funcEntry struct {
	value   llvm.Value
	arity   int
	defined bool
}

// Module owns every LLVM object built for one compilation: the
// Context, the Module, a shared Builder, and the module-scope function
// table.
type Module struct {
	ctx     llvm.Context
	mod     llvm.Module
	builder llvm.Builder

	doubleTy llvm.Type

	functions map[string]*funcEntry
}

// New creates a fresh Module named "main".
func New() *Module {
	ctx := llvm.NewContext()
	mod := ctx.NewModule("main")
	builder := ctx.NewBuilder()

	return &Module{
		ctx:       ctx,
		mod:       mod,
		builder:   builder,
		doubleTy:  llvm.DoubleType(),
		functions: make(map[string]*funcEntry),
	}
}

// Dispose releases every LLVM-owned object Module holds, in the
// reverse order of acquisition: builder and module must be destroyed
// before the context.
func (m *Module) Dispose() {
	m.builder.Dispose()
	m.mod.Dispose()
	m.ctx.Dispose()
}

// LLVMModule exposes the underlying llvm.Module for the driver layer
// (bitcode serialization, textual IR dump, JIT execution).
func (m *Module) LLVMModule() llvm.Module { return m.mod }

// Compile iterates nodes in source order, lowering each extern
// declaration or function definition in turn. It stops at the first
// error.
func (m *Module) Compile(nodes []ast.Node) error {
	for _, node := range nodes {
		switch n := node.(type) {
		case ast.ExternNode:
			if _, err := m.declareExtern(n.Prototype); err != nil {
				return err
			}
		case ast.FunctionNode:
			if _, err := m.compileFunction(n.Function); err != nil {
				return err
			}
		default:
			return fmt.Errorf("codegen: unknown AST node type %T", node)
		}
	}
	return nil
}

// functionType returns the f64(f64, ..., f64) signature for an
// arity-n prototype; Klang has no variadic functions.
func (m *Module) functionType(arity int) llvm.Type {
	params := make([]llvm.Type, arity)
	for i := range params {
		params[i] = m.doubleTy
	}
	return llvm.FunctionType(m.doubleTy, params, false)
}

// lowerPrototype creates or reuses the module-level function symbol
// for proto. Redefining a name that was only declared (extern) reuses
// the existing symbol after checking arity; redefining one that
// already has a body is rejected by compileFunction once it sees
// entry.defined.
func (m *Module) lowerPrototype(proto ast.Prototype) (*funcEntry, error) {
	if seen := map[string]bool{}; true {
		for _, arg := range proto.Args {
			if seen[arg] {
				return nil, fmt.Errorf("duplicate parameter name %q in prototype for %q", arg, proto.Name)
			}
			seen[arg] = true
		}
	}

	// The anonymous wrapper the parser builds for a bare top-level
	// expression never occupies a table slot: each one is its own
	// one-off function, not a redefinition of the previous one.
	if proto.Name == "" {
		fn := llvm.AddFunction(m.mod, "", m.functionType(len(proto.Args)))
		for i, name := range proto.Args {
			fn.Param(i).SetName(name)
		}
		return &funcEntry{value: fn, arity: len(proto.Args)}, nil
	}

	if existing, ok := m.functions[proto.Name]; ok {
		if existing.arity != len(proto.Args) {
			return nil, fmt.Errorf("conflicting arity for function %q: previously %d argument(s), now %d", proto.Name, existing.arity, len(proto.Args))
		}
		return existing, nil
	}

	fn := llvm.AddFunction(m.mod, proto.Name, m.functionType(len(proto.Args)))
	for i, name := range proto.Args {
		fn.Param(i).SetName(name)
	}

	entry := &funcEntry{value: fn, arity: len(proto.Args)}
	m.functions[proto.Name] = entry
	return entry, nil
}

// declareExtern lowers a prototype with no body.
func (m *Module) declareExtern(proto ast.Prototype) (llvm.Value, error) {
	entry, err := m.lowerPrototype(proto)
	if err != nil {
		return llvm.Value{}, err
	}
	return entry.value, nil
}

// lookupFunction resolves a callee name in the module's function
// table.
func (m *Module) lookupFunction(name string) (llvm.Value, int, bool) {
	entry, ok := m.functions[name]
	if !ok {
		return llvm.Value{}, 0, false
	}
	return entry.value, entry.arity, true
}

// WriteBitcodeToFile serializes the module's bitcode to path, backing
// `korc run --ir --file-out`.
func (m *Module) WriteBitcodeToFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create bitcode file: %w", err)
	}
	defer f.Close()
	if err := llvm.WriteBitcodeToFile(m.mod, f); err != nil {
		return fmt.Errorf("write bitcode: %w", err)
	}
	return nil
}

// String renders the module's textual IR, backing `korc run --ir`
// without --file-out.
func (m *Module) String() string {
	return m.mod.String()
}

// RunMain JIT-compiles the module and invokes the zero-arity symbol
// "main" as `unsafe extern "C" fn() -> f64`. The execution engine
// takes ownership of the module on success: callers must not call
// Dispose afterward, since the engine already holds and will release
// the underlying llvm.Module.
func (m *Module) RunMain() (float64, error) {
	fn, arity, ok := m.lookupFunction("main")
	if !ok {
		return 0, fmt.Errorf("missing main symbol")
	}
	if arity != 0 {
		return 0, fmt.Errorf("main must take no arguments, found %d", arity)
	}

	opts := llvm.NewMCJITCompilerOptions()
	opts.SetMCJITOptimizationLevel(2)
	engine, err := llvm.NewMCJITCompiler(m.mod, opts)
	if err != nil {
		return 0, fmt.Errorf("create JIT execution engine: %w", err)
	}

	ret := engine.RunFunction(fn, nil)
	result := ret.Float(m.doubleTy)

	// Disposing the engine frees m.mod along with it; the builder and
	// context are unrelated objects and still need releasing, the
	// context last.
	engine.Dispose()
	m.builder.Dispose()
	m.ctx.Dispose()

	return result, nil
}
