/*
File    : korc/codegen/function.go
*/
package codegen

import (
	"errors"
	"fmt"

	"tinygo.org/x/go-llvm"

	"github.com/kayagokalp/korc/ast"
)

// Sentinel codegen errors, reported as fixed strings rather than ones
// formatted per call site, so the wording a caller sees is stable and
// exact.
var (
	errCouldNotFindVariable     = errors.New("Could not find a matching variable.")
	errExpectedVariableAsLHS    = errors.New("Expected variable as left-hand operator of assignment.")
	errUndefinedVariable        = errors.New("Undefined variable.")
	errUnknownFunction          = errors.New("Unknown function.")
	errUndefinedBinaryOperator  = errors.New("Undefined binary operator.")
	errInvalidGeneratedFunction = errors.New("Invalid generated function.")
)

// compileFunction lowers one ast.Function. An extern (nil Body) only
// lowers its prototype; a definition additionally builds the entry
// block, allocas its parameters, lowers the body, verifies the
// result, and runs it through the function pass pipeline from
// passes.go.
func (m *Module) compileFunction(fn ast.Function) (llvm.Value, error) {
	entry, err := m.lowerPrototype(fn.Prototype)
	if err != nil {
		return llvm.Value{}, err
	}
	if fn.Body == nil {
		return entry.value, nil
	}
	if entry.defined {
		return llvm.Value{}, fmt.Errorf("function %q is already defined", fn.Prototype.Name)
	}

	fnVal := entry.value
	block := llvm.AddBasicBlock(fnVal, "entry")
	m.builder.SetInsertPointAtEnd(block)

	scope := newLocals()
	for i, name := range fn.Prototype.Args {
		alloca := m.createEntryAlloca(fnVal, name)
		m.builder.CreateStore(fnVal.Param(i), alloca)
		scope.bind(name, alloca)
	}

	fc := &functionCompiler{m: m, fn: fnVal, scope: scope}
	body, err := fc.lowerExpression(fn.Body)
	if err != nil {
		fnVal.EraseFromParentAsFunction()
		delete(m.functions, fn.Prototype.Name)
		return llvm.Value{}, err
	}
	m.builder.CreateRet(body)

	if err := llvm.VerifyFunction(fnVal, llvm.PrintMessageAction); err != nil {
		fnVal.EraseFromParentAsFunction()
		delete(m.functions, fn.Prototype.Name)
		return llvm.Value{}, errInvalidGeneratedFunction
	}

	pm := newFunctionPassManager(m.mod)
	defer pm.Dispose()
	pm.RunFunc(fnVal)

	entry.defined = true
	return fnVal, nil
}

// createEntryAlloca allocates a stack slot for name at the top of
// fn's entry block, ahead of any instruction already emitted there —
// the precondition the mem2reg pass needs to promote it to an SSA
// register. A throwaway builder positioned independently of m.builder
// (which tracks the current emission point for the body) makes this
// possible regardless of how much of the body has already been
// lowered.
func (m *Module) createEntryAlloca(fn llvm.Value, name string) llvm.Value {
	b := m.ctx.NewBuilder()
	defer b.Dispose()

	block := fn.FirstBasicBlock()
	if first := block.FirstInstruction(); !first.IsNil() {
		b.SetInsertPointBefore(first)
	} else {
		b.SetInsertPointAtEnd(block)
	}
	return b.CreateAlloca(m.doubleTy, name)
}

// functionCompiler lowers one function body's expression tree. It
// holds the parameter/local symbol table and the enclosing function
// value conditionals need to append new basic blocks to.
type functionCompiler struct {
	m     *Module
	fn    llvm.Value
	scope *locals
}

// lowerExpression lowers one expression node, dispatching on its
// concrete type.
func (fc *functionCompiler) lowerExpression(expr ast.Expression) (llvm.Value, error) {
	switch e := expr.(type) {
	case ast.Literal:
		return llvm.ConstFloat(fc.m.doubleTy, e.Value), nil

	case ast.Variable:
		slot, ok := fc.scope.lookup(e.Name)
		if !ok {
			return llvm.Value{}, errCouldNotFindVariable
		}
		return fc.m.builder.CreateLoad(slot, e.Name), nil

	case ast.Binary:
		return fc.lowerBinary(e)

	case ast.Call:
		return fc.lowerCall(e)

	case ast.Conditional:
		return fc.lowerConditional(e)

	default:
		return llvm.Value{}, fmt.Errorf("codegen: unknown expression type %T", expr)
	}
}

// lowerBinary handles `=` assignment as a special case (the left-hand
// side must already be a bound variable) and dispatches the arithmetic
// and comparison operators otherwise. `<` and `>` both lower through
// an unordered-less-than float compare, swapping operands for `>`, then
// widen the i1 result back to f64.
func (fc *functionCompiler) lowerBinary(e ast.Binary) (llvm.Value, error) {
	if e.Op == "=" {
		target, ok := e.LHS.(ast.Variable)
		if !ok {
			return llvm.Value{}, errExpectedVariableAsLHS
		}
		// RHS lowers before the target is looked up: in `a = b` with
		// neither name bound, the error reported is the one for `b`,
		// not the undefined-target error for `a`.
		val, err := fc.lowerExpression(e.RHS)
		if err != nil {
			return llvm.Value{}, err
		}
		slot, ok := fc.scope.lookup(target.Name)
		if !ok {
			return llvm.Value{}, errUndefinedVariable
		}
		fc.m.builder.CreateStore(val, slot)
		return val, nil
	}

	lhs, err := fc.lowerExpression(e.LHS)
	if err != nil {
		return llvm.Value{}, err
	}
	rhs, err := fc.lowerExpression(e.RHS)
	if err != nil {
		return llvm.Value{}, err
	}

	switch e.Op {
	case "+":
		return fc.m.builder.CreateFAdd(lhs, rhs, "addtmp"), nil
	case "-":
		return fc.m.builder.CreateFSub(lhs, rhs, "subtmp"), nil
	case "*":
		return fc.m.builder.CreateFMul(lhs, rhs, "multmp"), nil
	case "/":
		return fc.m.builder.CreateFDiv(lhs, rhs, "divtmp"), nil
	case "<":
		cmp := fc.m.builder.CreateFCmp(llvm.FloatULT, lhs, rhs, "cmptmp")
		return fc.m.builder.CreateUIToFP(cmp, fc.m.doubleTy, "booltmp"), nil
	case ">":
		cmp := fc.m.builder.CreateFCmp(llvm.FloatULT, rhs, lhs, "cmptmp")
		return fc.m.builder.CreateUIToFP(cmp, fc.m.doubleTy, "booltmp"), nil
	default:
		return llvm.Value{}, errUndefinedBinaryOperator
	}
}

// lowerCall resolves the callee in the module's function table and
// emits a call after checking arity. Arguments are lowered
// left-to-right before the call is emitted.
func (fc *functionCompiler) lowerCall(e ast.Call) (llvm.Value, error) {
	callee, arity, ok := fc.m.lookupFunction(e.Callee)
	if !ok {
		return llvm.Value{}, errUnknownFunction
	}
	if arity != len(e.Args) {
		return llvm.Value{}, fmt.Errorf("incorrect number of arguments passed to %q: expected %d, got %d", e.Callee, arity, len(e.Args))
	}

	args := make([]llvm.Value, len(e.Args))
	for i, argExpr := range e.Args {
		val, err := fc.lowerExpression(argExpr)
		if err != nil {
			return llvm.Value{}, err
		}
		args[i] = val
	}

	return fc.m.builder.CreateCall(callee, args, "calltmp"), nil
}

// lowerConditional lowers `if cond { then } else { else }` into three
// basic blocks joined by a phi node: the condition compares against
// 0.0 with the "ordered not-equal" predicate, matching the source
// language's "nonzero is true" rule.
func (fc *functionCompiler) lowerConditional(e ast.Conditional) (llvm.Value, error) {
	condVal, err := fc.lowerExpression(e.Cond)
	if err != nil {
		return llvm.Value{}, err
	}
	zero := llvm.ConstFloat(fc.m.doubleTy, 0.0)
	condCmp := fc.m.builder.CreateFCmp(llvm.FloatONE, condVal, zero, "ifcond")

	thenBlock := llvm.AddBasicBlock(fc.fn, "ifblock")
	elseBlock := llvm.AddBasicBlock(fc.fn, "elseblock")
	restBlock := llvm.AddBasicBlock(fc.fn, "rest")

	fc.m.builder.CreateCondBr(condCmp, thenBlock, elseBlock)

	fc.m.builder.SetInsertPointAtEnd(thenBlock)
	thenVal, err := fc.lowerExpression(e.Then)
	if err != nil {
		return llvm.Value{}, err
	}
	fc.m.builder.CreateBr(restBlock)
	thenEndBlock := fc.m.builder.GetInsertBlock()

	fc.m.builder.SetInsertPointAtEnd(elseBlock)
	elseVal, err := fc.lowerExpression(e.Else)
	if err != nil {
		return llvm.Value{}, err
	}
	fc.m.builder.CreateBr(restBlock)
	elseEndBlock := fc.m.builder.GetInsertBlock()

	fc.m.builder.SetInsertPointAtEnd(restBlock)
	phi := fc.m.builder.CreatePHI(fc.m.doubleTy, "iftmp")
	phi.AddIncoming(
		[]llvm.Value{thenVal, elseVal},
		[]llvm.BasicBlock{thenEndBlock, elseEndBlock},
	)
	return phi, nil
}
