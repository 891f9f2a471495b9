/*
File    : korc/codegen/passes.go
*/
package codegen

import "tinygo.org/x/go-llvm"

// newFunctionPassManager installs a function-pass pipeline in a fixed
// order: instruction combining, reassociate, GVN, CFG simplification,
// basic alias analysis, promote memory to register, instruction
// combining, reassociate. This is the canonical Kaleidoscope-tutorial
// mem2reg pipeline, which depends on every alloca sitting at the top
// of its function's entry block to find and promote.
func newFunctionPassManager(mod llvm.Module) llvm.PassManager {
	pm := llvm.NewFunctionPassManagerForModule(mod)
	pm.AddInstructionCombiningPass()
	pm.AddReassociatePass()
	pm.AddGVNPass()
	pm.AddCFGSimplificationPass()
	pm.AddBasicAliasAnalysisPass()
	pm.AddPromoteMemoryToRegisterPass()
	pm.AddInstructionCombiningPass()
	pm.AddReassociatePass()
	pm.InitializeFunc()
	return pm
}
