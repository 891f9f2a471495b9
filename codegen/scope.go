/*
File    : korc/codegen/scope.go
*/
package codegen

import "tinygo.org/x/go-llvm"

// locals is the per-function symbol table: a mapping from parameter
// name to the stack-slot (alloca) handle created for it in the
// function's entry block. It is discarded once the function is
// finalized.
//
// Klang has no nested block scoping — an if/else branch introduces new
// basic blocks, never a new variable scope — so a single flat map per
// function is all this needs; there is no parent chain to walk.
type locals struct {
	slots map[string]llvm.Value
}

func newLocals() *locals {
	return &locals{slots: make(map[string]llvm.Value)}
}

// bind records the alloca for name, overwriting any prior entry — used
// only for parameters, whose distinctness within one prototype is
// checked by lowerPrototype before binding begins.
func (l *locals) bind(name string, slot llvm.Value) {
	l.slots[name] = slot
}

// lookup returns the alloca bound to name, if any.
func (l *locals) lookup(name string) (llvm.Value, bool) {
	slot, ok := l.slots[name]
	return slot, ok
}
