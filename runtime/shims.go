/*
File    : korc/runtime/shims.go
*/

// Package runtime implements the two runtime shims Klang programs can
// declare with `use`: printd and putchard. These are not called from
// Go directly; they are called from JIT-compiled Klang code, which can
// only reach a native symbol by its link name. Exporting them with
// cgo's //export gives each a real C symbol in the host executable
// that survives dead-code elimination, so korc's MCJIT engine resolves
// `use printd(x);` / `use putchard(x);` the same way it would resolve
// libc's printf.
package runtime

import "C"

import (
	"fmt"
	"math"
	"os"
)

// Printd is the Go-callable form of the printd shim: prints
// "> {value} <" followed by a newline, and returns the input. It is
// exercised directly by tests that can't drive the cgo-exported
// symbol through a JIT call.
func Printd(x float64) float64 {
	fmt.Fprintf(os.Stdout, "> %g <\n", x)
	return x
}

//export printd
func printd(x C.double) C.double {
	return C.double(Printd(float64(x)))
}

// Putchard is the Go-callable form of the putchard shim: writes the
// single byte equal to the truncated integer value of x, and returns
// the input.
func Putchard(x float64) float64 {
	b := byte(int64(math.Trunc(x)))
	os.Stdout.Write([]byte{b})
	return x
}

//export putchard
func putchard(x C.double) C.double {
	return C.double(Putchard(float64(x)))
}
