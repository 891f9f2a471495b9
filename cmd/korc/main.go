/*
File    : korc/cmd/korc/main.go
*/

// Command korc is the compiler driver for Klang.
package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	// Links the cgo-exported printd/putchard shims into the binary.
	_ "github.com/kayagokalp/korc/runtime"
)

var (
	redColor    = color.New(color.FgRed)
	cyanColor   = color.New(color.FgCyan)
	yellowColor = color.New(color.FgYellow)
)

func main() {
	root := &cobra.Command{
		Use:   "korc",
		Short: "korc compiles and runs Klang programs",
	}
	root.AddCommand(newRunCommand())
	root.AddCommand(newBuildCommand())

	if err := root.Execute(); err != nil {
		redColor.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
