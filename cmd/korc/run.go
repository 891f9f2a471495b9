/*
File    : korc/cmd/korc/run.go
*/
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kayagokalp/korc/ast"
	"github.com/kayagokalp/korc/codegen"
	"github.com/kayagokalp/korc/lexer"
	"github.com/kayagokalp/korc/parser"
)

const (
	sourcePath  = "main.kl"
	astDumpPath = ".ast"
	bitcodePath = "main.bc"
)

type runOptions struct {
	repl    bool
	ast     bool
	ir      bool
	fileOut bool
}

func newRunCommand() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "lex, parse, and compile ./main.kl",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(*opts)
		},
	}
	cmd.Flags().BoolVar(&opts.repl, "repl", false, "run interactively (not yet supported)")
	cmd.Flags().BoolVar(&opts.ast, "ast", false, "print or dump the parsed AST")
	cmd.Flags().BoolVar(&opts.ir, "ir", false, "print or dump the compiled LLVM IR")
	cmd.Flags().BoolVar(&opts.fileOut, "file-out", false, "write --ast/--ir output to disk instead of stdout/stderr")
	return cmd
}

// newBuildCommand returns the `korc build` alias, kept so existing
// build scripts invoking `korc build` keep working unchanged.
func newBuildCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "alias for run --ir --file-out",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(runOptions{ir: true, fileOut: true})
		},
	}
}

// runPipeline drives the lex -> parse -> codegen -> (AST/IR dump |
// JIT) pipeline in strict sequential order.
func runPipeline(opts runOptions) error {
	if opts.repl {
		return fmt.Errorf("REPL is not supported yet!")
	}

	src, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("read %s: %w", sourcePath, err)
	}

	tokens, err := lexer.Tokenize(string(src))
	if err != nil {
		return fmt.Errorf("lex: %w", err)
	}

	nodes, leftover, err := parser.Parse(tokens, nil)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if len(leftover) > 0 {
		return fmt.Errorf("parse: %s is incomplete (truncated mid-statement)", sourcePath)
	}

	if opts.ast {
		if err := emitAST(nodes, opts.fileOut); err != nil {
			return err
		}
	}

	return compileAndRun(nodes, opts)
}

// compileAndRun wraps every call into the LLVM backend — codegen,
// IR/bitcode emission, and JIT execution — in a single panic-recovery
// guard: go-llvm's C++-backed handles can panic on misuse, and that
// should reach the user as a clean stderr line instead of a raw stack
// trace.
func compileAndRun(nodes []ast.Node, opts runOptions) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("backend panic: %v", r)
		}
	}()

	m := codegen.New()
	if err := m.Compile(nodes); err != nil {
		m.Dispose()
		return fmt.Errorf("codegen: %w", err)
	}

	if opts.ir {
		defer m.Dispose()
		return emitIR(m, opts.fileOut)
	}

	result, err := m.RunMain()
	if err != nil {
		m.Dispose()
		return fmt.Errorf("jit: %w", err)
	}
	_ = result // the result of main is discarded
	return nil
}

// emitAST renders nodes prefixed with "AST ", either to stdout or,
// with fileOut, to ./.ast.
func emitAST(nodes []ast.Node, fileOut bool) error {
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString("AST ")
		b.WriteString(n.String())
		b.WriteString("\n")
	}

	if !fileOut {
		yellowColor.Print(b.String())
		return nil
	}
	if err := os.WriteFile(astDumpPath, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", astDumpPath, err)
	}
	return nil
}

// emitIR prints textual IR to stderr or, with fileOut, writes bitcode
// to ./main.bc. The entry symbol is always "main".
func emitIR(m *codegen.Module, fileOut bool) error {
	if !fileOut {
		cyanColor.Fprintln(os.Stderr, m.String())
		return nil
	}
	if err := m.WriteBitcodeToFile(bitcodePath); err != nil {
		return fmt.Errorf("write %s: %w", bitcodePath, err)
	}
	return nil
}
