// Package main implements the dicec CLI: "fmt" pretty-prints a program's
// AST, "run" compiles and executes it, printing the resulting report.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"dicec/internal/compile"
	"dicec/internal/env"
	"dicec/internal/errors"
	"dicec/internal/parser"
)

func main() {
	if len(os.Args) < 3 {
		usage()
		os.Exit(1)
	}

	verb, path := os.Args[1], os.Args[2]
	source, err := os.ReadFile(path)
	if err != nil {
		color.Red("failed to read %s: %s", path, err)
		os.Exit(1)
	}

	switch verb {
	case "fmt":
		runFmt(path, string(source))
	case "run":
		runRun(path, string(source))
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage: dicec fmt <path> | dicec run <path>")
}

func runFmt(path, source string) {
	prog, err := parser.ParseSource(path, source)
	if err != nil {
		color.Red("%s", parser.FormatParseError(source, err))
		os.Exit(1)
	}
	fmt.Println(prog.String())
}

func runRun(path, source string) {
	report, errs := compile.Compile(path, source, env.OSLookup{})
	if len(errs) > 0 {
		reporter := errors.NewReporter(path, source)
		fmt.Print(reporter.FormatAll(errs))
		os.Exit(1)
	}
	fmt.Print(report.Render())
	color.Green("ok: %s", path)
}
