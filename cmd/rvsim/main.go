// Package main provides the rvsim command-line tool.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
)

// Version is set at build time.
var Version = "dev"

func main() {
	app := newApp(os.Stdout, os.Stderr)

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "rvsim: %v\n", err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	app := cli.NewApp()
	app.Version = Version
	app.Name = "rvsim"
	app.Usage = "Single-cycle RV32I simulator"
	app.Description = "Runs RV32I programs one instruction per cycle and reports a0 and a1."
	app.Commands = []*cli.Command{
		{
			Name:      "run",
			Usage:     "Run a program and print (a0,a1)",
			ArgsUsage: "<program>",
			Flags:     append(configFlags, runFlags...),
			Action:    runCmd,
		},
		{
			Name:      "disasm",
			Usage:     "Disassemble a program up to its first zero word",
			ArgsUsage: "<program>",
			Flags:     configFlags,
			Action:    disasmCmd,
		},
		{
			Name:   "bench",
			Usage:  "Run the built-in RV32I programs and check their results",
			Flags:  benchFlags,
			Action: benchCmd,
		},
		{
			Name:   "config",
			Usage:  "Print the effective configuration as YAML",
			Flags:  configFlags,
			Action: configCmd,
		},
	}
	app.Writer = stdout
	app.ErrWriter = stderr
	app.ExitErrHandler = func(*cli.Context, error) {}

	return app
}
