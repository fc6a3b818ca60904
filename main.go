// Package main provides the entry point for rvsim.
// rvsim is a single-cycle RV32I functional simulator.
//
// For the full CLI, use: go run ./cmd/rvsim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("rvsim - single-cycle RV32I simulator")
	fmt.Println("")
	fmt.Println("Usage: rvsim run [options] <program>")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  run        Run a program and print (a0,a1)")
	fmt.Println("  disasm     Disassemble a program")
	fmt.Println("  bench      Run the built-in validation programs")
	fmt.Println("  config     Print the effective configuration")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/rvsim --help' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/rvsim' instead.")
	}
}
