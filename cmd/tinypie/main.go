package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/teris-io/cli"
	"tinypie.dev/tinypie/pkg/interp"
)

var Description = strings.ReplaceAll(`
TinyPie interprets a source file directly off its AST, without going
through the bytecode assembler or VM. Useful for trying out the language
and for comparing interpreter and VM behavior on the same program.
`, "\n", " ")

var TinyPie = cli.New(Description).
	WithArg(cli.NewArg("source", "The TinyPie source file to run")).
	WithAction(Handler)

func Handler(args []string, options map[string]string) int {
	text, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Printf("ERROR: unable to read source file: %s\n", err)
		return 1
	}

	it := interp.New()
	if err := it.Interpret(string(text)); err != nil {
		fmt.Printf("ERROR: %s\n", err)
		return 1
	}

	return 0
}

func main() { os.Exit(TinyPie.Run(os.Args, os.Stdout)) }
