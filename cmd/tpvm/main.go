package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/teris-io/cli"
	"tinypie.dev/tinypie/pkg/assembler"
	"tinypie.dev/tinypie/pkg/vm"
)

var Description = strings.ReplaceAll(`
tpvm assembles TinyPie assembly text and runs it on the register-based
bytecode VM. Input defaults to standard input; pass --input to read from a
file instead. The program is always run; --disasm prints a disassembly
before running it, --coredump prints the memory layout after running it,
and --trace prints one line per executed instruction.
`, "\n", " ")

var TpVM = cli.New(Description).
	WithOption(cli.NewOption("input", "Assembly source file; defaults to stdin").WithType(cli.TypeString)).
	WithOption(cli.NewOption("coredump", "Dump constant pool, globals and code memory after execution").WithType(cli.TypeBool)).
	WithOption(cli.NewOption("disasm", "Print a disassembly of the assembled program before executing it").WithType(cli.TypeBool)).
	WithOption(cli.NewOption("trace", "Print one line per executed instruction").WithType(cli.TypeBool)).
	WithAction(Handler)

func Handler(args []string, options map[string]string) int {
	var text []byte
	var err error

	if input := options["input"]; input != "" {
		text, err = os.ReadFile(input)
	} else {
		text, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		fmt.Printf("ERROR: unable to read assembly source: %s\n", err)
		return 1
	}

	asm, err := assembler.New(string(text))
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		return 1
	}
	prog, err := asm.Assemble()
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		return 1
	}

	if _, enabled := options["disasm"]; enabled {
		fmt.Print(vm.Disassemble(prog.Code.Raw(), prog.Code.Size(), prog.Pool))
	}

	machine := vm.New(prog)
	machine.Trace = false
	if _, enabled := options["trace"]; enabled {
		machine.Trace = true
	}

	if err := machine.Execute(); err != nil {
		fmt.Printf("ERROR: %s\n", err)
		return 1
	}

	if _, enabled := options["coredump"]; enabled {
		code, size := machine.Code()
		fmt.Print(vm.Coredump(code, size, machine.Globals(), machine.Pool()))
	}

	return 0
}

func main() { os.Exit(TpVM.Run(os.Args, os.Stdout)) }
