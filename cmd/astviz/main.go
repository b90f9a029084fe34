package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/teris-io/cli"
	"tinypie.dev/tinypie/pkg/astviz"
	"tinypie.dev/tinypie/pkg/parser"
)

var Description = strings.ReplaceAll(`
astviz parses a TinyPie source file and prints its AST as a Graphviz DOT
graph on stdout. Source defaults to standard input.
`, "\n", " ")

var AstViz = cli.New(Description).
	WithArg(cli.NewArg("source", "TinyPie source file; defaults to stdin").AsOptional().WithType(cli.TypeString)).
	WithAction(Handler)

func Handler(args []string, options map[string]string) int {
	var text []byte
	var err error

	if len(args) > 0 && args[0] != "" {
		text, err = os.ReadFile(args[0])
	} else {
		text, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		fmt.Printf("ERROR: unable to read source: %s\n", err)
		return 1
	}

	p, err := parser.New(string(text))
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		return 1
	}
	root, err := p.Parse()
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		return 1
	}

	fmt.Print(astviz.Generate(root))
	return 0
}

func main() { os.Exit(AstViz.Run(os.Args, os.Stdout)) }
