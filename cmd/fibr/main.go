// Command fibr is the REPL driver for the fibr language: the line-
// oriented loop, kept as a thin external collaborator bound only
// through pkg/vm's exported surface.
//
// No flags — stdin is always the program source. Grounded on the
// smog interpreter's cmd/smog/main.go REPL loop shape (persistent VM,
// read-eval-print, errors printed without aborting), adapted to
// fibr's `;`-terminated turn boundary instead of smog's trailing-
// period heuristic, and to github.com/chzyer/readline instead of a
// raw bufio.Scanner for line editing and history.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"

	"github.com/kristofer/fibr/pkg/builtins"
	"github.com/kristofer/fibr/pkg/vm"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "-h", "--help", "help":
			fmt.Fprintln(os.Stderr, "fibr takes no arguments; it reads its program from stdin")
			os.Exit(1)
		}
	}

	fmt.Printf("fibr %d\n\n", vm.Version)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "",
		HistoryFile: "",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting input: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	v := vm.New("stdin")
	if err := builtins.Register(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error registering builtins: %v\n", err)
		os.Exit(1)
	}

	br := vm.NewReader(&lineReader{rl: rl})
	pos := vm.NewPos("stdin", 1, 0)

	for {
		v.ResetForms()
		forms, gotSemi, err := vm.ReadTurn(v, &pos, br)
		if err != nil {
			fmt.Println(err.Error())
			continue
		}
		if !gotSemi {
			// Clean EOF with no trailing semicolon-terminated turn.
			break
		}

		startPC := v.PC()
		if err := v.EmitForms(&forms); err != nil {
			fmt.Println(err.Error())
			continue
		}
		v.EmitStop(nil)

		if err := v.Eval(startPC); err != nil {
			fmt.Println(err.Error())
			continue
		}

		dumpStack(v)
	}
}

// dumpStack prints "[v1 v2 … vN]\n", the stack-dump format printed
// after every turn completes.
func dumpStack(v *vm.VM) {
	values := v.StackValues()
	fmt.Print("[")
	for i, val := range values {
		if i > 0 {
			fmt.Print(" ")
		}
		fmt.Print(vm.Dump(val))
	}
	fmt.Println("]")
}

// lineReader adapts a readline.Instance to io.Reader, feeding each
// entered line back with its trailing newline so the position tracker
// sees LF characters exactly where a raw stdin stream would have them.
type lineReader struct {
	rl  *readline.Instance
	buf []byte
}

func (lr *lineReader) Read(p []byte) (int, error) {
	for len(lr.buf) == 0 {
		line, err := lr.rl.Readline()
		if err != nil {
			return 0, io.EOF
		}
		lr.buf = append([]byte(line), '\n')
	}
	n := copy(p, lr.buf)
	lr.buf = lr.buf[n:]
	return n, nil
}
