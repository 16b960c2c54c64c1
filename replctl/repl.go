// Package replctl is the headless line-mode debugger: a
// github.com/chzyer/readline front-end with a persistent
// *readline.Instance, history, a prompt that tracks machine state, and
// a small command dispatcher over a core.Machine.
package replctl

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/dkjowett-bcomp/bcomp/core"
)

// Repl is the headless debugger: type address to view memory, q to
// quit, c to continue to halt, s [n] to single-step, and <enter> to
// print the symbol table.
type Repl struct {
	Machine *core.Machine
	Symbols []core.Symbol

	rl  *readline.Instance
	out io.Writer
}

// New builds a Repl over m. historyPath may be empty to disable
// persistent history.
func New(m *core.Machine, syms []core.Symbol, historyPath string) (*Repl, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     historyPath,
		InterruptPrompt: "^C",
	})
	if err != nil {
		return nil, err
	}

	out := io.Writer(os.Stdout)
	if isatty.IsTerminal(os.Stdout.Fd()) {
		out = colorable.NewColorable(os.Stdout)
	}

	return &Repl{Machine: m, Symbols: syms, rl: rl, out: out}, nil
}

func (r *Repl) Close() error {
	return r.rl.Close()
}

// Run drives the prompt loop until the user quits or stdin closes.
func (r *Repl) Run() error {
	defer r.Close()
	r.DisplayState()
	for {
		r.setPrompt()
		ln := r.rl.Line()
		if ln.CanContinue() {
			continue
		} else if ln.CanBreak() {
			return nil
		}
		if quit := r.dispatch(strings.TrimSpace(ln.Line)); quit {
			return nil
		}
	}
}

func (r *Repl) setPrompt() {
	r.rl.SetPrompt(fmt.Sprintf("micro%03d ip%#04x> ", r.Machine.MicroPC, r.Machine.IP))
}

func (r *Repl) dispatch(line string) (quit bool) {
	if line == "" {
		r.printSymbols()
		return false
	}
	fields := strings.Fields(line)
	switch fields[0] {
	case "q", "quit":
		return true
	case "c", "continue":
		r.continueToHalt()
	case "s", "step":
		n := 1
		if len(fields) > 1 {
			if v, err := strconv.Atoi(fields[1]); err == nil {
				n = v
			}
		}
		for i := 0; i < n && !r.Machine.Halted(); i++ {
			r.Machine.Tick()
		}
		r.DisplayState()
	default:
		addr, err := strconv.ParseInt(fields[0], 10, 32)
		if err != nil {
			fmt.Fprintf(r.out, "unrecognized command %q\n", fields[0])
			return false
		}
		r.dumpMemory(uint16(addr), 1)
	}
	return false
}

func (r *Repl) continueToHalt() {
	for !r.Machine.Halted() {
		r.Machine.Tick()
	}
	fmt.Fprintln(r.out)
	r.DisplayState()
}

func (r *Repl) dumpMemory(addr uint16, count int) {
	for i := 0; i < count; i++ {
		v := r.Machine.Memory.Read(addr + uint16(i))
		fmt.Fprintf(r.out, "%6d : %016b %5d %5d\n", addr+uint16(i), v, v, int16(v))
	}
}

func (r *Repl) printSymbols() {
	for _, s := range r.Symbols {
		fmt.Fprintf(r.out, "%-24s : %d\n", s.Name, s.Val)
	}
}

// DisplayState prints the register file.
func (r *Repl) DisplayState() {
	m := r.Machine
	regs := []struct {
		name string
		val  uint16
	}{
		{"AC", m.AC}, {"BR", m.BR}, {"DR", m.DR}, {"CR", m.CR},
		{"IP", m.IP}, {"SP", m.SP}, {"AR", m.AR}, {"PS", m.PS},
	}
	for _, reg := range regs {
		fmt.Fprintf(r.out, "%6s : %016b %5d %5d\n", reg.name, reg.val, reg.val, int16(reg.val))
	}
	fmt.Fprintf(r.out, "\n%6s : %d\n", "uPC", m.MicroPC)
}
