// Package trace builds the canonical per-instruction trace as a
// collaborator of core.Machine rather than a core responsibility. It
// observes committed state after each tick via a Machine hook, in an
// observer style, funneled through a single print function.
package trace

import (
	"fmt"
	"io"
	"os"

	"github.com/k0kubun/pp/v3"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/dkjowett-bcomp/bcomp/core"
)

// Line is one emitted trace row.
type Line struct {
	CurIP, CurCR   uint16
	IP, CR         uint16
	AR, DR         uint16
	SP, BR, AC     uint16
	PS             uint8 // PS[3:0]: N,Z,V,C packed as bits 3,2,1,0
	LastModAddr    uint16
	LastModMem     uint16
	HasLastModAddr bool
}

// Tracer accumulates four capture points (microPC==1, microPC==4, any
// STOR tick, end-of-instruction) and funnels finished lines through a
// single print function.
type Tracer struct {
	out        io.Writer
	structured bool

	curIP, curCR           uint16
	haveCurIP, haveCurCR   bool
	lastModAddr, lastMod   uint16
	haveLastMod            bool

	Lines []Line
}

// New builds a Tracer writing plain trace lines to w.
func New(w io.Writer) *Tracer {
	return &Tracer{out: w}
}

// NewStructured builds a Tracer that pretty-prints each Line with
// pp.Fprintln instead of the plain trace columns. When w is an
// *os.File, the writer is wrapped through go-colorable and colored
// output is gated by go-isatty, the way the rest of the pack wires
// those two libraries together for console output.
func NewStructured(w io.Writer) *Tracer {
	out := w
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		out = colorable.NewColorable(f)
	}
	return &Tracer{out: out, structured: true}
}

// Attach registers the Tracer as m's OnTick observer.
func (t *Tracer) Attach(m *core.Machine) {
	m.OnTick = t.observe
}

func (t *Tracer) observe(m *core.Machine, ins core.Microword) {
	// (a) microPC becomes 1 (INFETCH): capture IP as cur_ip.
	if m.MicroPC == 1 {
		t.curIP, t.haveCurIP = m.IP, true
	}
	// (b) microPC becomes 4: capture CR as cur_cr.
	if m.MicroPC == 4 {
		t.curCR, t.haveCurCR = m.CR, true
	}
	// (c) any STOR tick: capture last modified (AR, DR).
	if ins.STOR && !ins.LOAD {
		t.lastModAddr, t.lastMod, t.haveLastMod = m.AR, m.DR, true
	}
	// (d) end-of-instruction marker: a branch taken with target==1.
	if ins.TYPE && m.MicroPC == 1 {
		t.emit(m)
	}
}

func (t *Tracer) emit(m *core.Machine) {
	line := Line{
		CurIP: t.curIP, CurCR: t.curCR,
		IP: m.IP, CR: m.CR, AR: m.AR, DR: m.DR,
		SP: m.SP, BR: m.BR, AC: m.AC,
		PS:             uint8(m.PS & 0xF),
		LastModAddr:    t.lastModAddr,
		LastModMem:     t.lastMod,
		HasLastModAddr: t.haveLastMod,
	}
	t.Lines = append(t.Lines, line)
	t.printLine(line)
}

// printLine is the single funnel every trace emission goes through,
// mirroring the "central print function" idiom: one place where the
// textual and structured renderings both happen.
func (t *Tracer) printLine(l Line) {
	if t.structured {
		pp.Fprintln(t.out, l)
		return
	}
	fmt.Fprintf(t.out, "%#04x %#04x %#04x %#04x %#04x %#04x %#04x %#04x %#04x %04b %#04x %#04x\n",
		l.CurIP, l.CurCR, l.IP, l.CR, l.AR, l.DR, l.SP, l.BR, l.AC, l.PS, l.LastModAddr, l.LastModMem)
}
