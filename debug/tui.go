/* Copyright (C) 2017 David Jowett
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation; either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program; if not, write to the Free Software Foundation,
 * Inc., 51 Franklin Street, Fifth Floor, Boston, MA 02110-1301  USA
 */

// Package debug is an interactive gocui TUI over a core.Machine: a
// four-pane layout (registers, symbols, microcode, memory) with
// vi-style scrolling, a view-cycling focus model, and step/run/halt/
// reset controls.
package debug

import (
	"fmt"
	"sync"
	"time"

	"github.com/jroimartin/gocui"

	"github.com/dkjowett-bcomp/bcomp/core"
)

type KeyBinding struct {
	View    string
	Key     interface{}
	Mod     gocui.Modifier
	Handler func(*gocui.Gui, *gocui.View) error
}

// TUI is the debugger's gocui front-end over a core.Machine. mu guards
// every access to the Machine and to the run/halt state, since the
// background run loop and gocui's own event loop both touch it.
type TUI struct {
	Machine *core.Machine
	Symbols []core.Symbol
	Gui     *gocui.Gui

	mu         sync.Mutex
	running    bool
	stop       chan struct{}
	cycleCount uint64

	MemAddr int
	MemMin  int
	MemHex  bool
	SymPos  int
	SymMin  int
	SymHex  bool
	MCPos   int
	MCMin   int
	VCycle  []*gocui.View
	CView   int

	// MC holds the human-readable rendering of every microcode entry.
	MC          []string
	Breakpoints [256]bool
}

func (u *TUI) Run() error {
	defer u.Gui.Close()
	if err := u.Gui.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}
	return nil
}

// New builds a TUI over m, with sym as the symbol table to render in the
// symbols pane (see the loader package for how sym is produced).
func New(m *core.Machine, sym []core.Symbol) (*TUI, error) {
	var err error
	u := &TUI{Machine: m, Symbols: sym}
	u.MemHex = true
	u.VCycle = make([]*gocui.View, 0, 4)
	u.CView = 1
	u.MC = make([]string, 256)
	u.Gui, err = gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, err
	}

	u.refreshMicrocodeText()
	u.Gui.SetManagerFunc(u.Layout)

	keys := []KeyBinding{
		{"", gocui.KeyCtrlC, gocui.ModNone, quit},
		{"", 'q', gocui.ModNone, quit},
		{"", 's', gocui.ModNone, u.Step},
		{"", 'r', gocui.ModNone, u.StartRun},
		{"", 'h', gocui.ModNone, u.Halt},
		{"", 'c', gocui.ModNone, u.CycleView},
		{"", 'C', gocui.ModNone, u.ReverseCycleView},
		{"", 'l', gocui.ModNone, u.ResetMachine},
		{"symbols", 'j', gocui.ModNone, u.SymScrollDown},
		{"symbols", 'k', gocui.ModNone, u.SymScrollUp},
		{"symbols", 'g', gocui.ModNone, u.SymGoto},
		{"symbols", gocui.KeyEnter, gocui.ModNone, u.SymGoto},
		{"symbols", 'm', gocui.ModNone, u.SymModeToggle},
		{"memory", 'j', gocui.ModNone, u.MemScrollDown},
		{"memory", 'k', gocui.ModNone, u.MemScrollUp},
		{"memory", 'm', gocui.ModNone, u.MemModeToggle},
		{"microcode", 'j', gocui.ModNone, u.MicrocodeScrollDown},
		{"microcode", 'k', gocui.ModNone, u.MicrocodeScrollUp},
		{"microcode", 'b', gocui.ModNone, u.MicrocodeToggleBreakPoint},
	}
	for _, k := range keys {
		if err := u.Gui.SetKeybinding(k.View, k.Key, k.Mod, k.Handler); err != nil {
			return nil, err
		}
	}

	u.Gui.Update(u.UpdateViews)
	return u, nil
}

func (u *TUI) refreshMicrocodeText() {
	for i := 0; i < 256; i++ {
		u.MC[i] = u.Machine.RomWord(uint8(i)).String()
	}
}

func (u *TUI) UpdateViews(g *gocui.Gui) error {
	if err := u.UpdateRegistersView(g); err != nil {
		return err
	}
	if err := u.UpdateSymbolsView(g); err != nil {
		return err
	}
	if err := u.UpdateMicrocodeView(g); err != nil {
		return err
	}
	if err := u.UpdateMemoryView(g); err != nil {
		return err
	}
	return nil
}

func (u *TUI) UpdateRegistersView(g *gocui.Gui) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	v, err := g.View("registers")
	if err != nil {
		return err
	}
	v.Clear()
	m := u.Machine
	regs := []struct {
		name string
		val  uint16
	}{
		{"AC", m.AC}, {"BR", m.BR}, {"DR", m.DR}, {"CR", m.CR},
		{"IP", m.IP}, {"SP", m.SP}, {"AR", m.AR}, {"PS", m.PS},
	}
	for _, r := range regs {
		fmt.Fprintf(v, "%-4s: %#04x %-5d %016b\n", r.name, r.val, r.val, r.val)
	}
	fmt.Fprintf(v, "N:%v Z:%v V:%v C:%v INT:%v\n", m.FlagN(), m.FlagZ(), m.FlagV(), m.FlagC(), m.InterruptsEnabled())
	if m.Running() {
		fmt.Fprintf(v, "Status : Running\n")
	} else {
		fmt.Fprintf(v, "Status : Halted\n")
	}
	fmt.Fprintf(v, "MicroPC: %d\n", m.MicroPC)
	fmt.Fprintf(v, "Cycles : %d", u.cycleCount)

	return nil
}

func (u *TUI) UpdateSymbolsView(g *gocui.Gui) error {
	v, err := g.View("symbols")
	if err != nil {
		return err
	}
	v.Clear()
	_, maxY := v.Size()
	for i := 0; i < maxY && (i+u.SymMin) < len(u.Symbols); i++ {
		s := u.Symbols[i+u.SymMin]
		if u.SymHex {
			fmt.Fprintf(v, "%-24s : %#04x\n", s.Name, s.Val)
		} else {
			fmt.Fprintf(v, "%-24s : %-6d\n", s.Name, s.Val)
		}
	}
	return nil
}

func (u *TUI) UpdateMicrocodeView(g *gocui.Gui) error {
	v, err := g.View("microcode")
	if err != nil {
		return err
	}
	u.mu.Lock()
	mpc := u.Machine.MicroPC
	u.mu.Unlock()
	v.Clear()
	_, maxY := v.Size()
	for i := 0; i < maxY && (i+u.MCMin) < 256; i++ {
		idx := i + u.MCMin
		cur := ' '
		if idx == int(mpc) {
			cur = '>'
		}
		br := ' '
		if u.Breakpoints[idx] {
			br = '*'
		}
		fmt.Fprintf(v, "%c%c%3d: %s\n", cur, br, idx, u.MC[idx])
	}
	return nil
}

func (u *TUI) UpdateMemoryView(g *gocui.Gui) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	v, err := g.View("memory")
	if err != nil {
		return err
	}
	v.Clear()
	_, maxY := v.Size()
	for i := 0; i < maxY && (i*8+u.MemMin) < 2048; i++ {
		base := u.MemMin + i*8
		if u.MemHex {
			fmt.Fprintf(v, "%#04x: ", base)
			for j := 0; j < 8 && base+j < 2048; j++ {
				fmt.Fprintf(v, "%#04x ", u.Machine.Memory.Read(uint16(base+j)))
			}
		} else {
			fmt.Fprintf(v, "%6d: ", base)
			for j := 0; j < 8 && base+j < 2048; j++ {
				fmt.Fprintf(v, "%6d ", u.Machine.Memory.Read(uint16(base+j)))
			}
		}
		fmt.Fprint(v, "\n")
	}
	return nil
}

func (u *TUI) Layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	maxX--
	maxY--
	col1x := (maxX - 4) * 5 / 12
	if col1x > 44 {
		col1x = 44
	}
	cell1y := (maxY - 4) * 7 / 8
	if cell1y > 22 {
		cell1y = 22
	}
	if v, err := g.SetView("registers", 0, 0, col1x, cell1y); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Frame = true
		v.Title = "registers"
	}
	if v, err := g.SetView("symbols", 0, cell1y+1, col1x, maxY); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Frame = true
		v.Highlight = true
		v.Title = "symbols"
		v.SetCursor(0, 0)
		DefocusView(g, v)
		u.VCycle = append(u.VCycle, v)
	}
	if v, err := g.SetView("microcode", col1x+1, 0, maxX, (maxY-4)/2); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Frame = true
		v.Highlight = true
		v.Title = "microcode"
		v.SetCursor(0, 0)
		FocusView(g, v)
		u.VCycle = append(u.VCycle, v)
	}
	if v, err := g.SetView("memory", col1x+1, (maxY-4)/2+1, maxX, maxY); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Frame = true
		v.Highlight = true
		v.Title = "memory"
		v.SetCursor(0, 0)
		DefocusView(g, v)
		u.VCycle = append(u.VCycle, v)
	}
	u.UpdateViews(g)
	return nil
}

func quit(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}

func (u *TUI) Step(g *gocui.Gui, v *gocui.View) error {
	u.mu.Lock()
	u.Machine.Tick()
	u.cycleCount++
	u.mu.Unlock()
	return nil
}

func (u *TUI) StartRun(g *gocui.Gui, v *gocui.View) error {
	u.mu.Lock()
	if u.running {
		u.mu.Unlock()
		return nil
	}
	u.running = true
	u.stop = make(chan struct{})
	stop := u.stop
	u.mu.Unlock()

	go u.runLoop(stop)
	return nil
}

// runLoop ticks the machine until it halts, a breakpointed microentry is
// reached, or Halt is requested. It periodically asks gocui to repaint
// so the running state is visible without flooding the event loop.
func (u *TUI) runLoop(stop chan struct{}) {
	defer func() {
		u.mu.Lock()
		u.running = false
		u.mu.Unlock()
		u.Gui.Update(u.UpdateViews)
	}()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		default:
		}

		u.mu.Lock()
		if u.Machine.Halted() || u.Breakpoints[u.Machine.MicroPC] {
			u.mu.Unlock()
			return
		}
		u.Machine.Tick()
		u.cycleCount++
		u.mu.Unlock()

		select {
		case <-ticker.C:
			u.Gui.Update(u.UpdateViews)
		default:
		}
	}
}

func (u *TUI) Halt(g *gocui.Gui, v *gocui.View) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.running && u.stop != nil {
		close(u.stop)
		u.stop = nil
	}
	return nil
}

func (u *TUI) ResetMachine(g *gocui.Gui, v *gocui.View) error {
	if err := u.Halt(g, v); err != nil {
		return err
	}
	u.mu.Lock()
	u.Machine.Reset()
	u.cycleCount = 0
	u.mu.Unlock()
	u.Gui.Update(u.UpdateViews)
	return nil
}

func (u *TUI) CycleView(g *gocui.Gui, v *gocui.View) error {
	DefocusView(g, u.VCycle[u.CView])
	u.CView = (u.CView + 1) % len(u.VCycle)
	FocusView(g, u.VCycle[u.CView])
	return nil
}

func (u *TUI) ReverseCycleView(g *gocui.Gui, v *gocui.View) error {
	DefocusView(g, u.VCycle[u.CView])
	u.CView--
	if u.CView < 0 {
		u.CView = len(u.VCycle) - 1
	}
	FocusView(g, u.VCycle[u.CView])
	return nil
}

func (u *TUI) SymScrollDown(g *gocui.Gui, v *gocui.View) error {
	_, y := v.Size()
	u.SymPos++
	if u.SymPos >= len(u.Symbols) {
		u.SymPos = len(u.Symbols) - 1
	}
	if u.SymPos >= u.SymMin+y {
		u.SymMin++
	}
	v.SetCursor(0, u.SymPos-u.SymMin)
	u.Gui.Update(u.UpdateSymbolsView)
	return nil
}

func (u *TUI) SymScrollUp(g *gocui.Gui, v *gocui.View) error {
	u.SymPos--
	if u.SymPos < 0 {
		u.SymPos = 0
	}
	if u.SymPos < u.SymMin {
		u.SymMin = u.SymPos
	}
	v.SetCursor(0, u.SymPos-u.SymMin)
	u.Gui.Update(u.UpdateSymbolsView)
	return nil
}

func (u *TUI) MemScrollDown(g *gocui.Gui, v *gocui.View) error {
	_, y := v.Size()
	u.MemAddr += 8
	if u.MemAddr >= 2048 {
		u.MemAddr = 2040
	}
	if (u.MemAddr / 8) >= (u.MemMin/8)+y {
		u.MemMin += 8
	}
	v.SetCursor(0, (u.MemAddr-u.MemMin)/8)
	u.Gui.Update(u.UpdateMemoryView)
	return nil
}

func (u *TUI) MemScrollUp(g *gocui.Gui, v *gocui.View) error {
	u.MemAddr -= 8
	if u.MemAddr < 0 {
		u.MemAddr = 0
	}
	if u.MemAddr < u.MemMin {
		u.MemMin = u.MemAddr
	}
	v.SetCursor(0, (u.MemAddr-u.MemMin)/8)
	u.Gui.Update(u.UpdateMemoryView)
	return nil
}

func (u *TUI) MicrocodeScrollDown(g *gocui.Gui, v *gocui.View) error {
	_, y := v.Size()
	u.MCPos++
	if u.MCPos > 255 {
		u.MCPos = 255
	}
	if u.MCPos >= u.MCMin+y {
		u.MCMin++
	}
	v.SetCursor(0, u.MCPos-u.MCMin)
	u.Gui.Update(u.UpdateMicrocodeView)
	return nil
}

func (u *TUI) MicrocodeScrollUp(g *gocui.Gui, v *gocui.View) error {
	u.MCPos--
	if u.MCPos < 0 {
		u.MCPos = 0
	}
	if u.MCPos < u.MCMin {
		u.MCMin = u.MCPos
	}
	v.SetCursor(0, u.MCPos-u.MCMin)
	u.Gui.Update(u.UpdateMicrocodeView)
	return nil
}

func (u *TUI) SymGoto(g *gocui.Gui, v *gocui.View) error {
	v2, err := g.View("memory")
	if err != nil {
		return err
	}
	_, symi := v.Cursor()
	symi += u.SymMin
	if symi < 0 || symi >= len(u.Symbols) {
		return nil
	}
	addr := u.Symbols[symi].Val
	u.MemAddr = int(addr - (addr % 8))
	u.MemMin = u.MemAddr
	v2.SetCursor(0, 0)
	return nil
}

func (u *TUI) MemModeToggle(g *gocui.Gui, v *gocui.View) error {
	u.MemHex = !u.MemHex
	return nil
}

func (u *TUI) SymModeToggle(g *gocui.Gui, v *gocui.View) error {
	u.SymHex = !u.SymHex
	return nil
}

func (u *TUI) MicrocodeToggleBreakPoint(g *gocui.Gui, v *gocui.View) error {
	_, mci := v.Cursor()
	mci += u.MCMin
	if mci >= 0 && mci < 256 {
		u.Breakpoints[mci] = !u.Breakpoints[mci]
	}
	return nil
}

func FocusView(g *gocui.Gui, v *gocui.View) {
	v.SelBgColor = gocui.ColorDefault
	v.SelFgColor = gocui.ColorGreen
	g.SetCurrentView(v.Name())
}

func DefocusView(g *gocui.Gui, v *gocui.View) {
	v.SelBgColor = gocui.ColorDefault
	v.SelFgColor = gocui.ColorRed
	g.SetCurrentView("")
}
