package core

// Machine is the full core: datapath, microsequencer, register file, and
// memory. It is the pure-function sequencer described in the design
// notes — Tick replaces Registers/MainMemory with the result of a single
// rising-edge cycle computed from the pre-edge state.
type Machine struct {
	Registers
	Memory  MainMemory
	RawROM  [256]uint64
	rom     [256]Microword
	romInit bool

	// interruptPending is set by RequestInterrupt and consumed only at
	// an end-of-instruction boundary (see maybeTakeInterrupt).
	interruptPending bool

	// OnIO and OnINTS are invoked, but never change core state, when the
	// current microinstruction asserts the IO or INTS control bit. They
	// are the hook surface reserved for external collaborators.
	OnIO   func(word uint64)
	OnINTS func(word uint64)

	// OnTick, if set, is called after every committed tick with the
	// microinstruction that just ran and the resulting state. The trace
	// package uses this to build the canonical per-instruction trace.
	OnTick func(m *Machine, ins Microword)

	// OnInterrupt is invoked when a pending RequestInterrupt is honored
	// (see maybeTakeInterrupt). It never runs on its own; a handler is
	// expected to drive register/memory state itself via the exported
	// fields, the same way external I/O wiring would.
	OnInterrupt func(m *Machine)
}

// NewMachine builds a Machine with the default embedded MicroROM
// preloaded and all state at its reset vector.
func NewMachine() *Machine {
	m := &Machine{}
	m.LoadMicroROM(MicroROM)
	m.Reset()
	return m
}

// LoadMicroROM replaces the 256-entry control store. It accepts the
// defensive copy itself: InvalidMicroROM (wrong size) cannot occur with a
// fixed-size array argument, since MicroROM shape
// errors are construction-time only.
func (m *Machine) LoadMicroROM(rom [256]uint64) {
	m.RawROM = rom
	for i, w := range rom {
		m.rom[i] = DecodeMicroword(w)
	}
	m.romInit = true
}

// Reset implements C8: PS, microPC, registers, and main memory all go to
// their reset vector. The MicroROM is left as-is (it is preloaded once,
// at construction).
func (m *Machine) Reset() {
	m.Registers.reset()
	m.Memory.reset()
	m.interruptPending = false
}

// RequestInterrupt raises the pending interrupt line. It is honored only
// at the next end-of-instruction boundary and only if PS's
// interrupt-enable bit is set (see maybeTakeInterrupt).
func (m *Machine) RequestInterrupt() {
	m.interruptPending = true
}

// Current returns the microinstruction the sequencer is about to run.
func (m *Machine) Current() Microword {
	return m.rom[m.MicroPC]
}

// RomWord returns the decoded microinstruction at a given control-store
// address, for callers (the debug view, the trace dumper) that need to
// inspect the whole MicroROM rather than just the one about to execute.
func (m *Machine) RomWord(addr uint8) Microword {
	return m.rom[addr]
}

// Halted reports whether the current microinstruction has HALT asserted;
// this is the harness's loop-termination condition.
func (m *Machine) Halted() bool {
	return m.Current().HALT
}

// Tick performs one rising-edge cycle. It is the sequencer's central
// algorithm: decode the input muxes, evaluate the datapath, classify
// the microinstruction, commit writes, and compute the next microPC,
// all from the pre-edge state captured at entry.
func (m *Machine) Tick() {
	ins := m.Current()

	// Step A: decode input muxes from pre-edge register state.
	left := m.leftOperand(ins)
	right := m.rightOperand(ins)

	// Step B: evaluate the datapath. Branch microinstructions see the
	// raw ALU sum/and result; byte routing still applies.
	alu := aluCompute(left, right, ins, m.FlagC())
	commIns := ins
	if ins.TYPE {
		commIns.SEXT, commIns.SHLT, commIns.SHL0 = false, false, false
		commIns.SHRT, commIns.SHRF = false, false
	}
	comm := commutate(alu, commIns)
	flags := computeFlags(comm, ins)

	preAR, preDR := m.AR, m.DR

	// Step C/D: commit writes only for operational microinstructions.
	if !ins.TYPE {
		m.commitWrites(ins, comm, flags, preAR, preDR)
	}

	if ins.IO && m.OnIO != nil {
		m.OnIO(ins.Raw)
	}
	if ins.INTS && m.OnINTS != nil {
		m.OnINTS(ins.Raw)
	}

	// Step E: next microPC.
	m.MicroPC = nextMicroPC(m.MicroPC, ins, comm)

	if m.OnTick != nil {
		m.OnTick(m, ins)
	}

	m.maybeTakeInterrupt(ins)
}

func (m *Machine) leftOperand(ins Microword) uint16 {
	switch {
	case ins.RDAC:
		return m.AC
	case ins.RDBR:
		return m.BR
	case ins.RDPS:
		return m.PS
	default:
		return 0
	}
}

func (m *Machine) rightOperand(ins Microword) uint16 {
	switch {
	case ins.RDDR:
		return m.DR
	case ins.RDCR:
		return m.CR
	case ins.RDIP:
		return m.IP
	case ins.RDSP:
		return m.SP
	default:
		return 0
	}
}

// commitWrites implements step D: all writes observe only the pre-edge
// state captured by the caller (preAR, preDR, and the comm/flags values
// already computed from pre-edge operands).
func (m *Machine) commitWrites(ins Microword, comm commutatorOutput, flags flagResults, preAR, preDR uint16) {
	if ins.LOAD {
		m.DR = m.Memory.Read(preAR)
	} else if ins.WRDR {
		m.DR = comm.Low
	}
	if ins.WRCR {
		m.CR = comm.Low
	}
	if ins.WRIP {
		m.SetIP(comm.Low)
	}
	if ins.WRSP {
		m.SetSP(comm.Low)
	}
	if ins.WRAC {
		m.AC = comm.Low
	}
	if ins.WRBR {
		m.BR = comm.Low
	}
	if ins.WRPS {
		m.SetPS(comm.Low)
	}
	if ins.WRAR {
		m.SetAR(comm.Low)
	}

	if ins.STOR && !ins.LOAD {
		m.Memory.Write(preAR, preDR)
	}

	if ins.SETC {
		m.setFlag(psBitC, flags.C)
	}
	if ins.SETV {
		m.setFlag(psBitV, flags.V)
	}
	if ins.STNZ {
		m.setFlag(psBitN, flags.N)
		m.setFlag(psBitZ, flags.Z)
	}
}

// nextMicroPC implements step E.
func nextMicroPC(cur uint8, ins Microword, comm commutatorOutput) uint8 {
	if !ins.TYPE {
		return cur + 1
	}

	var tested bool
	for i := uint(0); i < 8; i++ {
		if ins.BranchMask&(1<<i) != 0 && comm.Low&(1<<i) != 0 {
			tested = true
		}
	}

	if ins.BranchWant == tested {
		target := ins.BranchTarget
		if target != 0 {
			return target
		}
	}
	return cur + 1
}

// maybeTakeInterrupt honors a pending interrupt line only when the
// machine has just landed back on INFETCH (microPC == 1, i.e. an
// end-of-instruction boundary) and PS's interrupt-enable bit is set.
// Taking the interrupt never mutates registers or memory on its own; it
// only invokes OnInterrupt, which is free to redirect IP, push a return
// address, or whatever the attached handler wants. This is an explicit
// supplement to the core's documented IO/INTS hook surface (PS bit 6
// would otherwise never do anything observable); it is not part of the
// combinational datapath proper.
func (m *Machine) maybeTakeInterrupt(ins Microword) {
	if !m.interruptPending || m.MicroPC != microInfetch || !m.InterruptsEnabled() {
		return
	}
	m.interruptPending = false
	if m.OnInterrupt != nil {
		m.OnInterrupt(m)
	}
}
