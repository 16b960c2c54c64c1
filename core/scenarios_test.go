package core

import "testing"

func runUntilHalt(t *testing.T, m *Machine, limit int) {
	for i := 0; i < limit; i++ {
		if m.Halted() {
			return
		}
		m.Tick()
	}
	t.Fatalf("machine did not halt within %d ticks", limit)
}

func TestScenarioAddToAddress(t *testing.T) {
	m := NewMachine()
	m.Memory.Write(0x184, 0x2345)
	m.Memory.Write(0x185, 0xFD71)
	m.Memory.Write(0x186, 0x1630)
	m.Memory.Write(0x187, 0x0000)
	m.Memory.Write(0x188, 0xA184)
	m.SetIP(0x188)

	runUntilHalt(t, m, 100)

	if m.AC != 0x2345 {
		t.Errorf("AC = %#x, want 0x2345", m.AC)
	}
	if m.FlagN() || m.FlagZ() || m.FlagV() || m.FlagC() {
		t.Errorf("flags after ADD = N:%v Z:%v V:%v C:%v, want all clear", m.FlagN(), m.FlagZ(), m.FlagV(), m.FlagC())
	}
}

func TestScenarioCla(t *testing.T) {
	m := NewMachine()
	m.AC = 0xDEAD
	m.Memory.Write(0x010, 0x0800) // opcode 00001 (CLA), address bits unused
	m.SetIP(0x010)

	runUntilHalt(t, m, 100)

	if m.AC != 0 {
		t.Errorf("AC after CLA = %#x, want 0", m.AC)
	}
	if m.FlagN() {
		t.Errorf("N after CLA = true, want false")
	}
	if !m.FlagZ() {
		t.Errorf("Z after CLA = false, want true")
	}
	if m.FlagV() {
		t.Errorf("V after CLA = true, want false")
	}
}

func TestScenarioCallReturnBalancesStackPointer(t *testing.T) {
	m := NewMachine()
	m.SetSP(0x100)
	m.Memory.Write(0x010, 0xD020) // CALL 0x020
	m.Memory.Write(0x020, 0xD800) // RET
	m.SetIP(0x010)

	runUntilHalt(t, m, 100)

	if m.SP != 0x100 {
		t.Errorf("SP after balanced call/return = %#x, want 0x100", m.SP)
	}
	if m.Memory.Read(0x0FF) != 0x011 {
		t.Errorf("stored return address = %#x, want 0x011", m.Memory.Read(0x0FF))
	}
}

func TestScenarioBeqTakenOnEquality(t *testing.T) {
	m := NewMachine()
	m.setFlag(psBitZ, true)
	m.MicroPC = microBeqTest
	m.Tick()
	if m.MicroPC != microJmp1 {
		t.Errorf("BEQ on Z=1: microPC = %#x, want jmp entry %#x", m.MicroPC, microJmp1)
	}
}

func TestScenarioBeqFallsThroughOnInequality(t *testing.T) {
	m := NewMachine()
	m.setFlag(psBitZ, false)
	m.MicroPC = microBeqTest
	m.Tick()
	if m.MicroPC != microBeqFall {
		t.Errorf("BEQ on Z=0: microPC = %#x, want fallthrough %#x", m.MicroPC, microBeqFall)
	}
}

func TestScenarioRolSetsCarryAndZero(t *testing.T) {
	m := NewMachine()
	m.AC = 0x8000
	m.setFlag(psBitC, false)
	m.MicroPC = microRol1

	m.Tick()

	if m.AC != 0x0000 {
		t.Errorf("AC after ROL = %#x, want 0", m.AC)
	}
	if !m.FlagC() {
		t.Errorf("C after ROL = false, want true")
	}
	if !m.FlagZ() {
		t.Errorf("Z after ROL = false, want true")
	}
}

func TestScenarioPushPopRoundTrip(t *testing.T) {
	m := NewMachine()
	m.SetSP(0x200)
	m.AC = 0x1234
	initialAC := m.AC

	m.MicroPC = microPush1
	for i := 0; i < 4; i++ {
		m.Tick()
	}
	if m.SP != 0x1FF {
		t.Errorf("SP after PUSH = %#x, want 0x1FF", m.SP)
	}

	m.AC = 0x5678

	m.MicroPC = microPop1
	for i := 0; i < 4; i++ {
		m.Tick()
	}

	if m.AC != initialAC {
		t.Errorf("AC after POP = %#x, want restored %#x", m.AC, initialAC)
	}
	if m.SP != 0x200 {
		t.Errorf("SP after PUSH/POP round trip = %#x, want 0x200", m.SP)
	}
}
