package core

import "testing"

func TestResetVector(t *testing.T) {
	m := NewMachine()
	if m.MicroPC != 1 {
		t.Errorf("MicroPC after reset = %d, want 1", m.MicroPC)
	}
	if m.PS != 0x080 {
		t.Errorf("PS after reset = %#x, want 0x080", m.PS)
	}
}

func TestOperationalMicroinstructionAdvancesByOne(t *testing.T) {
	next := nextMicroPC(10, Microword{TYPE: false}, commutatorOutput{})
	if next != 11 {
		t.Errorf("operational microPC advance = %d, want 11", next)
	}
}

func TestBranchWithZeroMaskAlwaysBranches(t *testing.T) {
	next := nextMicroPC(10, Microword{TYPE: true, BranchMask: 0, BranchWant: false, BranchTarget: 42}, commutatorOutput{Low: 0xFFFF})
	if next != 42 {
		t.Errorf("zero-mask branch always-take = %d, want 42", next)
	}
}

func TestLoadWinsOverStor(t *testing.T) {
	m := NewMachine()
	m.Memory.Write(0x10, 0xABCD)
	m.AR = 0x10
	m.DR = 0x1111
	flags := flagResults{}
	m.commitWrites(Microword{LOAD: true, STOR: true}, commutatorOutput{Low: 0x2222}, flags, m.AR, m.DR)
	if m.DR != 0xABCD {
		t.Errorf("DR after LOAD+STOR = %#x, want memory value 0xABCD", m.DR)
	}
	if m.Memory.Read(0x10) != 0xABCD {
		t.Errorf("memory at AR changed despite LOAD winning over STOR")
	}
}
