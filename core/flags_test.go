package core

import "testing"

func TestComputeFlagsZ(t *testing.T) {
	f := computeFlags(commutatorOutput{Low: 0}, Microword{STNZ: true})
	if !f.Z {
		t.Errorf("Z should be set for zero result with STNZ")
	}
	f = computeFlags(commutatorOutput{Low: 1}, Microword{STNZ: true})
	if f.Z {
		t.Errorf("Z should be clear for nonzero result")
	}
	f = computeFlags(commutatorOutput{Low: 0}, Microword{})
	if f.Z {
		t.Errorf("Z should be clear when STNZ is not asserted")
	}
}

func TestComputeFlagsN(t *testing.T) {
	f := computeFlags(commutatorOutput{Low: 0x8000}, Microword{STNZ: true})
	if !f.N {
		t.Errorf("N should mirror bit 15 of the result")
	}
	f = computeFlags(commutatorOutput{Low: 0x8000}, Microword{})
	if f.N {
		t.Errorf("N should be clear when STNZ is not asserted")
	}
}

func TestComputeFlagsV(t *testing.T) {
	f := computeFlags(commutatorOutput{C16: true, C17: false}, Microword{SETV: true})
	if !f.V {
		t.Errorf("V should be set when C17 xor C16")
	}
	f = computeFlags(commutatorOutput{C16: true, C17: true}, Microword{SETV: true})
	if f.V {
		t.Errorf("V should be clear when C17 == C16")
	}
	f = computeFlags(commutatorOutput{C16: true, C17: false}, Microword{})
	if f.V {
		t.Errorf("V should be clear when SETV is not asserted")
	}
}

func TestComputeFlagsC(t *testing.T) {
	f := computeFlags(commutatorOutput{C16: true}, Microword{SETC: true})
	if !f.C {
		t.Errorf("C should mirror C16 when SETC is asserted")
	}
	f = computeFlags(commutatorOutput{C16: true}, Microword{})
	if f.C {
		t.Errorf("C should be clear when SETC is not asserted")
	}
}
