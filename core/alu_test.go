package core

import "testing"

func TestAluSoraIsBitwiseAnd(t *testing.T) {
	a, b := uint16(0xF0F0), uint16(0xFF00)
	out := aluCompute(a, b, Microword{SORA: true}, false)
	if out.Result != a&b {
		t.Errorf("SORA result = %#x, want %#x", out.Result, a&b)
	}
}

func TestAluTwosComplementSubtraction(t *testing.T) {
	cases := [][2]uint16{
		{0x0005, 0x0003},
		{0x0003, 0x0005},
		{0x0000, 0x0000},
		{0xFFFF, 0x0001},
		{0x1234, 0x1234},
	}
	for _, c := range cases {
		a, b := c[0], c[1]
		out := aluCompute(a, b, Microword{COMR: true, PLS1: true}, false)
		want := uint16(uint32(a) - uint32(b))
		if out.Result != want {
			t.Errorf("%#x - %#x = %#x, want %#x", a, b, out.Result, want)
		}
		wantC15 := a >= b
		if out.C15 != wantC15 {
			t.Errorf("%#x - %#x c15 = %v, want %v (a>=b)", a, b, out.C15, wantC15)
		}
	}
}

func TestAluPscPassthrough(t *testing.T) {
	out := aluCompute(0, 0, Microword{}, true)
	if !out.PSC {
		t.Errorf("aluCompute did not pass ps_c through")
	}
}
