package core

import "testing"

func TestSummator16MatchesArithmeticSum(t *testing.T) {
	cases := []struct{ a, b uint16; cin bool }{
		{0, 0, false},
		{0xFFFF, 1, false},
		{0x7FFF, 1, false},
		{0x8000, 0x8000, false},
		{0x1234, 0x5678, true},
		{0xFFFF, 0xFFFF, true},
	}
	for _, c := range cases {
		sum, c14, c15 := summator16(c.a, c.b, c.cin)
		cinVal := uint32(0)
		if c.cin {
			cinVal = 1
		}
		full := uint64(c.a) + uint64(c.b) + uint64(cinVal)
		wantSum := uint16(full & 0xFFFF)
		wantC15 := (full>>16)&1 != 0
		wantC14 := ((uint64(c.a&0x7FFF) + uint64(c.b&0x7FFF) + uint64(cinVal)) >> 15 & 1) != 0

		if sum != wantSum {
			t.Errorf("summator16(%#x,%#x,%v) sum = %#x, want %#x", c.a, c.b, c.cin, sum, wantSum)
		}
		if c15 != wantC15 {
			t.Errorf("summator16(%#x,%#x,%v) c15 = %v, want %v", c.a, c.b, c.cin, c15, wantC15)
		}
		if c14 != wantC14 {
			t.Errorf("summator16(%#x,%#x,%v) c14 = %v, want %v", c.a, c.b, c.cin, c14, wantC14)
		}
	}
}
