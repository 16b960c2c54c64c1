package core

// flagResults holds the conditionally-computed N/Z/V/C flag values from
// C4. The sequencer commits each one to PS only when its gating control
// bit is set (see Machine.Tick, step D).
type flagResults struct {
	N, Z, V, C bool
}

func computeFlags(c commutatorOutput, m Microword) flagResults {
	return flagResults{
		N: m.STNZ && c.Low&0x8000 != 0,
		Z: m.STNZ && c.Low == 0,
		V: m.SETV && (c.C17 != c.C16),
		C: m.SETC && c.C16,
	}
}
