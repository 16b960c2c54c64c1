package core

// Microword is the decoded form of one 40-bit entry of the MicroROM. The
// numeric bit positions come from the control bit assignment table; this
// struct is the "bitfield -> named booleans" decode the source expresses as
// packed bit positions.
type Microword struct {
	RDDR, RDCR, RDIP, RDSP bool
	RDAC, RDBR, RDPS       bool

	COMR, COML bool
	PLS1       bool
	SORA       bool

	LTOL, LTOH, HTOL, HTOH bool
	SEXT                   bool
	SHLT, SHL0             bool
	SHRT, SHRF             bool

	SETC, SETV, STNZ bool

	WRDR, WRCR, WRIP, WRSP bool
	WRAC, WRBR, WRPS, WRAR bool

	LOAD, STOR bool

	IO, INTS bool

	HALT bool
	TYPE bool // bit 39: 1 = branch microinstruction

	// Branch-only fields, meaningful only when TYPE is set.
	BranchMask   uint8 // M[23:16], one-hot bit-select mask over C[7:0]
	BranchWant   bool  // M[32], expected value of the tested bit
	BranchTarget uint8 // M[31:24]

	// Raw holds the 40-bit word this Microword was decoded from, so
	// debug tooling can print it without re-encoding.
	Raw uint64
}

func bit(word uint64, n uint) bool {
	return (word>>n)&1 != 0
}

func field(word uint64, lo, hi uint) uint64 {
	mask := uint64(1)<<(hi-lo+1) - 1
	return (word >> lo) & mask
}

// DecodeMicroword unpacks a 40-bit microinstruction into its named control
// bits, following the bit positions fixed by the control bit assignment
// table. Bits outside [0,39] are ignored.
func DecodeMicroword(word uint64) Microword {
	m := Microword{Raw: word & ((1 << 40) - 1)}

	m.RDDR = bit(word, 0)
	m.RDCR = bit(word, 1)
	m.RDIP = bit(word, 2)
	m.RDSP = bit(word, 3)
	m.RDAC = bit(word, 4)
	m.RDBR = bit(word, 5)
	m.RDPS = bit(word, 6)

	m.COMR = bit(word, 8)
	m.COML = bit(word, 9)
	m.PLS1 = bit(word, 10)
	m.SORA = bit(word, 11)

	m.LTOL = bit(word, 12)
	m.LTOH = bit(word, 13)
	m.HTOL = bit(word, 14)
	m.HTOH = bit(word, 15)

	m.SEXT = bit(word, 16)
	m.SHLT = bit(word, 17)
	m.SHL0 = bit(word, 18)
	m.SHRT = bit(word, 19)
	m.SHRF = bit(word, 20)

	m.SETC = bit(word, 21)
	m.SETV = bit(word, 22)
	m.STNZ = bit(word, 23)

	m.WRDR = bit(word, 24)
	m.WRCR = bit(word, 25)
	m.WRIP = bit(word, 26)
	m.WRSP = bit(word, 27)
	m.WRAC = bit(word, 28)
	m.WRBR = bit(word, 29)
	m.WRPS = bit(word, 30)
	m.WRAR = bit(word, 31)

	m.LOAD = bit(word, 32)
	m.STOR = bit(word, 33)

	m.IO = bit(word, 34)
	m.INTS = bit(word, 35)

	m.HALT = bit(word, 38)
	m.TYPE = bit(word, 39)

	m.BranchMask = uint8(field(word, 16, 23))
	m.BranchWant = bit(word, 32)
	m.BranchTarget = uint8(field(word, 24, 31))

	return m
}

func setBit(word *uint64, n uint, v bool) {
	if v {
		*word |= 1 << n
	}
}

func setField(word *uint64, lo uint, v uint64) {
	*word |= v << lo
}

// EncodeMicroword packs a Microword back into its 40-bit representation.
// It is the inverse of DecodeMicroword and is used to author the MicroROM
// as readable composite literals instead of raw hex.
func EncodeMicroword(m Microword) uint64 {
	var w uint64
	setBit(&w, 0, m.RDDR)
	setBit(&w, 1, m.RDCR)
	setBit(&w, 2, m.RDIP)
	setBit(&w, 3, m.RDSP)
	setBit(&w, 4, m.RDAC)
	setBit(&w, 5, m.RDBR)
	setBit(&w, 6, m.RDPS)

	setBit(&w, 8, m.COMR)
	setBit(&w, 9, m.COML)
	setBit(&w, 10, m.PLS1)
	setBit(&w, 11, m.SORA)

	setBit(&w, 12, m.LTOL)
	setBit(&w, 13, m.LTOH)
	setBit(&w, 14, m.HTOL)
	setBit(&w, 15, m.HTOH)

	if m.TYPE {
		setField(&w, 16, uint64(m.BranchMask))
		setBit(&w, 32, m.BranchWant)
		setField(&w, 24, uint64(m.BranchTarget))
	} else {
		setBit(&w, 16, m.SEXT)
		setBit(&w, 17, m.SHLT)
		setBit(&w, 18, m.SHL0)
		setBit(&w, 19, m.SHRT)
		setBit(&w, 20, m.SHRF)

		setBit(&w, 21, m.SETC)
		setBit(&w, 22, m.SETV)
		setBit(&w, 23, m.STNZ)

		setBit(&w, 24, m.WRDR)
		setBit(&w, 25, m.WRCR)
		setBit(&w, 26, m.WRIP)
		setBit(&w, 27, m.WRSP)
		setBit(&w, 28, m.WRAC)
		setBit(&w, 29, m.WRBR)
		setBit(&w, 30, m.WRPS)
		setBit(&w, 31, m.WRAR)

		setBit(&w, 32, m.LOAD)
		setBit(&w, 33, m.STOR)
	}

	setBit(&w, 34, m.IO)
	setBit(&w, 35, m.INTS)

	setBit(&w, 38, m.HALT)
	setBit(&w, 39, m.TYPE)

	return w & ((1 << 40) - 1)
}
