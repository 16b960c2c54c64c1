package core

// Named microaddresses for the preloaded control store. microHalt and
// microInfetch are fixed (entry 0 is HALT, entry 1 is INFETCH); the
// rest are this program's own layout, chosen to keep each instruction's
// microroutine contiguous and to leave entries 63-255 untouched except
// where noted below.
const (
	microHalt    uint8 = 0
	microInfetch uint8 = 1
	// 2, 3 continue the fetch sequence; CR holds the freshly fetched
	// opcode by the time decode starts at 4.
	microDecodeB15      uint8 = 4
	microDecodeLoB14    uint8 = 5
	microDecodeLoB11    uint8 = 6
	microGotoHalt       uint8 = 7
	microDecodeLoHiB11  uint8 = 8
	microGotoLoad       uint8 = 9
	microClaEntry       uint8 = 10
	microClaDone        uint8 = 11
	microLoad1          uint8 = 12
	microLoad2          uint8 = 13
	microLoad3          uint8 = 14
	microLoad4          uint8 = 15
	microStore1         uint8 = 16
	microStore2         uint8 = 17
	microStore3         uint8 = 18
	microStore4         uint8 = 19
	microDecodeHiB14    uint8 = 20
	microDecodeSubAddB13 uint8 = 21
	microGotoSub        uint8 = 22
	microSub1           uint8 = 23
	microSub2           uint8 = 24
	microSub3           uint8 = 25
	microSub4           uint8 = 26
	microAdd1           uint8 = 27
	microAdd2           uint8 = 28
	microAdd3           uint8 = 29
	microAdd4           uint8 = 30
	microDecode11B13    uint8 = 31
	microDecode10B12    uint8 = 32
	microDecode00B11    uint8 = 33
	microGotoBeqTest    uint8 = 34 // fallthrough filler; the real test lives at microBeqTest
	microJmp1           uint8 = 36
	microJmp2           uint8 = 37
	microDecodeCallRetB11 uint8 = 38
	microGotoCall       uint8 = 39
	microCall1          uint8 = 40
	microCall2          uint8 = 41
	microCall3          uint8 = 42
	microCall4          uint8 = 43
	microRet1           uint8 = 44
	microRet2           uint8 = 45
	microRet3           uint8 = 46
	microRet4           uint8 = 47
	microDecode11B12    uint8 = 48
	microDecodePushPopB11 uint8 = 49
	microGotoPush       uint8 = 50
	microPush1          uint8 = 51
	microPush2          uint8 = 52
	microPush3          uint8 = 53
	microPush4          uint8 = 54
	microPop1           uint8 = 55
	microPop2           uint8 = 56
	microPop3           uint8 = 57
	microPop4           uint8 = 58
	microDecodeRolB11   uint8 = 59
	microGotoRol        uint8 = 60

	// microBeqTest and microRol1 sit at two fixed microentries (0x5B
	// and 0x8C); every other address in this table is this program's
	// own layout.
	microBeqTest uint8 = 0x5B
	microBeqFall uint8 = 0x5C
	microRol1    uint8 = 0x8C
	microRol2    uint8 = 0x8D
)

// testCR builds a branch microinstruction that reads CR, routes its high
// byte into the commutator's low byte (HTOL), and tests one bit of it.
// bitIdx 7 is CR bit 15 (the opcode MSB) down to bitIdx 3 for CR bit 11
// (the opcode LSB); bitIdx 0-2 would test address bits and are unused by
// this decode tree.
func testCR(bitIdx uint8, want bool, target uint8) uint64 {
	return EncodeMicroword(Microword{
		RDCR: true, HTOL: true,
		TYPE: true, BranchMask: 1 << bitIdx, BranchWant: want, BranchTarget: target,
	})
}

func gotoMicro(target uint8) uint64 {
	return EncodeMicroword(Microword{TYPE: true, BranchMask: 0, BranchWant: false, BranchTarget: target})
}

// passRight builds the common "route a register through the ALU
// unchanged (sum with the other operand zero) and round-trip it through
// the commutator" shape used by nearly every register-to-register move
// in this microprogram; sel picks the register, on either mux side.
func passRight(sel func(*Microword), extra Microword) uint64 {
	m := extra
	sel(&m)
	m.LTOL, m.HTOH = true, true
	return EncodeMicroword(m)
}

// buildMicroROM authors the default ISA (HALT, CLA, LOAD/STORE, ADD/SUB,
// BEQ/JMP/CALL/RET, PUSH/POP, ROL) as named Microword literals, packed
// into the literal 256-entry table.
func buildMicroROM() [256]uint64 {
	var rom [256]uint64

	rom[microHalt] = 0x4000000000 // fixed HALT encoding

	// INFETCH: AR<-IP; IP<-IP+1 and DR<-MEM[AR] (LOAD); CR<-DR.
	rom[microInfetch] = passRight(func(m *Microword) { m.RDIP = true }, Microword{WRAR: true})
	rom[microInfetch+1] = passRight(func(m *Microword) { m.RDIP = true }, Microword{PLS1: true, WRIP: true, LOAD: true})
	rom[microInfetch+2] = passRight(func(m *Microword) { m.RDDR = true }, Microword{WRCR: true})

	// Decode tree over CR[15:11]: 00000 HALT, 00001 CLA, 01000 LOAD,
	// 01001 STORE, 10000 SUB, 10100 ADD, 11000 BEQ, 11001 JMP,
	// 11010 CALL, 11011 RET, 11100 PUSH, 11101 POP, 11110 ROL.
	rom[microDecodeB15] = testCR(7, true, microDecodeHiB14)
	rom[microDecodeLoB14] = testCR(6, true, microDecodeLoHiB11)
	rom[microDecodeLoB11] = testCR(3, true, microClaEntry)
	// A branch target of 0 means "fall through", so the HALT opcode lands
	// on its own copy of the HALT word instead of branching to entry 0.
	rom[microGotoHalt] = rom[microHalt]
	rom[microDecodeLoHiB11] = testCR(3, true, microStore1)
	rom[microGotoLoad] = gotoMicro(microLoad1)

	rom[microDecodeHiB14] = testCR(6, true, microDecode11B13)
	rom[microDecodeSubAddB13] = testCR(5, true, microAdd1)
	rom[microGotoSub] = gotoMicro(microSub1)

	rom[microDecode11B13] = testCR(5, true, microDecode11B12)
	rom[microDecode10B12] = testCR(4, true, microDecodeCallRetB11)
	rom[microDecode00B11] = testCR(3, true, microJmp1)
	rom[microGotoBeqTest] = gotoMicro(microBeqTest)
	rom[microDecodeCallRetB11] = testCR(3, true, microRet1)
	rom[microGotoCall] = gotoMicro(microCall1)

	rom[microDecode11B12] = testCR(4, true, microDecodeRolB11)
	rom[microDecodePushPopB11] = testCR(3, true, microPop1)
	rom[microGotoPush] = gotoMicro(microPush1)
	rom[microDecodeRolB11] = EncodeMicroword(Microword{
		RDCR: true, HTOL: true,
		TYPE: true, BranchMask: 1 << 3, BranchWant: true, BranchTarget: microGotoHalt,
	})
	rom[microGotoRol] = gotoMicro(microRol1)

	// BEQ: test PS bit 2 (Z), via RDPS+LTOL (PS's low byte unchanged).
	// This is the fixed BEQ test microentry (0x5B); the
	// fallthrough-not-taken filler sits right after it at 0x5C.
	rom[microBeqTest] = EncodeMicroword(Microword{
		RDPS: true, LTOL: true,
		TYPE: true, BranchMask: 1 << 2, BranchWant: true, BranchTarget: microJmp1,
	})
	rom[microBeqFall] = gotoMicro(microInfetch)

	// JMP: IP <- CR[10:0].
	rom[microJmp1] = passRight(func(m *Microword) { m.RDCR = true }, Microword{WRIP: true})
	rom[microJmp2] = gotoMicro(microInfetch)

	// CLA: AC <- 0.
	rom[microClaEntry] = EncodeMicroword(Microword{LTOL: true, HTOH: true, WRAC: true, SETV: true, STNZ: true})
	rom[microClaDone] = gotoMicro(microInfetch)

	// LOAD addr: AR<-CR[10:0]; DR<-MEM[AR] (LOAD); AC<-DR.
	rom[microLoad1] = passRight(func(m *Microword) { m.RDCR = true }, Microword{WRAR: true})
	rom[microLoad2] = EncodeMicroword(Microword{LOAD: true})
	rom[microLoad3] = passRight(func(m *Microword) { m.RDDR = true }, Microword{WRAC: true, STNZ: true})
	rom[microLoad4] = gotoMicro(microInfetch)

	// STORE addr: AR<-CR[10:0]; DR<-AC; MEM[AR]<-DR.
	rom[microStore1] = passRight(func(m *Microword) { m.RDCR = true }, Microword{WRAR: true})
	rom[microStore2] = passRight(func(m *Microword) { m.RDAC = true }, Microword{WRDR: true})
	rom[microStore3] = EncodeMicroword(Microword{STOR: true})
	rom[microStore4] = gotoMicro(microInfetch)

	// SUB addr: AR<-CR[10:0]; DR<-MEM[AR] (LOAD); AC<-AC-DR.
	rom[microSub1] = passRight(func(m *Microword) { m.RDCR = true }, Microword{WRAR: true})
	rom[microSub2] = EncodeMicroword(Microword{LOAD: true})
	rom[microSub3] = EncodeMicroword(Microword{RDAC: true, RDDR: true, COMR: true, PLS1: true, LTOL: true, HTOH: true, WRAC: true, SETC: true, SETV: true, STNZ: true})
	rom[microSub4] = gotoMicro(microInfetch)

	// ADD addr: AR<-CR[10:0]; DR<-MEM[AR] (LOAD); AC<-AC+DR.
	rom[microAdd1] = passRight(func(m *Microword) { m.RDCR = true }, Microword{WRAR: true})
	rom[microAdd2] = EncodeMicroword(Microword{LOAD: true})
	rom[microAdd3] = EncodeMicroword(Microword{RDAC: true, RDDR: true, LTOL: true, HTOH: true, WRAC: true, SETC: true, SETV: true, STNZ: true})
	rom[microAdd4] = gotoMicro(microInfetch)

	// CALL addr: SP<-SP-1, AR<-SP-1; DR<-IP; MEM[AR]<-DR (pre-edge)
	// while IP<-CR[10:0] commits in the same tick.
	rom[microCall1] = EncodeMicroword(Microword{COML: true, RDSP: true, LTOL: true, HTOH: true, WRSP: true, WRAR: true})
	rom[microCall2] = passRight(func(m *Microword) { m.RDIP = true }, Microword{WRDR: true})
	rom[microCall3] = passRight(func(m *Microword) { m.RDCR = true }, Microword{WRIP: true, STOR: true})
	rom[microCall4] = gotoMicro(microInfetch)

	// RET: AR<-SP; DR<-MEM[AR] (LOAD) and SP<-SP+1 together; IP<-DR.
	rom[microRet1] = passRight(func(m *Microword) { m.RDSP = true }, Microword{WRAR: true})
	rom[microRet2] = EncodeMicroword(Microword{RDSP: true, PLS1: true, LTOL: true, HTOH: true, WRSP: true, LOAD: true})
	rom[microRet3] = passRight(func(m *Microword) { m.RDDR = true }, Microword{WRIP: true})
	rom[microRet4] = gotoMicro(microInfetch)

	// PUSH: SP<-SP-1, AR<-SP-1; DR<-AC; MEM[AR]<-DR.
	rom[microPush1] = EncodeMicroword(Microword{COML: true, RDSP: true, LTOL: true, HTOH: true, WRSP: true, WRAR: true})
	rom[microPush2] = passRight(func(m *Microword) { m.RDAC = true }, Microword{WRDR: true})
	rom[microPush3] = EncodeMicroword(Microword{STOR: true})
	rom[microPush4] = gotoMicro(microInfetch)

	// POP: AR<-SP; DR<-MEM[AR] (LOAD) and SP<-SP+1 together; AC<-DR.
	rom[microPop1] = passRight(func(m *Microword) { m.RDSP = true }, Microword{WRAR: true})
	rom[microPop2] = EncodeMicroword(Microword{RDSP: true, PLS1: true, LTOL: true, HTOH: true, WRSP: true, LOAD: true})
	rom[microPop3] = passRight(func(m *Microword) { m.RDDR = true }, Microword{WRAC: true})
	rom[microPop4] = gotoMicro(microInfetch)

	// ROL: AC <- rotate-left-through-carry(AC); C <- old AC[15]. This is
	// the fixed ROL execute microentry (0x8C).
	rom[microRol1] = EncodeMicroword(Microword{RDAC: true, SHLT: true, SHL0: true, WRAC: true, SETC: true, STNZ: true})
	rom[microRol2] = gotoMicro(microInfetch)

	// Everything else (including the entire 224-255 range) is left
	// zero: a harmless operational no-op that just advances microPC.

	return rom
}

// MicroROM is the 256x40-bit preloaded control store.
var MicroROM = buildMicroROM()
