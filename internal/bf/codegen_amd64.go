//go:build amd64

package bf

// loopFrame tracks one open '[' while emitting: bodyOffset is where the
// loop body starts (the Jnz's backward jump target), endFixup is the
// Jz's forward-jump placeholder that gets patched once Jnz is reached.
type loopFrame struct {
	bodyOffset int
	endFixup   int
}

// generateJIT translates code into x86-64 machine code implementing
// the calling contract of spec §4.F:
//
//	args:   RDI = session handle, RSI = tape_start, RDX = tape_end
//	return: RAX = 0 on success, or a *RuntimeError pointer on failure
//
// Register roles inside the generated body (spec §4.F):
//
//	R12 = session handle   R13 = tape_start   R14 = tape_end (exclusive)
//	RCX = live data pointer (cell address)   R15 = scratch across host calls
func generateJIT(code []Instr) []byte {
	var g x64buf
	var loops []loopFrame
	var overflowFixups []int
	var exitFixups []int

	// Prologue: preserve 16-byte stack alignment across the call
	// entry, move args into the callee-saved holders, seed the data
	// pointer from tape_start.
	g.pushR(regRAX)
	g.movRR(regR12, regRDI)
	g.movRR(regR13, regRSI)
	g.movRR(regR14, regRDX)
	g.movRR(regRCX, regRSI)

	for _, instr := range code {
		switch instr.Op {
		case OpAddVal:
			g.addMem8Imm8(regRCX, uint8(instr.Arg))
		case OpSubVal:
			g.subMem8Imm8(regRCX, uint8(instr.Arg))
		case OpAddPtr:
			g.addRI32(regRCX, int32(instr.Arg))
			overflowFixups = append(overflowFixups, g.jccRel32(ccB)) // jc
			g.cmpRR(regRCX, regR14)
			overflowFixups = append(overflowFixups, g.jccRel32(ccAE)) // jnb
		case OpSubPtr:
			g.subRI32(regRCX, int32(instr.Arg))
			overflowFixups = append(overflowFixups, g.jccRel32(ccB)) // jc
			g.cmpRR(regRCX, regR13)
			overflowFixups = append(overflowFixups, g.jccRel32(ccB)) // jb
		case OpPutByte:
			g.emitHostCall(putByteAddr(), &exitFixups)
		case OpGetByte:
			g.emitHostCall(getByteAddr(), &exitFixups)
		case OpJz:
			g.cmpMem8Imm8(regRCX, 0)
			endFixup := g.jccRel32(ccE)
			loops = append(loops, loopFrame{bodyOffset: g.len(), endFixup: endFixup})
		case OpJnz:
			frame := loops[len(loops)-1]
			loops = loops[:len(loops)-1]
			g.cmpMem8Imm8(regRCX, 0)
			backFixup := g.jccRel32(ccNE)
			g.patchRel32To(backFixup, frame.bodyOffset)
			g.patchRel32(frame.endFixup)
		}
	}

	// Normal completion.
	g.xorRR(regRAX, regRAX)
	mainExit := g.jmpRel32()

	// Overflow trampoline: materialize a PointerOverflow error and
	// fall through into the shared exit sequence.
	overflowLabel := g.len()
	for _, fix := range overflowFixups {
		g.patchRel32To(fix, overflowLabel)
	}
	g.movRegImm64(regRAX, overflowAddr())
	g.callR(regRAX)

	exitLabel := g.len()
	g.patchRel32To(mainExit, exitLabel)
	for _, fix := range exitFixups {
		g.patchRel32To(fix, exitLabel)
	}
	g.popR(regRDX)
	g.ret()

	return g.code
}

// emitHostCall emits the shared PutByte/GetByte call sequence: save
// RCX, load (session, cell) into (RDI, RSI), call the absolute host
// address in RAX, and propagate a non-null return to the exit
// trampoline; otherwise restore RCX.
func (g *x64buf) emitHostCall(addr uint64, exitFixups *[]int) {
	g.movRR(regR15, regRCX)
	g.movRR(regRDI, regR12)
	g.movRR(regRSI, regRCX)
	g.movRegImm64(regRAX, addr)
	g.callR(regRAX)
	g.testRR(regRAX, regRAX)
	*exitFixups = append(*exitFixups, g.jccRel32(ccNE))
	g.movRR(regRCX, regR15)
}
