//go:build amd64

package bf

// === x86-64 instruction encoding, mnemonic level ===
//
// A minimal hand-rolled encoder in the teacher's style (byte-slice
// emission with small per-mnemonic helpers) rather than pulling in an
// assembler library — the pack carries no third-party x86 encoder for
// Go (see DESIGN.md).

// Register constants (System V AMD64 numbering).
const (
	regRAX = 0
	regRCX = 1
	regRDX = 2
	regRBX = 3
	regRSP = 4
	regRBP = 5
	regRSI = 6
	regRDI = 7
	regR8  = 8
	regR9  = 9
	regR10 = 10
	regR11 = 11
	regR12 = 12
	regR13 = 13
	regR14 = 14
	regR15 = 15
)

// Condition codes for the two-byte Jcc form (0F 8x).
const (
	ccE  = 0x84 // zero / equal
	ccNE = 0x85 // not zero / not equal
	ccB  = 0x82 // below (unsigned) / carry
	ccAE = 0x83 // above or equal (unsigned) / not carry
)

type x64buf struct {
	code []byte
}

func (b *x64buf) emitByte(v byte) {
	b.code = append(b.code, v)
}

func (b *x64buf) emitBytes(vs ...byte) {
	b.code = append(b.code, vs...)
}

func (b *x64buf) emitU32(v uint32) {
	b.code = append(b.code, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func (b *x64buf) emitU64(v uint64) {
	b.code = append(b.code,
		byte(v), byte(v>>8), byte(v>>16), byte(v>>24),
		byte(v>>32), byte(v>>40), byte(v>>48), byte(v>>56))
}

func (b *x64buf) len() int {
	return len(b.code)
}

func rexForReg(reg int) byte {
	rex := byte(0x48)
	if reg >= 8 {
		rex |= 0x01
	}
	return rex
}

func rexRR(dst, src int) byte {
	rex := byte(0x48)
	if dst >= 8 {
		rex |= 0x04
	}
	if src >= 8 {
		rex |= 0x01
	}
	return rex
}

func modrmRR(dst, src int) byte {
	return byte(0xc0 | ((dst & 7) << 3) | (src & 7))
}

// movRR emits `mov dst, src`.
func (b *x64buf) movRR(dst, src int) {
	b.emitBytes(rexRR(src, dst), 0x89, modrmRR(src, dst))
}

// xorRR emits `xor dst, src`.
func (b *x64buf) xorRR(dst, src int) {
	b.emitBytes(rexRR(src, dst), 0x31, modrmRR(src, dst))
}

// cmpRR emits `cmp a, b`.
func (b *x64buf) cmpRR(a, bb int) {
	b.emitBytes(rexRR(bb, a), 0x39, modrmRR(bb, a))
}

// testRR emits `test a, b`.
func (b *x64buf) testRR(a, bb int) {
	b.emitBytes(rexRR(bb, a), 0x85, modrmRR(bb, a))
}

// pushR emits `push reg` (handles r8-r15 via REX.B).
func (b *x64buf) pushR(reg int) {
	if reg >= 8 {
		b.emitBytes(0x41, byte(0x50+(reg&7)))
	} else {
		b.emitByte(byte(0x50 + reg))
	}
}

// popR emits `pop reg` (handles r8-r15 via REX.B).
func (b *x64buf) popR(reg int) {
	if reg >= 8 {
		b.emitBytes(0x41, byte(0x58+(reg&7)))
	} else {
		b.emitByte(byte(0x58 + reg))
	}
}

// ret emits `ret`.
func (b *x64buf) ret() {
	b.emitByte(0xc3)
}

// movRegImm64 emits `movabs reg, imm64`.
func (b *x64buf) movRegImm64(reg int, val uint64) {
	rex := rexForReg(reg)
	b.emitByte(rex)
	b.emitByte(byte(0xb8 + (reg & 7)))
	b.emitU64(val)
}

// addRI32 emits `add reg, imm32`.
func (b *x64buf) addRI32(reg int, val int32) {
	rex := rexForReg(reg)
	if reg == regRAX {
		b.emitBytes(rex, 0x05)
	} else {
		b.emitBytes(rex, 0x81, byte(0xc0|(reg&7)))
	}
	b.emitU32(uint32(val))
}

// subRI32 emits `sub reg, imm32`.
func (b *x64buf) subRI32(reg int, val int32) {
	rex := rexForReg(reg)
	if reg == regRAX {
		b.emitBytes(rex, 0x2d)
	} else {
		b.emitBytes(rex, 0x81, byte(0xe8|(reg&7)))
	}
	b.emitU32(uint32(val))
}

// addMem8Imm8 emits `add byte ptr [reg], imm8`.
func (b *x64buf) addMem8Imm8(reg int, val uint8) {
	b.emitMemOpImm8(0x80, 0, reg, val)
}

// subMem8Imm8 emits `sub byte ptr [reg], imm8`.
func (b *x64buf) subMem8Imm8(reg int, val uint8) {
	b.emitMemOpImm8(0x80, 5, reg, val)
}

// emitMemOpImm8 emits `op byte ptr [reg], imm8` where /digit selects
// the ALU operation (0 = add, 5 = sub) for the 0x80 opcode group.
func (b *x64buf) emitMemOpImm8(opcode byte, digit byte, reg int, val uint8) {
	if reg >= 8 {
		b.emitByte(0x41) // REX.B
	}
	b.emitByte(opcode)
	modrm := (digit << 3) | byte(reg&7)
	if reg&7 == 4 { // RSP/R12 need a SIB byte
		b.emitBytes(modrm, 0x24)
	} else {
		b.emitByte(modrm)
	}
	b.emitByte(val)
}

// cmpMem8Imm8 emits `cmp byte ptr [reg], imm8`.
func (b *x64buf) cmpMem8Imm8(reg int, val uint8) {
	if reg >= 8 {
		b.emitByte(0x41)
	}
	b.emitByte(0x80)
	modrm := byte((7 << 3) | (reg & 7))
	if reg&7 == 4 {
		b.emitBytes(modrm, 0x24)
	} else {
		b.emitByte(modrm)
	}
	b.emitByte(val)
}

// callR emits `call reg`.
func (b *x64buf) callR(reg int) {
	if reg >= 8 {
		b.emitByte(0x41)
	}
	b.emitBytes(0xff, byte(0xd0|(reg&7)))
}

// jmpRel32 emits `jmp rel32` and returns the offset of the rel32 to
// patch once the target is known.
func (b *x64buf) jmpRel32() int {
	b.emitByte(0xe9)
	off := b.len()
	b.emitU32(0)
	return off
}

// jccRel32 emits a two-byte-opcode `jCC rel32` and returns the offset
// of the rel32 to patch.
func (b *x64buf) jccRel32(cc byte) int {
	b.emitBytes(0x0f, cc)
	off := b.len()
	b.emitU32(0)
	return off
}

// patchRel32 patches the rel32 placeholder at fixupOff to target the
// current end of the buffer.
func (b *x64buf) patchRel32(fixupOff int) {
	b.patchRel32To(fixupOff, b.len())
}

// patchRel32To patches the rel32 placeholder at fixupOff to target
// the given absolute buffer offset.
func (b *x64buf) patchRel32To(fixupOff, target int) {
	rel := int32(target - (fixupOff + 4))
	b.code[fixupOff] = byte(rel)
	b.code[fixupOff+1] = byte(rel >> 8)
	b.code[fixupOff+2] = byte(rel >> 16)
	b.code[fixupOff+3] = byte(rel >> 24)
}
