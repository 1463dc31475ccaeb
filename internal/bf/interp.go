package bf

import "io"

// TapeSize is the fixed size of the byte tape (spec §3 "Tape"): 4 MiB.
const TapeSize = 4 * 1024 * 1024

// Run interprets code against tape using input/output, starting with
// ptr=0 and pc=0 (spec §4.D). It terminates when pc reaches len(code)
// and returns the first runtime error encountered, or nil on success.
//
// The stronger bounds contract from spec §9 is implemented here: a
// move is rejected not only when ptr already sits at the boundary, but
// whenever ptr+n would reach len(tape) or ptr-n would go below 0,
// matching the JIT's carry + strict-bounds check so both back ends agree.
func Run(code []Instr, tape []byte, input io.Reader, output io.Writer) error {
	pairs := BuildPairIndex(code)

	ptr := 0
	pc := 0
	n := len(code)
	tapeLen := len(tape)
	var readBuf [1]byte

	for pc < n {
		instr := code[pc]
		switch instr.Op {
		case OpAddVal:
			tape[ptr] = byte(uint32(tape[ptr]) + instr.Arg)
			pc++
		case OpSubVal:
			tape[ptr] = byte(uint32(tape[ptr]) - instr.Arg)
			pc++
		case OpAddPtr:
			n := int(instr.Arg)
			if ptr == tapeLen || n >= tapeLen-ptr {
				return overflowRuntimeError()
			}
			ptr += n
			pc++
		case OpSubPtr:
			n := int(instr.Arg)
			if ptr == 0 || n > ptr {
				return overflowRuntimeError()
			}
			ptr -= n
			pc++
		case OpPutByte:
			if _, err := output.Write(tape[ptr : ptr+1]); err != nil {
				return ioRuntimeError(err)
			}
			pc++
		case OpGetByte:
			nread, err := input.Read(readBuf[:])
			if err != nil && err != io.EOF {
				return ioRuntimeError(err)
			}
			if nread == 1 {
				tape[ptr] = readBuf[0]
			}
			pc++
		case OpJz:
			if tape[ptr] == 0 {
				pc = pairs[pc] + 1
			} else {
				pc++
			}
		case OpJnz:
			if tape[ptr] != 0 {
				pc = pairs[pc] + 1
			} else {
				pc++
			}
		}
	}
	return nil
}
