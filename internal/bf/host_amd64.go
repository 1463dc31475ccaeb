//go:build amd64

package bf

import (
	"io"
	"reflect"
	"unsafe"
)

// jitSession is the opaque handle the generated function receives in
// RDI/R12 (spec §4.F "rdi = opaque session handle"). It is never
// mutated by the generated code itself — only passed back unchanged to
// the host callbacks below, which read/write it through unsafe.Pointer.
type jitSession struct {
	input  io.Reader
	output io.Writer
}

// The three host callbacks below are invoked by JIT-generated machine
// code through an absolute CALL using the System V AMD64 convention
// (spec §4.F "Host callbacks"). Go has no way to mark an ordinary
// function `extern "C"` the way Rust or C can, so each callback is
// fronted by a hand-written assembly trampoline (trampoline_amd64.s)
// that reads the SysV argument registers directly and re-dispatches
// into the real Go implementation using Go's internal register ABI —
// the same `<ABIInternal>`-tagged cross-call the runtime itself uses
// at package boundaries (see runtime/asm_amd64.s). The trampoline symbol
// is what gets embedded as an absolute address in the generated code;
// it is never called from ordinary Go source.

//go:noescape
func getByteTrampolineAddr()

//go:noescape
func putByteTrampolineAddr()

//go:noescape
func overflowTrampolineAddr()

// getByteHost implements spec §4.F get_byte: read up to one byte from
// input; on success write it to *cellPtr; on a zero-length read leave
// the cell untouched; on failure box a RuntimeError and return its
// address.
func getByteHost(session uintptr, cellPtr uintptr) uintptr {
	sess := (*jitSession)(unsafe.Pointer(session))
	var buf [1]byte
	n, err := sess.input.Read(buf[:])
	if err != nil && err != io.EOF {
		return uintptr(unsafe.Pointer(ioRuntimeError(err)))
	}
	if n == 1 {
		*(*byte)(unsafe.Pointer(cellPtr)) = buf[0]
	}
	return 0
}

// putByteHost implements spec §4.F put_byte: write the single byte at
// *cellPtr to output.
func putByteHost(session uintptr, cellPtr uintptr) uintptr {
	sess := (*jitSession)(unsafe.Pointer(session))
	b := *(*byte)(unsafe.Pointer(cellPtr))
	if _, err := sess.output.Write([]byte{b}); err != nil {
		return uintptr(unsafe.Pointer(ioRuntimeError(err)))
	}
	return 0
}

// overflowHost implements spec §4.F overflow_error: always boxes and
// returns a PointerOverflow record, never null.
func overflowHost() uintptr {
	return uintptr(unsafe.Pointer(overflowRuntimeError()))
}

// funcAddr returns the entry address of a top-level function value —
// sufficient to identify the function's code, never called through
// directly (reflect.Value.Pointer's documented guarantee), which is
// exactly what embedding it as an absolute CALL target in generated
// machine code needs.
func funcAddr(fn interface{}) uint64 {
	return uint64(reflect.ValueOf(fn).Pointer())
}

func getByteAddr() uint64  { return funcAddr(getByteTrampolineAddr) }
func putByteAddr() uint64  { return funcAddr(putByteTrampolineAddr) }
func overflowAddr() uint64 { return funcAddr(overflowTrampolineAddr) }
