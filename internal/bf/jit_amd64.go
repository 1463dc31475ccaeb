//go:build amd64

package bf

import (
	"io"
	"runtime"
	"unsafe"
)

// jitcall is implemented in jitcall_amd64.s: it invokes the generated
// function at `entry` using the System V AMD64 convention and returns
// its RAX (0, or a *RuntimeError address).
func jitcall(entry, session, tapeStart, tapeEnd uintptr) uintptr

// RunJIT compiles code to native x86-64, executes it against tape
// through a single page-aligned executable region, and tears the
// region down before returning (spec §3 "Executable region", §4.F).
// A single handle is used exactly once, matching the contract in
// spec §9 ("Single-use JIT handle").
func RunJIT(code []Instr, tape []byte, input io.Reader, output io.Writer) error {
	machineCode := generateJIT(code)

	arena, err := newExecArena(len(machineCode))
	if err != nil {
		return err
	}
	defer arena.release()

	arena.fill(machineCode)
	if err := arena.finalize(); err != nil {
		return err
	}

	sess := &jitSession{input: input, output: output}
	tapeStart := uintptr(unsafe.Pointer(&tape[0]))
	tapeEnd := tapeStart + uintptr(len(tape))
	sessionHandle := uintptr(unsafe.Pointer(sess))

	errPtr := jitcall(arena.entry(), sessionHandle, tapeStart, tapeEnd)
	// sess and tape are referenced only through raw uintptrs across
	// the native call; keep them alive until jitcall returns.
	runtime.KeepAlive(sess)
	runtime.KeepAlive(tape)

	if errPtr == 0 {
		return nil
	}
	return (*RuntimeError)(unsafe.Pointer(errPtr))
}
