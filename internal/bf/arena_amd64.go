//go:build amd64

package bf

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

const pageSize = 4096

// execArena is a page-aligned buffer of native code (spec §3
// "Executable region", §4.E). Lifecycle: allocate RW, pre-fill with
// `ret` (0xC3) so any fall-through past emitted code inside an
// over-allocated tail page terminates the callee rather than running
// garbage, fill with generated bytes, flip to RX, invoke, release.
//
// Ownership is exclusive: one arena per JIT session, never reused
// across sessions (spec §4.E "allocator never reuses freed regions").
type execArena struct {
	mem    []byte
	offset int
}

// newExecArena reserves ceil(codeSize/pageSize) pages of RW memory via
// an anonymous mmap, matching the mmap+mprotect pair the spec requires
// (spec §9 "Executable-memory freeing": use matched allocate/free
// primitives end-to-end — golang.org/x/sys/unix.Mmap/Munmap is that
// single matched pair).
func newExecArena(codeSize int) (*execArena, error) {
	numPages := (codeSize + pageSize - 1) / pageSize
	if numPages == 0 {
		numPages = 1
	}
	size := numPages * pageSize

	mem, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("jit: mmap executable arena: %w", err)
	}
	for i := range mem {
		mem[i] = 0xC3
	}
	return &execArena{mem: mem}, nil
}

// fill copies bytes into the region at the current write offset.
// Overflowing the arena's capacity is a programming error on the
// caller's part (spec §4.E) — codegen always sizes the arena first.
func (a *execArena) fill(code []byte) {
	copy(a.mem[a.offset:], code)
	a.offset += len(code)
}

// finalize flips the region from RW to RX. This happens exactly once
// per executable region, before invocation (spec §5).
func (a *execArena) finalize() error {
	if err := unix.Mprotect(a.mem, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		return fmt.Errorf("jit: mprotect executable arena: %w", err)
	}
	return nil
}

// release unmaps the entire page range. Called exactly once, when the
// owning JIT handle is dropped (spec §5).
func (a *execArena) release() error {
	return unix.Munmap(a.mem)
}

// entry returns the address of the first byte of the region, the
// native function's entry point.
func (a *execArena) entry() uintptr {
	return uintptr(unsafe.Pointer(&a.mem[0]))
}
