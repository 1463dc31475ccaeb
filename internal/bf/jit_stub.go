//go:build !amd64

package bf

import (
	"errors"
	"io"
)

// RunJIT is unavailable outside amd64: the spec fixes only the JIT
// contract's register roles, not a physical mapping for other
// architectures (spec §9 "Calling-convention portability" — "On
// 32-bit targets, disable JIT").
func RunJIT(code []Instr, tape []byte, input io.Reader, output io.Writer) error {
	return errors.New("bf: JIT backend is only available on amd64")
}
