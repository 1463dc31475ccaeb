package bf

import "io"

// Session owns the IR, tape, input stream and output stream for one
// execution (spec §3 "Execution session"). It mutably borrows
// input/output only for the duration of Run; neither back end is
// re-entrant and a session is meant to be used once (spec §5).
type Session struct {
	code   []Instr
	tape   []byte
	input  io.Reader
	output io.Writer
}

// NewSession compiles source and allocates a fresh zero-initialized
// tape (spec §3 "Tape"). It returns a *CompileError on the first
// structural failure.
func NewSession(source string, input io.Reader, output io.Writer) (*Session, error) {
	code, err := Compile(source)
	if err != nil {
		return nil, err
	}
	return &Session{
		code:   code,
		tape:   make([]byte, TapeSize),
		input:  input,
		output: output,
	}, nil
}

// Run executes the session on the portable interpreter back end.
func (s *Session) Run() error {
	return Run(s.code, s.tape, s.input, s.output)
}

// RunJIT executes the session on the x86-64 JIT back end.
func (s *Session) RunJIT() error {
	return RunJIT(s.code, s.tape, s.input, s.output)
}
