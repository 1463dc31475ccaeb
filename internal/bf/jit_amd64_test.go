//go:build amd64

package bf

import (
	"bytes"
	"strings"
	"testing"
)

// runBoth runs the same source on both back ends and returns their
// outputs; both back ends must agree byte-for-byte (spec §8 "the two
// back ends produce identical observable behavior for the same
// program and input").
func runBoth(t *testing.T, source, input string) (interp []byte, jit []byte) {
	t.Helper()
	code, err := Compile(source)
	if err != nil {
		t.Fatalf("Compile(%q) returned error: %v", source, err)
	}

	tape := make([]byte, TapeSize)
	var interpOut bytes.Buffer
	if err := Run(code, tape, strings.NewReader(input), &interpOut); err != nil {
		t.Fatalf("Run(%q) returned error: %v", source, err)
	}

	jitTape := make([]byte, TapeSize)
	var jitOut bytes.Buffer
	if err := RunJIT(code, jitTape, strings.NewReader(input), &jitOut); err != nil {
		t.Fatalf("RunJIT(%q) returned error: %v", source, err)
	}

	return interpOut.Bytes(), jitOut.Bytes()
}

func TestJITMatchesInterpreter(t *testing.T) {
	cases := []struct {
		name   string
		source string
		input  string
	}{
		{"addition", "+++.", ""},
		{"echo", ",.", "A"},
		{"pointer movement", "++>+++<.", ""},
		{"loop zeroes cell", "+++++[-].", ""},
		{"nested loop copy", "+++++[>+>+<<-]>>.", ""},
		{"value wraps at 256", strings.Repeat("+", 256) + ".", ""},
		{"hello world", "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++.", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			interpOut, jitOut := runBoth(t, tc.source, tc.input)
			if !bytes.Equal(interpOut, jitOut) {
				t.Errorf("interpreter and JIT disagree: interp=%v jit=%v", interpOut, jitOut)
			}
		})
	}
}

func TestJITPointerOverflowMatchesInterpreter(t *testing.T) {
	code, err := Compile(">")
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}

	interpTape := make([]byte, 1)
	interpErr := Run(code, interpTape, strings.NewReader(""), &bytes.Buffer{})
	interpRE, ok := interpErr.(*RuntimeError)
	if !ok {
		t.Fatalf("interpreter: expected *RuntimeError, got %v (%T)", interpErr, interpErr)
	}

	jitTape := make([]byte, 1)
	jitErr := RunJIT(code, jitTape, strings.NewReader(""), &bytes.Buffer{})
	jitRE, ok := jitErr.(*RuntimeError)
	if !ok {
		t.Fatalf("JIT: expected *RuntimeError, got %v (%T)", jitErr, jitErr)
	}

	if interpRE.Kind != jitRE.Kind {
		t.Errorf("interp Kind=%v, jit Kind=%v", interpRE.Kind, jitRE.Kind)
	}
}

func TestSessionRunJITHelloWorld(t *testing.T) {
	const hello = `++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++.`
	var out bytes.Buffer
	sess, err := NewSession(hello, strings.NewReader(""), &out)
	if err != nil {
		t.Fatalf("NewSession returned error: %v", err)
	}
	if err := sess.RunJIT(); err != nil {
		t.Fatalf("RunJIT returned error: %v", err)
	}
	if got := out.String(); got != "Hello World!\n" {
		t.Fatalf("got %q, want %q", got, "Hello World!\n")
	}
}
