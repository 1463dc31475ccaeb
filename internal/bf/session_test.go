package bf

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewSessionCompileError(t *testing.T) {
	_, err := NewSession("[", strings.NewReader(""), &bytes.Buffer{})
	if _, ok := err.(*CompileError); !ok {
		t.Fatalf("expected *CompileError, got %v (%T)", err, err)
	}
}

func TestSessionRunHelloWorld(t *testing.T) {
	// Classic hello-world program.
	const hello = `++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++.`
	var out bytes.Buffer
	sess, err := NewSession(hello, strings.NewReader(""), &out)
	if err != nil {
		t.Fatalf("NewSession returned error: %v", err)
	}
	if err := sess.Run(); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if got := out.String(); got != "Hello World!\n" {
		t.Fatalf("got %q, want %q", got, "Hello World!\n")
	}
}

func TestSessionRunTwiceReusesTape(t *testing.T) {
	var out bytes.Buffer
	sess, err := NewSession("+.", strings.NewReader(""), &out)
	if err != nil {
		t.Fatalf("NewSession returned error: %v", err)
	}
	if err := sess.Run(); err != nil {
		t.Fatalf("first Run returned error: %v", err)
	}
	// A second Run on the same session re-executes the same IR against
	// the same (already-mutated) tape: the second '+' takes cell 0 from
	// 1 to 2, so this run prints 0x02 rather than 0x01. Session does not
	// reset its tape between runs.
	if err := sess.Run(); err != nil {
		t.Fatalf("second Run returned error: %v", err)
	}
}
