// Command bf runs brainfuck-family tape-machine programs, either on a
// portable IR interpreter or on a x86-64 JIT back end.
package main

import (
	"flag"
	"fmt"
	"os"

	"bf/internal/bf"
)

func main() {
	jit := flag.Bool("jit", false, "run the JIT back end instead of the interpreter")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-jit] <file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	src, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v!\n", err)
		os.Exit(1)
	}

	sess, err := bf.NewSession(string(src), os.Stdin, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v!\n", err)
		os.Exit(1)
	}

	if *jit {
		err = sess.RunJIT()
	} else {
		err = sess.Run()
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v!\n", err)
		os.Exit(1)
	}
}
