// Command sakana validates experiment records against empirical-evidence rules,
// keeps a validation history and archives it.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

var exitFunc = os.Exit

func main() {
	exitFunc(execute(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// errNonCompliant signals --fail-on-violation; its message is already printed.
var errNonCompliant = errors.New("non-compliant records")

func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	a.close()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errNonCompliant):
		return 1
	default:
		_, _ = fmt.Fprintf(stderr, "sakana: %v\n", err)
		return 1
	}
}
