// Command easybudget manages a personal budget and spending ledger from the
// command line. Each invocation loads the persisted document, applies one
// operation, saves, and prints the events the operation produced.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	a := &app{out: os.Stdout, errOut: os.Stderr}
	root := newRootCmd(a)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		a.cleanup()
		os.Exit(1)
	}
	a.cleanup()
}
