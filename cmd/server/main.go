// Package main implements the entry point for the Slate task-list API server.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := newCLI().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
