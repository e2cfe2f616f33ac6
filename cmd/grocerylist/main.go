// Package main is the entry point for the grocerylist command.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/grocerylistapp/grocerylist/internal/cli"
)

func main() {
	if err := cli.Execute(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
