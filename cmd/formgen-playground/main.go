package main

import (
	"context"
	"fmt"
	"os"

	"github.com/goliatone/go-formgen-playground/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "formgen-playground: %v\n", err)
		os.Exit(1)
	}
}
