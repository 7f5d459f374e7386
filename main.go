package main

import (
	"fmt"
	"os"

	"github.com/gitlumen/gitlumen/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
