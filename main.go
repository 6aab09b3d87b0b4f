package main

import (
	"os"

	"github.com/gitdigest/commit-digest/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
