package main

import (
	"os"

	"github.com/campuscal/deptsched/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
