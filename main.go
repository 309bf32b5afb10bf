package main

import (
	"os"

	"github.com/psyprep/psyprep/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
