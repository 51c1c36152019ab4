package main

import (
	"os"

	"stratsweep/cmd/stratsweep/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
