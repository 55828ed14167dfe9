package main

import (
	"os"

	"github.com/cwarden/weekcal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
