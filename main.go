package main

import (
	"os"

	"github.com/leafscan/leafscan/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
