package main

import (
	"os"

	"github.com/badno/shopconv/cmd/shopconv/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
