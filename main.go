package main

import (
	"os"

	"github.com/renderstatic/renderstatic/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
