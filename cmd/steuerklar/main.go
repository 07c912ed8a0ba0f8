package main

import (
	"os"

	"github.com/steuerklar/steuerklar/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
