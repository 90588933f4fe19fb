package main

import (
	"os"

	"github.com/sat8bit/kaiwa/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
