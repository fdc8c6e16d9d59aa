package main

import (
	"os"

	"github.com/eslsoft/islamic-sources/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
