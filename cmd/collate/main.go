package main

import (
	"os"

	"github.com/rustyeddy/collate/cmd/collate/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
