package main

import (
	"os"

	"wanderingrag/cmd/wanderingrag/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
