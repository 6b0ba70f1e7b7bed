package main

import (
	"fmt"
	"os"

	"transfit-backend/internal/cli"
)

// Set by -ldflags "-X main.version=..." at release time.
var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
