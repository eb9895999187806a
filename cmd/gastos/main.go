package main

import (
	"fmt"
	"os"

	"gastos/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersionInfo(version, commit, date)
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "gastos:", err)
		os.Exit(1)
	}
}
