package main

import (
	"os"

	"github.com/telassist/telassist/cli"
)

func main() {
	if err := cli.RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
