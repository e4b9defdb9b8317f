package main

import (
	"os"

	"github.com/Huulamnguyen/biztime/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
