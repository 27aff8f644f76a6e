package main

import (
	"os"

	"github.com/prabalesh/procdeck/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
