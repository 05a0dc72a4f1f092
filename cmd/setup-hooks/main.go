package main

import (
	"os"

	"github.com/openark-net/githooks/pkg/hooks/interfaces/cli"
)

func main() {
	os.Exit(cli.Run())
}
