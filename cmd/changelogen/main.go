package main

import (
	"os"

	"github.com/ariel-frischer/changelogen/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
