package main

import (
	"os"

	"github.com/tsawler/pdfcomply/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
