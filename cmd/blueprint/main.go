// Command blueprint is the career dashboard CLI.
package main

import (
	"os"

	"github.com/mesh-intelligence/blueprint/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
