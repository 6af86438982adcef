// Command phenomap maps clinical symptom descriptions to HPO terms.
package main

import (
	"os"

	"github.com/custodia-labs/phenomap-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
