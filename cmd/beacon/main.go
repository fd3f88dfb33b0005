// Command beacon is the validation tooling for the recommendation
// pipeline: registry self-checks, template-leak scanning, and key
// resolution debugging. It ships to CI and developer machines, not to
// production.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "beacon",
	Short: "Validation tooling for the recommendation playbook registry",
	Long: `beacon validates the static data behind recommendation rendering.

The playbook registry, alias table, title dictionary, and targeting
table are versioned YAML. A bad edit there surfaces as template leaks or
mis-resolved keys in production output, so every check this tool runs is
meant for CI:

  beacon lint      run all registry self-checks and the template-leak scan
  beacon resolve   show how a loose key or legacy title resolves
  beacon keys      list the canonical key table`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
