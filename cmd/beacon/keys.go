package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/sitewell/beacon/internal/detect"
	"github.com/sitewell/beacon/internal/playbook"
	"github.com/spf13/cobra"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List canonical subfactor keys",
	Long: `Print the canonical key table: every pillar.subfactor key the playbook
knows, with priority, automation level, target level, and whether a
detection function exists for it.`,
	Run: func(cmd *cobra.Command, args []string) {
		bold := color.New(color.Bold).SprintFunc()

		registry, err := playbook.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("%-45s %-8s %-10s %-6s %s\n",
			bold("KEY"), bold("PRI"), bold("AUTO"), bold("TARGET"), bold("DETECT"))
		for _, key := range registry.Keys() {
			entry := registry.Get(key)
			detected := "-"
			if detect.HasDetector(key) {
				detected = "yes"
			}
			fmt.Printf("%-45s %-8s %-10s %-6s %s\n",
				key, entry.Priority, entry.Automation, registry.TargetLevel(key), detected)
		}
		fmt.Printf("\n%d canonical keys\n", len(registry.Keys()))
	},
}

func init() {
	rootCmd.AddCommand(keysCmd)
}
