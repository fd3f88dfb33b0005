package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/sitewell/beacon/internal/playbook"
	"github.com/spf13/cobra"
)

var (
	resolveTitle  bool
	resolvePillar string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <key-or-title>",
	Short: "Show how a key spelling or legacy title resolves",
	Long: `Resolve a raw subfactor key (or, with --title, a legacy recommendation
title) to its canonical pillar.subfactor key and report which strategy
matched. Useful when debugging why a scoring payload or stored row
maps to an unexpected playbook entry.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()

		registry, err := playbook.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		resolver := registry.Resolver()

		raw := args[0]
		var key, strategy string
		if resolveTitle {
			key, strategy = resolver.ResolveTitle(raw)
		} else {
			key, strategy = resolver.ResolveWithStrategy(raw, resolvePillar)
		}

		if key == "" {
			fmt.Printf("%s no canonical key for %q\n", red("✗"), raw)
			os.Exit(1)
		}

		fmt.Printf("%s %q\n", green("✓"), raw)
		fmt.Printf("  canonical: %s\n", key)
		fmt.Printf("  strategy:  %s\n", strategy)
		if entry := registry.Get(key); entry != nil {
			fmt.Printf("  priority:  %s  automation: %s  target: %s\n",
				entry.Priority, entry.Automation, registry.TargetLevel(key))
		} else {
			fmt.Printf("  (no playbook entry; key is canonical but renders a fallback)\n")
		}
	},
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveTitle, "title", false, "Treat the argument as a legacy recommendation title")
	resolveCmd.Flags().StringVar(&resolvePillar, "pillar", "", "Pillar hint for scoped fuzzy matching")
	rootCmd.AddCommand(resolveCmd)
}
