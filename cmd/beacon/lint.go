package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/sitewell/beacon/internal/detect"
	"github.com/sitewell/beacon/internal/fill"
	"github.com/sitewell/beacon/internal/playbook"
	"github.com/sitewell/beacon/internal/types"
	"github.com/spf13/cobra"
)

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate the playbook registry and scan for template leaks",
	Long: `Run every registry self-check, then resolve all templates in every
state against an empty placeholder context and scan the output for
leaks: surviving {{...}} syntax, bracket-wrapped identifiers, and
literal "undefined"/"null" values.

The empty-context pass is the worst case: every placeholder must fall
through to the global fallback table or to clean removal. A violation
here means production output can leak template syntax.

Exit codes:
  0 - registry valid, no leaks
  1 - self-check failure or at least one leak`,
	Run: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")

		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()

		fmt.Printf("%s Loading registry\n", cyan("→"))
		registry, err := playbook.Load()
		if err != nil {
			fmt.Printf("  %s %v\n", red("✗"), err)
			os.Exit(1)
		}
		fmt.Printf("  %s %d entries, self-checks passed\n", green("✓"), len(registry.Entries()))

		fmt.Printf("%s Scanning templates for leaks\n", cyan("→"))
		emptyCtx := &fill.Context{}
		states := []types.DetectionState{
			types.StateNotFound, types.StatePartial, types.StateContentNoSchema,
			types.StateSchemaInvalid, types.StateWeak, types.StateBlocking,
		}

		var violations []string
		for _, entry := range registry.Entries() {
			for _, state := range states {
				fields := []string{
					fill.Resolve(entry.Finding, state, emptyCtx),
					fill.Resolve(entry.WhyItMatters, state, emptyCtx),
					fill.Resolve(entry.Recommendation, state, emptyCtx),
					fill.Resolve(entry.WhatToInclude, state, emptyCtx),
				}
				fields = append(fields, fill.ResolveList(entry.ActionItems, state, emptyCtx)...)
				for _, v := range fill.CheckAll(fields...) {
					violations = append(violations, fmt.Sprintf("%s [%s]: %s", entry.Key, state, v))
				}
			}
		}

		if len(violations) == 0 {
			fmt.Printf("  %s no leaks across %d entries\n", green("✓"), len(registry.Entries()))
		} else {
			for _, v := range violations {
				fmt.Printf("  %s %s\n", red("✗"), v)
			}
		}

		if verbose {
			fmt.Printf("%s Detector coverage\n", cyan("→"))
			covered := 0
			for _, key := range registry.Keys() {
				if detect.HasDetector(key) {
					covered++
				} else {
					fmt.Printf("  no detector: %s (renders always show it)\n", key)
				}
			}
			fmt.Printf("  %d/%d keys have detection functions\n", covered, len(registry.Keys()))
		}

		if len(violations) > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	lintCmd.Flags().BoolP("verbose", "v", false, "Show detector coverage details")
	rootCmd.AddCommand(lintCmd)
}
