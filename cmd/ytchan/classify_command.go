package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	youtube "github.com/rubpy/crawly-channel-youtube"
)

func newClassifyCommand() *cobra.Command {
	var platform string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:         "classify <input>...",
		Short:       "Classify channel references without contacting YouTube",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			fallback := strings.ToLower(strings.TrimSpace(platform))
			if fallback == "" {
				fallback = youtube.Platform
			}

			results := make([]resolveResult, 0, len(args))
			for _, arg := range args {
				results = append(results, newResolveResult(arg, youtube.Classify(arg, fallback), nil))
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return writeJSON(out, results)
			}

			fmt.Fprintln(out, renderResults(results, false))
			return nil
		},
	}

	cmd.Flags().StringVarP(&platform, "platform", "p", "", "Platform assumed for input that is not a URL (default youtube)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print JSON instead of a table")
	return cmd
}
