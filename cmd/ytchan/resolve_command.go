package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	youtube "github.com/rubpy/crawly-channel-youtube"
)

type resolveResult struct {
	Input     string           `json:"input"`
	Kind      string           `json:"kind"`
	Platform  string           `json:"platform"`
	Value     string           `json:"value"`
	Validated bool             `json:"validated"`
	Channel   *youtube.Channel `json:"channel,omitempty"`
	Error     string           `json:"error,omitempty"`
}

func newResolveResult(input string, ref youtube.Reference, err error) resolveResult {
	res := resolveResult{
		Input:     input,
		Kind:      ref.Kind().String(),
		Platform:  ref.Platform(),
		Value:     ref.Value(),
		Validated: ref.Validated(),
	}
	if ch, ok := ref.Channel(); ok {
		res.Channel = &ch
	}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var platform string
	var offline bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "resolve <input>...",
		Short: "Resolve channel references to canonical channel IDs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, _, closeResolver, err := ctx.newResolver(cmd.Context(), resolverOverrides{
				platform: platform,
				offline:  offline,
			})
			defer closeResolver()
			if err != nil {
				return err
			}

			var failed int
			results := make([]resolveResult, 0, len(args))
			for _, arg := range args {
				ref, err := r.Resolve(cmd.Context(), arg, "")
				if err != nil {
					failed++
				}
				results = append(results, newResolveResult(arg, ref, err))
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				if err := writeJSON(out, results); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(out, renderResults(results, true))
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d references could not be resolved", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&platform, "platform", "p", "", "Platform assumed for input that is not a URL")
	cmd.Flags().BoolVar(&offline, "offline", false, "Only answer from the cache")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print JSON instead of a table")
	return cmd
}

func renderResults(results []resolveResult, withChannel bool) string {
	headers := []string{"Input", "Kind", "Platform", "Value"}
	if withChannel {
		headers = append(headers, "Validated", "Title", "Error")
	}

	rows := make([][]string, 0, len(results))
	for _, res := range results {
		row := []string{res.Input, res.Kind, res.Platform, res.Value}
		if withChannel {
			var title string
			if res.Channel != nil {
				title = res.Channel.Title
			}
			row = append(row, yesNo(res.Validated), title, res.Error)
		}
		rows = append(rows, row)
	}

	return renderTable(headers, rows, nil)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
