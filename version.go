package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func NewVersionCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Report version information for chatwire",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch output {
			case "":
				fmt.Fprintf(cmd.OutOrStdout(), "chatwire %s (%s)\n", Version, License)
			case "short":
				fmt.Fprintln(cmd.OutOrStdout(), Version)
			case "json":
				out, err := json.MarshalIndent(map[string]string{
					"version": Version,
					"license": License,
				}, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
			default:
				return fmt.Errorf("unknown output format %q", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "One of '', 'short' or 'json'")
	return cmd
}
