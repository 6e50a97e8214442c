package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/restkit/version"
)

func newVersionCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.GetVersionInfo()
			out := cmd.OutOrStdout()
			if asJSON {
				data, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
				return nil
			}
			fmt.Fprintf(out, "restkit %s\n", version.GetShortVersion())
			if info.BuildTime != "" {
				fmt.Fprintf(out, "  built:  %s\n", info.BuildTime)
			}
			if info.GoVersion != "" {
				fmt.Fprintf(out, "  go:     %s\n", info.GoVersion)
			}
			fmt.Fprintf(out, "  agent:  %s\n", version.UserAgent())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}
