package main

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/kbukum/restkit/endpoint"
)

func newListCmd(flags *globalFlags) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the endpoints of the catalogue",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(flags)
			if err != nil {
				return err
			}
			entries := a.catalog.Entries()
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no endpoints declared")
				return nil
			}

			data := pterm.TableData{{"NAME", "METHOD", "PATH", "ARGUMENTS", "DESCRIPTION"}}
			for _, e := range entries {
				data = append(data, []string{
					e.Name,
					string(e.Spec.Method()),
					e.Spec.Path().String(),
					strings.Join(argumentNames(e.Spec), ", "),
					e.Description,
				})
			}

			if plain {
				pterm.DisableStyling()
				defer pterm.EnableStyling()
			}
			rendered, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return fmt.Errorf("render endpoints: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Disable colors and styling")
	return cmd
}

// argumentNames lists the call arguments of spec, required ones marked with '*'.
func argumentNames(spec *endpoint.Spec) []string {
	var names []string
	for _, n := range spec.PathArgs() {
		names = append(names, n+"*")
	}
	for _, q := range spec.Query() {
		if q.Required {
			names = append(names, q.Name+"*")
		} else {
			names = append(names, q.Name)
		}
	}
	for _, n := range spec.HeaderArgs() {
		names = append(names, n+"*")
	}
	if spec.BodyType() != endpoint.BodyNone {
		if spec.BodyRequired() {
			names = append(names, spec.BodyArg()+"*")
		} else {
			names = append(names, spec.BodyArg())
		}
	}
	return names
}
