package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"jobboard-engine/internal/filter"
)

func newClassifyCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "classify term...",
		Short: "Tell whether each term is a language, a tool or unknown",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.loadStore(cmd.Context())
			if err != nil {
				return err
			}
			ix := filter.NewIndex(st)

			data := pterm.TableData{{"Term", "Category"}}
			for _, term := range args {
				data = append(data, []string{term, ix.Classify(term).String()})
			}
			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
}
