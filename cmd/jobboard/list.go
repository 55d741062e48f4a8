package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"jobboard-engine/internal/domain"
	"jobboard-engine/internal/filter"
)

func newListCmd(c *cli) *cobra.Command {
	var filters []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the listing, narrowed by --filter terms",
		Example: `  jobboard list
  jobboard list --filter javascript --filter react`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.loadStore(cmd.Context())
			if err != nil {
				return err
			}

			e := filter.New(st)
			for _, f := range filters {
				term := strings.TrimSpace(f)
				if term == "" {
					continue
				}
				if !e.Add(term) && e.Classify(term) == filter.Unknown {
					fmt.Fprintln(cmd.ErrOrStderr(), pterm.Yellow(fmt.Sprintf("ignoring %q: no job lists it as a language or tool", term)))
				}
			}

			all := st.All()
			return printJobs(cmd.OutOrStdout(), e.Apply(all), len(all), e.SelectedTerms())
		},
	}
	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil, "language or tool to require (repeatable)")
	return cmd
}

func printJobs(w io.Writer, jobs []domain.Job, total int, selected []string) error {
	if len(jobs) > 0 {
		data := pterm.TableData{{"Company", "Position", "Level", "Contract", "Location", "Posted", "Tags"}}
		for _, j := range jobs {
			company := j.Company
			if j.New {
				company += " " + pterm.Cyan("NEW!")
			}
			if j.Featured {
				company += " " + pterm.Magenta("FEATURED")
			}
			data = append(data, []string{
				company,
				j.Position,
				j.Level,
				j.Contract,
				j.Location,
				j.PostedAt,
				strings.Join(j.Tags(), ", "),
			})
		}
		table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, table)
	}

	summary := fmt.Sprintf("Showing %s of %s jobs", humanize.Comma(int64(len(jobs))), humanize.Comma(int64(total)))
	if len(selected) > 0 {
		summary += " matching " + strings.Join(selected, ", ")
	}
	fmt.Fprintln(w, summary)
	return nil
}
