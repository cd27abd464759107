package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xavierca1/lead-console/internal/entity"
	"github.com/xavierca1/lead-console/internal/testdata"
	"github.com/xavierca1/lead-console/internal/usecase"
)

func newOppsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "opps",
		Short: "Manage opportunities created from converted leads",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List opportunities in creation order",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				opps := a.console.Opportunities.List()
				if a.flags.json {
					return a.printJSON(opps)
				}
				tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tSTAGE\tAMOUNT\tACCOUNT\tLEAD\tCREATED")
				for _, o := range opps {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
						o.ID, o.Name, o.Stage, usecase.FormatCurrency(o.Amount), o.AccountName, o.LeadID, usecase.FormatDate(o.CreatedAt))
				}
				return tw.Flush()
			},
		},
		&cobra.Command{
			Use:   "summary",
			Short: "Count and total value of the pipeline",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				s := a.console.Opportunities.Summary()
				if a.flags.json {
					return a.printJSON(s)
				}
				fmt.Fprintf(a.out, "%d opportunities, %s total\n", s.Count, usecase.FormatCurrency(&s.TotalValue))
				for _, st := range entity.Stages {
					fmt.Fprintf(a.out, "  %-12s %d\n", st, s.ByStage[st])
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete one opportunity",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.console.Opportunities.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Deleted %s\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Delete every opportunity",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a.console.Opportunities.Clear(cmd.Context())
				return nil
			},
		},
	)
	return cmd
}

func newSampleCmd(a *app) *cobra.Command {
	var (
		count int
		seed  int64
		out   string
	)

	cmd := &cobra.Command{
		Use:         "sample",
		Short:       "Generate an importable JSON file of fake leads",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"offline": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 0 {
				return fmt.Errorf("--count must not be negative")
			}
			leads := testdata.GenerateLeads(testdata.DefaultLeadGeneratorConfig(count, seed))

			w := a.out
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return testdata.WriteSampleJSON(w, leads)
		},
	}

	cmd.Flags().IntVar(&count, "count", 25, "Number of leads")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Random seed")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	return cmd
}
