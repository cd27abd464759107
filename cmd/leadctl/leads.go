package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xavierca1/lead-console/internal/entity"
	"github.com/xavierca1/lead-console/internal/infra/export"
	"github.com/xavierca1/lead-console/internal/usecase"
)

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) printLeads(view usecase.ViewResult) {
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCOMPANY\tEMAIL\tSOURCE\tSCORE\tSTATUS\tCREATED")
	for _, l := range view.Leads {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			l.ID, l.Name, l.Company, l.Email, l.Source, l.Score, l.Status, usecase.FormatDate(l.CreatedAt))
	}
	tw.Flush()

	if view.FilteredCount == 0 {
		fmt.Fprintf(a.out, "No leads match (%d total)\n", view.TotalCount)
		return
	}
	fmt.Fprintf(a.out, "Showing %d-%d of %d (%d total), page %d/%d\n",
		view.PageStart, view.PageEnd, view.FilteredCount, view.TotalCount, view.Page, view.TotalPages)
}

func (a *app) printLead(l entity.Lead) error {
	if a.flags.json {
		return a.printJSON(l)
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\t%s\n", l.ID)
	fmt.Fprintf(tw, "Name\t%s\n", l.Name)
	fmt.Fprintf(tw, "Company\t%s\n", l.Company)
	fmt.Fprintf(tw, "Email\t%s\n", l.Email)
	fmt.Fprintf(tw, "Source\t%s\n", l.Source)
	fmt.Fprintf(tw, "Score\t%d\n", l.Score)
	fmt.Fprintf(tw, "Status\t%s\n", l.Status)
	fmt.Fprintf(tw, "Created\t%s\n", usecase.FormatDate(l.CreatedAt))
	return tw.Flush()
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the lead list with a JSON, CSV or XLSX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			info, err := f.Stat()
			if err != nil {
				return err
			}

			n, err := a.console.Leads.Import(cmd.Context(), usecase.ImportFile{
				Name:    filepath.Base(args[0]),
				Size:    info.Size(),
				Content: f,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Imported %d leads\n", n)
			return nil
		},
	}
}

type listFlags struct {
	search   string
	status   string
	sortBy   string
	order    string
	page     int
	pageSize int
	reset    bool
}

func newListCmd(a *app) *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the current page of leads",
		Long:  "Show the current page of leads. Filter flags are saved and apply to later invocations.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			leads := a.console.Leads
			fs := cmd.Flags()

			if flags.reset {
				leads.ClearFilters()
			}
			if fs.Changed("status") {
				if err := leads.SetStatusFilter(entity.StatusFilter(flags.status)); err != nil {
					return err
				}
			}
			if fs.Changed("sort") {
				if err := leads.SetSortBy(entity.SortKey(flags.sortBy)); err != nil {
					return err
				}
			}
			if fs.Changed("order") {
				if err := leads.SetSortOrder(entity.SortOrder(flags.order)); err != nil {
					return err
				}
			}
			if fs.Changed("page-size") {
				if err := leads.SetPageSize(flags.pageSize); err != nil {
					return err
				}
			}
			if fs.Changed("search") {
				leads.SetSearchTerm(flags.search)
				leads.FlushSearch()
			}
			if fs.Changed("page") {
				leads.SetPage(flags.page)
			}

			view := leads.View()
			if a.flags.json {
				return a.printJSON(view)
			}
			a.printLeads(view)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.search, "search", "", "Match name or company (case-insensitive)")
	f.StringVar(&flags.status, "status", "", "Status filter: all, new, contacted, qualified, unqualified")
	f.StringVar(&flags.sortBy, "sort", "", "Sort key: score, name, company, createdAt")
	f.StringVar(&flags.order, "order", "", "Sort order: asc or desc")
	f.IntVar(&flags.page, "page", 1, "Page number")
	f.IntVar(&flags.pageSize, "page-size", entity.DefaultPageSize, "Page size: 10, 20, 50 or 100")
	f.BoolVar(&flags.reset, "reset", false, "Restore the default filters first")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one lead",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lead, ok := a.console.Leads.Get(args[0])
			if !ok {
				return usecase.ErrLeadNotFound
			}
			return a.printLead(lead)
		},
	}
}

func newUpdateCmd(a *app) *cobra.Command {
	var patch entity.LeadPatch
	var status string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the email or status of a lead",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch.Status = entity.LeadStatus(status)
			lead, err := a.console.Leads.Update(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			return a.printLead(lead)
		},
	}

	cmd.Flags().StringVar(&patch.Email, "email", "", "New email address")
	cmd.Flags().StringVar(&status, "status", "", "New status: new, contacted, qualified, unqualified")
	return cmd
}

func newConvertCmd(a *app) *cobra.Command {
	var amount float64

	cmd := &cobra.Command{
		Use:   "convert <id>",
		Short: "Convert a lead into an opportunity and mark it qualified",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := usecase.ConvertLeadInput{LeadID: args[0]}
			if cmd.Flags().Changed("amount") {
				input.Amount = &amount
			}

			out, err := a.console.Convert.Execute(cmd.Context(), input)
			if err != nil {
				return err
			}
			if a.flags.json {
				return a.printJSON(out)
			}
			fmt.Fprintf(a.out, "Created %s %q (%s)\n", out.Opportunity.ID, out.Opportunity.Name, usecase.FormatCurrency(out.Opportunity.Amount))
			return nil
		},
	}

	cmd.Flags().Float64Var(&amount, "amount", 0, "Expected deal value")
	return cmd
}

func newClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every lead and reset the filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.console.Leads.Clear(cmd.Context())
			return nil
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every lead matching the saved filters as CSV or XLSX",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := a.out
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			leads := a.console.Leads.View().All
			switch format {
			case usecase.FormatCSV:
				return export.WriteCSV(w, leads)
			case usecase.FormatXLSX:
				if out == "" {
					return fmt.Errorf("--out is required for xlsx")
				}
				return export.WriteXLSX(w, leads)
			}
			return fmt.Errorf("unknown format %q (want csv or xlsx)", format)
		},
	}

	cmd.Flags().StringVar(&format, "format", usecase.FormatCSV, "csv or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	return cmd
}
