package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hrntsm/dmkit/internal/domain"
	"github.com/hrntsm/dmkit/internal/infra/fsfile"
	"github.com/hrntsm/dmkit/internal/infra/logger"
	"github.com/hrntsm/dmkit/internal/infra/presenter"
	"github.com/hrntsm/dmkit/internal/infra/reportstore"
	"github.com/hrntsm/dmkit/internal/ports"
	"github.com/hrntsm/dmkit/internal/usecase"
	"github.com/hrntsm/dmkit/internal/usecase/query"
)

var errNoFileSelected = &domain.OpError{
	Op:   "cli.inspect",
	Kind: domain.KindNotFound,
	Err:  fmt.Errorf("no file selected: %w", domain.ErrNotFound),
}

func inspectCmd() *cobra.Command {
	var workspace string
	var format string
	var expr string
	var save bool
	var parallel int

	c := &cobra.Command{
		Use:   "inspect FILE...",
		Short: "Print the user strings stored on each object of .3dm documents",
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errNoFileSelected
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			pres, err := presenter.New(format)
			if err != nil {
				return err
			}

			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			stop := startLogging(cmd, ws.root)
			defer stop()
			log := logger.Component("cli.inspect")

			opts := []usecase.InspectOption{usecase.WithParallelism(parallel)}
			if save {
				opts = append(opts, usecase.WithReportStore(reportstore.NewJSONStore(ws.root, reportstore.WithIndex(true))))
			}
			uc := usecase.NewInspectFiles(usecase.NewImportMetadata(newGateway(ws.cfg)), opts...)

			reports, err := uc.Execute(cmd.Context(), fsfile.Sources(args))
			if err != nil {
				return err
			}

			for _, r := range reports {
				if r.Err != nil {
					log.Error("import.failed", "file", r.Name, "kind", domain.KindOf(r.Err), "err", r.Err)
				} else {
					log.Info("import.ok", "file", r.Name, "objects", len(r.Rows), "saved_id", r.SavedID)
				}
			}

			if err := printReports(cmd.OutOrStdout(), cmd.ErrOrStderr(), reports, pres, format, expr); err != nil {
				return err
			}

			if n := usecase.Failed(reports); n > 0 {
				return fmt.Errorf("%d of %d file(s) could not be inspected", n, len(reports))
			}
			return nil
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().StringVar(&format, "format", presenter.FormatPretty, "Output format: pretty|json|yaml")
	c.Flags().StringVarP(&expr, "query", "q", "", "JSONPath over the rows, e.g. $[*][?(@.key==\"material\")].value")
	c.Flags().BoolVar(&save, "save", false, "Save each report under .dmkit/reports/")
	c.Flags().IntVarP(&parallel, "parallel", "p", 4, "Maximum files imported at once")
	return c
}

// printReports writes reports in argument order. Failures go to errw so that
// json and yaml output stays parseable.
func printReports(w, errw io.Writer, reports []usecase.FileReport, pres ports.MetadataPresenter, format, expr string) error {
	multi := len(reports) > 1
	pretty := format == "" || strings.EqualFold(format, presenter.FormatPretty)

	for i, r := range reports {
		if r.Err != nil {
			fmt.Fprintf(errw, "%s: %v\n", r.Name, r.Err)
			continue
		}

		if multi {
			switch {
			case expr != "" || pretty:
				if i > 0 {
					fmt.Fprintln(w)
				}
				fmt.Fprintf(w, "== %s ==\n", r.Name)
			case strings.EqualFold(format, presenter.FormatYAML) || strings.EqualFold(format, "yml"):
				fmt.Fprintln(w, "---")
			}
		}

		if expr != "" {
			values, err := query.Values(r.Rows, expr)
			if err != nil {
				return err
			}
			for _, v := range values {
				fmt.Fprintln(w, v)
			}
			continue
		}

		if err := pres.Present(w, r.Rows); err != nil {
			return err
		}
		if r.SavedID != "" {
			fmt.Fprintf(errw, "%s: saved as %s\n", r.Name, r.SavedID)
		}
	}
	return nil
}
