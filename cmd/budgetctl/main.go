// Command budgetctl builds dashboard views offline: it lists views, prints
// their chart options and exports their tables without starting the server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/krykon00/krk-budget-app/internal/config"
	"github.com/krykon00/krk-budget-app/internal/exporter"
	"github.com/krykon00/krk-budget-app/internal/infrastructure"
	"github.com/krykon00/krk-budget-app/internal/middleware"
	"github.com/krykon00/krk-budget-app/internal/services"
	"github.com/krykon00/krk-budget-app/internal/validation"
	"github.com/krykon00/krk-budget-app/pkg/contracts"
	"github.com/krykon00/krk-budget-app/pkg/contracts/domain"
)

func main() {
	_ = godotenv.Load(".env")

	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

// cli carries the state shared by every subcommand
type cli struct {
	configPath string
	dataDir    string
	logLevel   string

	out    io.Writer
	logger *slog.Logger
	cfg    *config.Config
}

// filterFlags mirrors the query parameters of the HTTP API
type filterFlags struct {
	periods    []string
	units      []string
	categories []string
	details    []string
	names      []string
	sort       string
	top        int
	focus      string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.periods, "periods", nil, "Periods to include, comma separated")
	cmd.Flags().StringArrayVar(&f.units, "unit", nil, "Budget unit to include (repeatable)")
	cmd.Flags().StringArrayVar(&f.categories, "category", nil, "Category to include (repeatable)")
	cmd.Flags().StringArrayVar(&f.details, "detail", nil, "Detail row to include (repeatable)")
	cmd.Flags().StringArrayVar(&f.names, "name", nil, "Named row to include (repeatable)")
	cmd.Flags().StringVar(&f.sort, "sort", "", "Bar order: asc or desc")
	cmd.Flags().IntVar(&f.top, "top", 0, "Keep only the N largest bars")
	cmd.Flags().StringVar(&f.focus, "focus", "", "Unit or type shown in the drill-down chart")
}

func (f *filterFlags) selection() domain.FilterSelection {
	return domain.FilterSelection{}.
		WithPeriods(domain.Periods(f.periods...)...).
		WithUnits(f.units...).
		WithCategories(f.categories...).
		WithDetails(f.details...).
		WithNames(f.names...).
		WithSort(domain.SortDirection(f.sort)).
		WithTopN(f.top).
		WithFocus(f.focus)
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	c := &cli{out: out}

	root := &cobra.Command{
		Use:           "budgetctl",
		Short:         "Build Kraków budget dashboard views from the command line",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(errOut)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&c.configPath, "config", os.Getenv(config.ConfigFileEnv), "YAML config file")
	root.PersistentFlags().StringVar(&c.dataDir, "data-dir", "", "Override the data directory")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "warn", "Log level written to stderr")

	root.AddCommand(c.viewsCmd(), c.showCmd(), c.exportCmd(), c.checkCmd(), &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(out, contracts.GetFullVersionString())
		},
	})
	return root
}

func (c *cli) setup(errOut io.Writer) error {
	cfg, err := config.LoadFile(c.configPath)
	if err != nil {
		return err
	}
	if c.dataDir != "" {
		cfg.Data.Dir = c.dataDir
	}
	c.cfg = cfg
	c.logger = infrastructure.NewLoggerWithWriter(errOut, c.logLevel)
	return nil
}

func (c *cli) service() *services.ViewService {
	return services.NewViewService(c.cfg.Data, nil, c.logger)
}

func (c *cli) build(ctx context.Context, name string, flags *filterFlags) (*services.View, error) {
	filter := flags.selection()
	if err := middleware.NewValidationMiddleware(c.logger).ValidateStruct(filter); err != nil {
		return nil, err
	}
	return c.service().Build(ctx, name, filter)
}

func (c *cli) viewsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "views",
		Short: "List the dashboard views",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, v := range c.service().Catalog() {
				fmt.Fprintf(c.out, "%-18s %s\n", v.Name, v.Title)
			}
			return nil
		},
	}
}

func (c *cli) showCmd() *cobra.Command {
	var (
		flags  filterFlags
		chart  string
		pretty bool
	)

	cmd := &cobra.Command{
		Use:   "show VIEW",
		Short: "Print a built view, or one chart option, as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := c.build(cmd.Context(), args[0], &flags)
			if err != nil {
				return err
			}

			var payload interface{} = view
			if chart != "" {
				found := false
				for _, p := range view.Charts {
					if p.ID == chart {
						payload, found = p.Option, true
						break
					}
				}
				if !found {
					return fmt.Errorf("view %s has no chart %q", view.Name, chart)
				}
			}

			enc := json.NewEncoder(c.out)
			if pretty {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(payload)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&chart, "chart", "", "Print only the option of this chart")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the JSON output")
	return cmd
}

func (c *cli) exportCmd() *cobra.Command {
	var (
		flags  filterFlags
		format string
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "export VIEW",
		Short: "Write the primary table of a view to a CSV or XLSX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "csv" && format != "xlsx" {
				return fmt.Errorf("unsupported format %q (must be csv or xlsx)", format)
			}
			if err := validation.NewFileValidator(c.logger).ValidateOutputDirectory(outDir); err != nil {
				return err
			}

			view, err := c.build(cmd.Context(), args[0], &flags)
			if err != nil {
				return err
			}
			table, ok := view.PrimaryTable()
			if !ok {
				return fmt.Errorf("view %s has no table", view.Name)
			}

			name := view.Name + "." + format
			if format == "csv" {
				err = exporter.NewCSVWriter(outDir, c.logger).WriteWide(name, table.Table)
			} else {
				err = writeXLSX(filepath.Join(outDir, name), table)
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(c.out, filepath.Join(outDir, name))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&format, "format", "csv", "Output format: csv or xlsx")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "Output directory")
	return cmd
}

func writeXLSX(path string, table services.NamedTable) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := exporter.WriteWideXLSX(f, table.Table, table.Name); err != nil {
		return err
	}
	return f.Close()
}

func (c *cli) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report whether every data source can be loaded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status := services.NewHealthService(c.cfg.Data, c.logger).ReadinessCheck(cmd.Context())

			for _, name := range []string{"workbook", "current-expenses", "districts", "income-expense"} {
				s, ok := status.Services[name]
				if !ok {
					continue
				}
				fmt.Fprintf(c.out, "%-18s %-10s %s\n", name, s.Status, s.Message)
			}

			if status.Status != services.StatusReady {
				return fmt.Errorf("data is %s", status.Status)
			}
			return nil
		},
	}
}
