package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/krykon00/krk-budget-app/internal/charts"
	"github.com/krykon00/krk-budget-app/internal/config"
	"github.com/krykon00/krk-budget-app/internal/dataprocessing"
	"github.com/krykon00/krk-budget-app/internal/files"
	"github.com/krykon00/krk-budget-app/internal/infrastructure"
	"github.com/krykon00/krk-budget-app/pkg/contracts/domain"
)

// Currency is the y axis label of every chart
const Currency = "PLN"

// ChartPanel is one chart of a view
type ChartPanel struct {
	ID      string        `json:"id"`
	Heading string        `json:"heading"`
	Kind    charts.Kind   `json:"kind"`
	Option  charts.Option `json:"option"`
}

// NamedTable is one of the tables a view was drawn from
type NamedTable struct {
	Name  string            `json:"name"`
	Table *domain.WideTable `json:"table"`
}

// FilterOptions lists the values a view accepts for each filter. Lists a view
// does not support are left empty.
type FilterOptions struct {
	Periods    []domain.Period `json:"periods"`
	Units      []string        `json:"units,omitempty"`
	Categories []string        `json:"categories,omitempty"`
	Details    []string        `json:"details,omitempty"`
	Names      []string        `json:"names,omitempty"`
	Focus      []string        `json:"focus,omitempty"`
	Sortable   bool            `json:"sortable"`
	MaxTopN    int             `json:"max_top,omitempty"`
}

// View is a fully built dashboard page
type View struct {
	Name    string                 `json:"name"`
	Title   string                 `json:"title"`
	Periods []domain.Period        `json:"periods"`
	Applied domain.FilterSelection `json:"applied"`
	Filters FilterOptions          `json:"filters"`
	Charts  []ChartPanel           `json:"charts"`
	Tables  []NamedTable           `json:"tables"`
}

// PrimaryTable returns the table exported for the view
func (v *View) PrimaryTable() (NamedTable, bool) {
	if len(v.Tables) == 0 {
		return NamedTable{}, false
	}
	return v.Tables[0], true
}

func (v *View) addChart(id, heading string, opt charts.Option) {
	v.Charts = append(v.Charts, ChartPanel{ID: id, Heading: heading, Kind: opt.Kind, Option: opt})
}

func (v *View) addTable(name string, t *domain.WideTable) {
	v.Tables = append(v.Tables, NamedTable{Name: name, Table: t})
}

// ViewInfo describes a registered view
type ViewInfo struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type viewBuilder interface {
	info() ViewInfo
	build(ctx context.Context, filter domain.FilterSelection) (*View, error)
}

// ViewService builds dashboard views by name
type ViewService struct {
	builders map[string]viewBuilder
	order    []string
	metrics  *infrastructure.BusinessMetrics
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewViewService registers the four dashboard views over the configured data.
// metrics may be nil.
func NewViewService(cfg config.DataConfig, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *ViewService {
	logger = infrastructure.WithComponent(logger, "view_service")

	src := &dataSource{
		discovery: files.NewDiscovery(cfg.Dir),
		cfg:       cfg,
		metrics:   metrics,
		logger:    logger,
	}

	s := &ViewService{
		builders: make(map[string]viewBuilder),
		metrics:  metrics,
		tracer:   otel.Tracer(infrastructure.InstrumentationName),
		logger:   logger,
	}
	s.register(&overviewView{src: src})
	s.register(&currentExpensesView{src: src})
	s.register(&districtsView{src: src})
	s.register(&incomeExpenseView{src: src})
	return s
}

func (s *ViewService) register(b viewBuilder) {
	name := b.info().Name
	s.builders[name] = b
	s.order = append(s.order, name)
}

// Catalog lists the views in registration order
func (s *ViewService) Catalog() []ViewInfo {
	out := make([]ViewInfo, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.builders[name].info())
	}
	return out
}

// Has reports whether a view is registered
func (s *ViewService) Has(name string) bool {
	_, ok := s.builders[name]
	return ok
}

// Build reads the view's files and builds it for the given selection
func (s *ViewService) Build(ctx context.Context, name string, filter domain.FilterSelection) (*View, error) {
	b, ok := s.builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrViewNotFound, name)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "view.build", trace.WithAttributes(attribute.String("view", name)))
	defer span.End()

	start := time.Now()
	view, err := b.build(ctx, filter)
	duration := time.Since(start)
	s.metrics.RecordViewBuild(ctx, name, duration, err)

	if err != nil {
		infrastructure.RecordError(ctx, err)
		s.logger.ErrorContext(ctx, "view build failed",
			slog.String("view", name),
			slog.String("error", err.Error()),
			slog.Duration("duration", duration))
		return nil, fmt.Errorf("build view %s: %w", name, err)
	}

	s.logger.InfoContext(ctx, "view built",
		slog.String("view", name),
		slog.Int("periods", len(view.Periods)),
		slog.Int("charts", len(view.Charts)),
		slog.Duration("duration", duration))
	return view, nil
}

// Filters returns the filter values a view accepts
func (s *ViewService) Filters(ctx context.Context, name string) (*FilterOptions, error) {
	view, err := s.Build(ctx, name, domain.FilterSelection{})
	if err != nil {
		return nil, err
	}
	return &view.Filters, nil
}

// Table builds the view and returns its primary table
func (s *ViewService) Table(ctx context.Context, name string, filter domain.FilterSelection) (NamedTable, error) {
	view, err := s.Build(ctx, name, filter)
	if err != nil {
		return NamedTable{}, err
	}
	t, ok := view.PrimaryTable()
	if !ok {
		return NamedTable{}, fmt.Errorf("%w: view %s has no table", ErrNoPeriods, name)
	}
	return t, nil
}

// dataSource loads the files of every view and records load metrics
type dataSource struct {
	discovery *files.Discovery
	cfg       config.DataConfig
	metrics   *infrastructure.BusinessMetrics
	logger    *slog.Logger
}

// periodFiles lists a dataset's files; an empty dataset has no periods
func (d *dataSource) periodFiles(dataset string, ds config.DatasetConfig) ([]files.PeriodFile, error) {
	found, err := d.discovery.PeriodFiles(ds.Dir, ds.Mappings(), ds.Rule())
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("%w: dataset %s", ErrNoPeriods, dataset)
	}
	return found, nil
}

func (d *dataSource) loadCSV(ctx context.Context, dataset string, f files.PeriodFile, opts dataprocessing.LoadOptions) (*domain.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, err := dataprocessing.LoadCSV(f.Path, opts)
	rows := 0
	if t != nil {
		rows = t.Len()
	}
	d.metrics.RecordDatasetLoad(ctx, dataset, rows, err)
	if err != nil {
		return nil, err
	}
	d.logger.DebugContext(ctx, "dataset file loaded",
		slog.String("dataset", dataset),
		slog.String("period", string(f.Period)),
		slog.String("file", f.Name),
		slog.Int("rows", rows))
	return t, nil
}

func (d *dataSource) loadSheet(ctx context.Context, sheet string) (*domain.WideTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w, err := dataprocessing.LoadWideSheet(d.cfg.WorkbookPath(), sheet)
	rows := 0
	if w != nil {
		rows = w.Len()
	}
	d.metrics.RecordDatasetLoad(ctx, "workbook:"+sheet, rows, err)
	return w, err
}

// selectFiles keeps the files of the selected periods in the caller's order.
// No selection keeps every file in name order.
func selectFiles(all []files.PeriodFile, periods []domain.Period) []files.PeriodFile {
	if len(periods) == 0 {
		return all
	}
	var out []files.PeriodFile
	for _, p := range uniquePeriods(periods) {
		for _, f := range all {
			if f.Period == p {
				out = append(out, f)
			}
		}
	}
	return out
}

func uniquePeriods(periods []domain.Period) []domain.Period {
	out := make([]domain.Period, 0, len(periods))
	for _, p := range periods {
		if !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out
}

func labels(periods []domain.Period) []string {
	out := make([]string, len(periods))
	for i, p := range periods {
		out[i] = string(p)
	}
	return out
}

// pickColumns selects the period columns; unlike SelectPeriods an empty
// selection keeps no column
func pickColumns(w *domain.WideTable, periods []domain.Period) *domain.WideTable {
	if len(periods) == 0 {
		return dataprocessing.KeepColumns(w, func(string) bool { return false })
	}
	return dataprocessing.SelectPeriods(w, periods)
}

// relabel renames every value column of a single-period table to the period
func relabel(w *domain.WideTable, p domain.Period) *domain.WideTable {
	return dataprocessing.RelabelColumns(w, func(string) string { return string(p) })
}

// barTable prepares the newest-period bar: positive values only, sorted, top-N
func barTable(w *domain.WideTable, column string, filter domain.FilterSelection) (*domain.WideTable, error) {
	projected, err := dataprocessing.Project(w, column)
	if err != nil {
		return nil, err
	}
	positive, err := dataprocessing.DropNonPositive(projected, column)
	if err != nil {
		return nil, err
	}
	sorted, err := dataprocessing.SortByColumn(positive, column, filter.SortOrDefault())
	if err != nil {
		return nil, err
	}
	return dataprocessing.TopN(sorted, filter.TopN), nil
}

// pickFocus returns the requested focus, or the first option when none was asked for
func pickFocus(requested string, options []string) string {
	if requested != "" || len(options) == 0 {
		return requested
	}
	return options[0]
}

func union(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		for _, v := range l {
			if v != "" && !slices.Contains(out, v) {
				out = append(out, v)
			}
		}
	}
	slices.Sort(out)
	return out
}
