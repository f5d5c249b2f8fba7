package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/krykon00/krk-budget-app/internal/charts"
	"github.com/krykon00/krk-budget-app/internal/config"
	apierrors "github.com/krykon00/krk-budget-app/internal/errors"
	"github.com/krykon00/krk-budget-app/internal/services"
	"github.com/krykon00/krk-budget-app/internal/shared/testutil"
	"github.com/krykon00/krk-budget-app/pkg/contracts/domain"
)

type mockViewService struct {
	mock.Mock
}

func (m *mockViewService) Catalog() []services.ViewInfo {
	args := m.Called()
	return args.Get(0).([]services.ViewInfo)
}

func (m *mockViewService) Build(ctx context.Context, name string, filter domain.FilterSelection) (*services.View, error) {
	args := m.Called(ctx, name, filter)
	view, _ := args.Get(0).(*services.View)
	return view, args.Error(1)
}

func (m *mockViewService) Filters(ctx context.Context, name string) (*services.FilterOptions, error) {
	args := m.Called(ctx, name)
	opts, _ := args.Get(0).(*services.FilterOptions)
	return opts, args.Error(1)
}

func (m *mockViewService) Table(ctx context.Context, name string, filter domain.FilterSelection) (services.NamedTable, error) {
	args := m.Called(ctx, name, filter)
	table, _ := args.Get(0).(services.NamedTable)
	return table, args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testErrorHandler() *apierrors.ErrorHandler {
	h := apierrors.NewErrorHandler(testLogger(), false)
	h.Register(services.ErrViewNotFound, http.StatusNotFound, apierrors.TypeViewNotFound, "View Not Found")
	return h
}

func testTable() *domain.WideTable {
	return &domain.WideTable{
		KeyColumns: []string{"Jednostka"},
		Columns:    []string{"2021", "2022"},
		Rows: []domain.WideRow{
			{Keys: []string{"UM"}, Values: []float64{1500.5, 2000}},
		},
	}
}

func testView() *services.View {
	table := testTable()
	opt := charts.TrendLine([]string{"2021", "2022"}, []charts.TrendSeries{
		{Series: domain.Series{Name: "Wydatki", Data: []float64{1500.5, 2000}}, Palette: charts.ExpensePalette},
	}, "Suma", services.Currency, nil)
	return &services.View{
		Name:    "current-expenses",
		Title:   "Wydatki bieżące",
		Periods: domain.Periods("2021", "2022"),
		Filters: services.FilterOptions{Periods: domain.Periods("2021", "2022"), Units: []string{"UM"}, Sortable: true, MaxTopN: domain.MaxTopN},
		Charts:  []services.ChartPanel{{ID: "totals", Heading: "Suma", Kind: opt.Kind, Option: opt}},
		Tables:  []services.NamedTable{{Name: "Jednostki", Table: table}},
	}
}

func newDashboardRouter(svc ViewServiceInterface) chi.Router {
	r := chi.NewRouter()
	r.Mount("/api/views", NewDashboardHandler(svc, testLogger(), testErrorHandler()).Routes())
	return r
}

func decodeProblem(t *testing.T, body io.Reader) map[string]interface{} {
	t.Helper()
	var problem map[string]interface{}
	require.NoError(t, json.NewDecoder(body).Decode(&problem))
	return problem
}

func TestParseFilterSelection(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    domain.FilterSelection
		wantErr bool
	}{
		{
			name:  "empty",
			query: "",
			want:  domain.FilterSelection{},
		},
		{
			name:  "comma separated and repeated periods",
			query: "periods=2022,2021&periods=2020",
			want:  domain.FilterSelection{Periods: domain.Periods("2022", "2021", "2020")},
		},
		{
			name:  "lists keep commas inside values",
			query: "units=Zarz%C4%85d+Dr%C3%B3g%2C+Miasto&units=UM&categories=Bie%C5%BC%C4%85ce",
			want: domain.FilterSelection{
				Units:      []string{"Zarząd Dróg, Miasto", "UM"},
				Categories: []string{"Bieżące"},
			},
		},
		{
			name:  "sort top focus",
			query: "sort=DESC&top=5&focus=UM",
			want:  domain.FilterSelection{Sort: domain.SortDescending, TopN: 5, Focus: "UM"},
		},
		{
			name:    "top not a number",
			query:   "top=five",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			got, err := ParseFilterSelection(q)
			if tt.wantErr {
				var apiErr *apierrors.APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDashboardHandler_ListViews(t *testing.T) {
	svc := new(mockViewService)
	svc.On("Catalog").Return([]services.ViewInfo{{Name: "overview", Title: "Budżet"}})

	rec := httptest.NewRecorder()
	newDashboardRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/views", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Views    []services.ViewInfo `json:"views"`
		Currency string              `json:"currency"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "overview", body.Views[0].Name)
	assert.Equal(t, "PLN", body.Currency)
}

func TestDashboardHandler_GetView(t *testing.T) {
	svc := new(mockViewService)
	filter := domain.FilterSelection{}.WithPeriods("2021", "2022").WithUnits("UM").WithTopN(3)
	svc.On("Build", mock.Anything, "current-expenses", filter).Return(testView(), nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/views/current-expenses?periods=2021,2022&units=UM&top=3", nil)
	newDashboardRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "current-expenses", body["name"])

	panels := body["charts"].([]interface{})
	panel := panels[0].(map[string]interface{})
	assert.Equal(t, "trend_line", panel["kind"])
	option := panel["option"].(map[string]interface{})
	assert.Equal(t, "Suma", option["title"].(map[string]interface{})["text"])
	svc.AssertExpectations(t)
}

func TestDashboardHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		setup      func(svc *mockViewService)
		wantStatus int
		wantType   string
	}{
		{
			name:       "top out of range",
			path:       "/api/views/districts?top=20",
			wantStatus: http.StatusBadRequest,
			wantType:   apierrors.TypeValidation,
		},
		{
			name:       "bad sort",
			path:       "/api/views/districts?sort=up",
			wantStatus: http.StatusBadRequest,
			wantType:   apierrors.TypeValidation,
		},
		{
			name:       "period with path separator",
			path:       "/api/views/districts?periods=..%2Fetc",
			wantStatus: http.StatusBadRequest,
			wantType:   apierrors.TypeValidation,
		},
		{
			name: "unknown view",
			path: "/api/views/nope",
			setup: func(svc *mockViewService) {
				svc.On("Build", mock.Anything, "nope", domain.FilterSelection{}).
					Return(nil, services.ErrViewNotFound)
			},
			wantStatus: http.StatusNotFound,
			wantType:   apierrors.TypeViewNotFound,
		},
		{
			name: "unknown view filters",
			path: "/api/views/nope/filters",
			setup: func(svc *mockViewService) {
				svc.On("Filters", mock.Anything, "nope").Return(nil, services.ErrViewNotFound)
			},
			wantStatus: http.StatusNotFound,
			wantType:   apierrors.TypeViewNotFound,
		},
		{
			name:       "unsupported export format",
			path:       "/api/views/districts/export.pdf",
			wantStatus: http.StatusBadRequest,
			wantType:   apierrors.TypeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockViewService)
			if tt.setup != nil {
				tt.setup(svc)
			}

			rec := httptest.NewRecorder()
			newDashboardRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			problem := decodeProblem(t, rec.Body)
			assert.Equal(t, tt.wantType, problem["type"])
			assert.EqualValues(t, tt.wantStatus, problem["status"])
			svc.AssertExpectations(t)
		})
	}
}

func TestDashboardHandler_Filters(t *testing.T) {
	svc := new(mockViewService)
	opts := testView().Filters
	svc.On("Filters", mock.Anything, "current-expenses").Return(&opts, nil)

	rec := httptest.NewRecorder()
	newDashboardRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/views/current-expenses/filters", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got services.FilterOptions
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, opts, got)
}

func TestDashboardHandler_Export(t *testing.T) {
	tests := []struct {
		format      string
		contentType string
	}{
		{FormatCSV, "text/csv; charset=utf-8"},
		{FormatXLSX, contentTypeXLSX},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			svc := new(mockViewService)
			svc.On("Table", mock.Anything, "current-expenses", domain.FilterSelection{}).
				Return(services.NamedTable{Name: "Jednostki", Table: testTable()}, nil)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/views/current-expenses/export."+tt.format, nil)
			newDashboardRouter(svc).ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			assert.Equal(t, `attachment; filename="current-expenses.`+tt.format+`"`, rec.Header().Get("Content-Disposition"))
			assert.NotZero(t, rec.Body.Len())
			if tt.format == FormatCSV {
				assert.Contains(t, rec.Body.String(), "Jednostka")
			}
		})
	}
}

func TestHealthHandler(t *testing.T) {
	data := config.Default().Data
	data.Dir = t.TempDir()
	handler := NewHealthHandler(services.NewHealthService(data, testLogger()), testLogger())

	r := chi.NewRouter()
	r.Mount("/api/health", handler.Routes())
	r.Get("/api/version", handler.Version)

	tests := []struct {
		path       string
		wantStatus int
		wantKey    string
	}{
		{"/api/health", http.StatusOK, "status"},
		{"/api/health/live", http.StatusOK, "runtime"},
		{"/api/health/ready", http.StatusServiceUnavailable, "services"},
		{"/api/health/stats", http.StatusOK, "uptime_seconds"},
		{"/api/version", http.StatusOK, "version"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Contains(t, body, tt.wantKey)
		})
	}
}

func TestPageHandler(t *testing.T) {
	svc := new(mockViewService)
	svc.On("Catalog").Return([]services.ViewInfo{{Name: "current-expenses", Title: "Wydatki bieżące"}})
	svc.On("Build", mock.Anything, "current-expenses", domain.FilterSelection{}).Return(testView(), nil)
	svc.On("Build", mock.Anything, "nope", domain.FilterSelection{}).Return(nil, services.ErrViewNotFound)

	pages := NewPageHandler(svc, testLogger(), testErrorHandler())
	r := chi.NewRouter()
	r.Get("/", pages.Index)
	r.Get("/views/{view}", pages.View)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `href="/views/current-expenses"`)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/views/current-expenses", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	page := rec.Body.String()
	assert.Contains(t, page, `id="chart-totals"`)
	assert.Contains(t, page, EChartsURL)
	assert.Contains(t, page, "1.50 TYS")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/views/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClientLogHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantLevel  slog.Level
	}{
		{"chart error", `{"level":"error","message":"setOption failed","view":"districts","chart":"types"}`, http.StatusAccepted, slog.LevelError},
		{"unknown level is info", `{"level":"loud","message":"hello"}`, http.StatusAccepted, slog.LevelInfo},
		{"missing message", `{"level":"info"}`, http.StatusBadRequest, 0},
		{"not json", `level=info`, http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewTestLogger()
			handler := NewClientLogHandler(logger, testErrorHandler())

			req := httptest.NewRequest(http.MethodPost, "/api/client-log", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			handler.Handle(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusAccepted {
				assert.Empty(t, logs.Records())
				return
			}
			require.Len(t, logs.Records(), 1)
			entry := logs.Records()[0]
			assert.Equal(t, tt.wantLevel, entry.Level)
			assert.Equal(t, "client_log", entry.Attrs["handler"])
		})
	}
}

func TestMetricsHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	NewMetricsHandler(nil, testErrorHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	exporter := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "# HELP up\n")
	})
	rec = httptest.NewRecorder()
	NewMetricsHandler(exporter, testErrorHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "# HELP up")
}
