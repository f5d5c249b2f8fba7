package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/krykon00/krk-budget-app/internal/config"
	apierrors "github.com/krykon00/krk-budget-app/internal/errors"
	"github.com/krykon00/krk-budget-app/internal/services"
	"github.com/krykon00/krk-budget-app/internal/shared/testutil"
)

// testConfig holds a workbook and one current-expenses file. The districts
// and income-expense directories are left out.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	f := excelize.NewFile()
	for i, name := range services.OverviewSheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName(f.GetSheetName(0), name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		require.NoError(t, f.SetSheetRow(name, "A1", &[]interface{}{"Nazwa", 2021, 2022}))
		require.NoError(t, f.SetSheetRow(name, "A2", &[]interface{}{name + " ogółem", 100, 150}))
		require.NoError(t, f.SetSheetRow(name, "A3", &[]interface{}{"Pozostałe", -10, 20}))
	}
	require.NoError(t, f.SaveAs(filepath.Join(dir, "data.xlsx")))
	require.NoError(t, f.Close())

	testutil.WriteCSV(t, filepath.Join(dir, "ce", "2022-01.csv"), [][]string{
		{"Jednostka", "Nazwa zadania", "Wydatki na zadania ogółem"},
		{"UM", "Drogi", "2000"},
		{"ZZM", "Zieleń", "300"},
	})

	cfg := config.Default()
	cfg.Server.Port = 0
	cfg.Security.RateLimit.Enabled = false
	cfg.Telemetry.Environment = "test"
	cfg.Data = config.DataConfig{
		Dir:             dir,
		Workbook:        "data.xlsx",
		CurrentExpenses: config.DatasetConfig{Dir: "ce", PeriodStart: 0, PeriodEnd: 7},
		Districts:       config.DatasetConfig{Dir: "dz", PeriodStart: 0, PeriodEnd: 10},
		IncomeExpense:   config.DatasetConfig{Dir: "dw", PeriodStart: 0, PeriodEnd: 4},
	}
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) *Application {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app, err := NewApplication(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = app.OTelProviders.Shutdown(context.Background())
	})
	return app
}

func TestNewApplication(t *testing.T) {
	app := newTestApp(t, testConfig(t))

	assert.NotNil(t, app.Router)
	assert.NotNil(t, app.Views)
	assert.NotNil(t, app.Health)
	assert.NotNil(t, app.ErrorHandler)
	assert.NotNil(t, app.Metrics)
	require.NotNil(t, app.Server)
	assert.Equal(t, ":0", app.Server.Addr)
	assert.Equal(t, app.Router, app.Server.Handler)
}

func TestRouter(t *testing.T) {
	app := newTestApp(t, testConfig(t))

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantBody   string
	}{
		{"health", http.MethodGet, "/api/health", http.StatusOK, `"status":"ok"`},
		{"readiness reports missing datasets", http.MethodGet, "/api/health/ready", http.StatusServiceUnavailable, "districts"},
		{"version", http.MethodGet, "/api/version", http.StatusOK, `"version"`},
		{"catalog", http.MethodGet, "/api/views", http.StatusOK, "current-expenses"},
		{"overview", http.MethodGet, "/api/views/overview", http.StatusOK, `"charts"`},
		{"current expenses", http.MethodGet, "/api/views/current-expenses?periods=2022-01", http.StatusOK, "UM"},
		{"trailing slash", http.MethodGet, "/api/views/overview/", http.StatusOK, `"charts"`},
		{"filters", http.MethodGet, "/api/views/current-expenses/filters", http.StatusOK, "ZZM"},
		{"csv export", http.MethodGet, "/api/views/overview/export.csv", http.StatusOK, "2022"},
		{"index page", http.MethodGet, "/", http.StatusOK, "<html"},
		{"view page", http.MethodGet, "/views/current-expenses", http.StatusOK, `id="chart-totals"`},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK, "go_goroutines"},
		{"unknown view", http.MethodGet, "/api/views/budget", http.StatusNotFound, apierrors.TypeViewNotFound},
		{"missing dataset dir", http.MethodGet, "/api/views/districts", http.StatusNotFound, apierrors.TypeDataNotFound},
		{"unknown route", http.MethodGet, "/api/nope", http.StatusNotFound, apierrors.TypeNotFound},
		{"wrong method", http.MethodDelete, "/api/views", http.StatusMethodNotAllowed, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			app.Router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestRouter_Middleware(t *testing.T) {
	app := newTestApp(t, testConfig(t))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:8080")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "http://localhost:8080", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_ProblemDetails(t *testing.T) {
	app := newTestApp(t, testConfig(t))

	req := httptest.NewRequest(http.MethodGet, "/api/views/overview?top=20", nil)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "application/problem+json"))

	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, apierrors.TypeValidation, problem["type"])
	assert.Equal(t, "/api/views/overview", problem["instance"])
}

func TestRouter_RateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.Security.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 1, Burst: 1}
	app := newTestApp(t, cfg)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, http.StatusOK, codes[0])
	assert.Contains(t, codes[1:], http.StatusTooManyRequests)
}

func TestStartStop(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.ShutdownTimeout = 5 * time.Second
	app := newTestApp(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, app.Start(ctx, cancel))
	require.NoError(t, app.Stop(context.Background()))

	// A stopped server refuses to serve again
	assert.ErrorIs(t, app.Server.ListenAndServe(), http.ErrServerClosed)
}
