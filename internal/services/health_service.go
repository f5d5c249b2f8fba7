package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/krykon00/krk-budget-app/internal/config"
	"github.com/krykon00/krk-budget-app/internal/infrastructure"
	"github.com/krykon00/krk-budget-app/internal/validation"
	"github.com/krykon00/krk-budget-app/pkg/contracts"
)

// Readiness states
const (
	StatusReady    = "ready"
	StatusNotReady = "not_ready"
)

// HealthService provides health check functionality
type HealthService struct {
	data      config.DataConfig
	validator *validation.FileValidator
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual data source health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Files   int    `json:"files,omitempty"`
}

// SystemStats represents system statistics
type SystemStats struct {
	UptimeSeconds  float64 `json:"uptime_seconds"`
	TotalFiles     int     `json:"total_files"`
	TotalSizeBytes int64   `json:"total_size_bytes"`
	GoVersion      string  `json:"go_version"`
	OS             string  `json:"os"`
	Arch           string  `json:"arch"`
}

// NewHealthService creates a health service over the configured data sources
func NewHealthService(data config.DataConfig, logger *slog.Logger) *HealthService {
	logger = infrastructure.WithComponent(logger, "health_service")
	return &HealthService{
		data:      data,
		validator: validation.NewFileValidator(logger),
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "health check",
		slog.String("uptime", time.Since(hs.startTime).String()))

	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   contracts.Version,
	}
}

// ReadinessCheck checks every data source in parallel. The service is ready
// when the workbook holds its sheets and every dataset directory exists.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	type check struct {
		name string
		run  func() ServiceHealth
	}
	checks := []check{
		{"workbook", hs.checkWorkbook},
		{"current-expenses", hs.checkDataset(hs.data.CurrentExpenses)},
		{"districts", hs.checkDataset(hs.data.Districts)},
		{"income-expense", hs.checkDataset(hs.data.IncomeExpense)},
	}

	results := make([]ServiceHealth, len(checks))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range checks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = ServiceHealth{Status: StatusNotReady, Message: err.Error()}
				return nil
			}
			results[i] = c.run()
			return nil
		})
	}
	_ = g.Wait()

	status := HealthStatus{
		Status:    StatusReady,
		Timestamp: time.Now(),
		Version:   contracts.Version,
		Services:  make(map[string]ServiceHealth, len(checks)),
	}
	for i, c := range checks {
		status.Services[c.name] = results[i]
		if results[i].Status != StatusReady {
			status.Status = StatusNotReady
		}
	}

	if status.Status != StatusReady {
		hs.logger.WarnContext(ctx, "service not ready")
	}
	return status
}

func (hs *HealthService) checkWorkbook() ServiceHealth {
	if err := hs.validator.ValidateWorkbook(hs.data.WorkbookPath(), OverviewSheets...); err != nil {
		return ServiceHealth{Status: StatusNotReady, Message: err.Error()}
	}
	return ServiceHealth{Status: StatusReady, Files: 1}
}

func (hs *HealthService) checkDataset(ds config.DatasetConfig) func() ServiceHealth {
	return func() ServiceHealth {
		dir := hs.data.Path(ds.Dir)
		count, err := hs.validator.ValidateInputDirectory(dir, "*.csv")
		if err != nil {
			return ServiceHealth{Status: StatusNotReady, Message: err.Error()}
		}
		if count == 0 && len(ds.Files) == 0 {
			return ServiceHealth{Status: StatusNotReady, Message: fmt.Sprintf("no CSV files in %s", dir)}
		}
		return ServiceHealth{Status: StatusReady, Files: count}
	}
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   contracts.Version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() contracts.VersionInfo {
	return contracts.GetVersionInfo()
}

// SystemStats counts the files under the data directory
func (hs *HealthService) SystemStats(ctx context.Context) SystemStats {
	var totalFiles int
	var totalSize int64

	filepath.Walk(hs.data.Dir, func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			totalFiles++
			totalSize += info.Size()
		}
		return nil
	})

	return SystemStats{
		UptimeSeconds:  time.Since(hs.startTime).Seconds(),
		TotalFiles:     totalFiles,
		TotalSizeBytes: totalSize,
		GoVersion:      runtime.Version(),
		OS:             runtime.GOOS,
		Arch:           runtime.GOARCH,
	}
}
