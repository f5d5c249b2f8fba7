package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "github.com/krykon00/krk-budget-app/internal/errors"
	"github.com/krykon00/krk-budget-app/internal/exporter"
	"github.com/krykon00/krk-budget-app/internal/middleware"
	"github.com/krykon00/krk-budget-app/internal/services"
	"github.com/krykon00/krk-budget-app/pkg/contracts/domain"
)

// Export formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DashboardHandler serves the dashboard views as JSON
type DashboardHandler struct {
	service      ViewServiceInterface
	validator    *middleware.ValidationMiddleware
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler with RFC 7807 error handling
func NewDashboardHandler(service ViewServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		validator:    middleware.NewValidationMiddleware(logger),
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the view routes
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(render.SetContentType(render.ContentTypeJSON)).Get("/", h.ListViews)

	r.Route("/{view}", func(r chi.Router) {
		r.With(render.SetContentType(render.ContentTypeJSON)).Get("/", h.GetView)
		r.With(render.SetContentType(render.ContentTypeJSON)).Get("/filters", h.GetFilters)
		r.Get("/export.{format}", h.Export)
	})

	return r
}

// ListViews handles GET /api/views
func (h *DashboardHandler) ListViews(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"views":    h.service.Catalog(),
		"currency": services.Currency,
	})
}

// GetView handles GET /api/views/{view}
func (h *DashboardHandler) GetView(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.filter(w, r)
	if !ok {
		return
	}

	view, err := h.service.Build(r.Context(), chi.URLParam(r, "view"), filter)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, view)
}

// GetFilters handles GET /api/views/{view}/filters
func (h *DashboardHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	opts, err := h.service.Filters(r.Context(), chi.URLParam(r, "view"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, opts)
}

// Export handles GET /api/views/{view}/export.{csv|xlsx}
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "view")
	format := chi.URLParam(r, "format")
	if format != FormatCSV && format != FormatXLSX {
		h.errorHandler.HandleError(w, r, apierrors.InvalidParameter("format", format, "must be csv or xlsx"))
		return
	}

	filter, ok := h.filter(w, r)
	if !ok {
		return
	}

	table, err := h.service.Table(r.Context(), name, filter)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	// Buffered so a failed export can still be reported as a problem
	var buf bytes.Buffer
	contentType := "text/csv; charset=utf-8"
	if format == FormatXLSX {
		contentType = contentTypeXLSX
		err = exporter.WriteWideXLSX(&buf, table.Table, table.Name)
	} else {
		err = exporter.WriteWideCSV(&buf, table.Table)
	}
	if err != nil {
		h.errorHandler.HandleError(w, r, fmt.Errorf("export %s: %w", name, err))
		return
	}

	h.logger.InfoContext(r.Context(), "view exported",
		slog.String("view", name),
		slog.String("format", format),
		slog.Int("rows", table.Table.Len()),
		slog.String("request_id", middleware.GetRequestID(r.Context())))

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, name, format))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// filter parses and validates the query; on failure the problem is already written
func (h *DashboardHandler) filter(w http.ResponseWriter, r *http.Request) (domain.FilterSelection, bool) {
	filter, err := ParseFilterSelection(r.URL.Query())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return domain.FilterSelection{}, false
	}
	if err := h.validator.ValidateStruct(filter); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return domain.FilterSelection{}, false
	}
	return filter, true
}
