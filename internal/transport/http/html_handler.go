package http

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/krykon00/krk-budget-app/internal/errors"
	"github.com/krykon00/krk-budget-app/internal/exporter"
	"github.com/krykon00/krk-budget-app/internal/middleware"
	"github.com/krykon00/krk-budget-app/internal/services"
)

// EChartsURL is the charting library loaded by the dashboard pages
const EChartsURL = middleware.ChartsCDN + "/npm/echarts@5/dist/echarts.min.js"

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.New("pages").
	Funcs(template.FuncMap{"human": exporter.HumanFormat}).
	ParseFS(templateFS, "templates/*.html"))

// PageHandler renders the dashboard pages. Charts are drawn in the browser
// from the options built on the server.
type PageHandler struct {
	service      ViewServiceInterface
	validator    *middleware.ValidationMiddleware
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewPageHandler creates a new page handler
func NewPageHandler(service ViewServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *PageHandler {
	return &PageHandler{
		service:      service,
		validator:    middleware.NewValidationMiddleware(logger),
		logger:       logger.With(slog.String("handler", "pages")),
		errorHandler: errorHandler,
	}
}

type pageData struct {
	Title     string
	Catalog   []services.ViewInfo
	View      *services.View
	Query     template.URL
	ChartsURL string
}

// Index handles GET /
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "index.html", pageData{
		Title:   "Budżet miasta Krakowa",
		Catalog: h.service.Catalog(),
	})
}

// View handles GET /views/{view}
func (h *PageHandler) View(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseFilterSelection(r.URL.Query())
	if err == nil {
		err = h.validator.ValidateStruct(filter)
	}
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	view, err := h.service.Build(r.Context(), chi.URLParam(r, "view"), filter)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.serve(w, r, "view.html", pageData{
		Title:     view.Title,
		Catalog:   h.service.Catalog(),
		View:      view,
		Query:     template.URL(r.URL.RawQuery),
		ChartsURL: EChartsURL,
	})
}

// serve renders into a buffer so template errors still produce a clean 500
func (h *PageHandler) serve(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		h.logger.ErrorContext(r.Context(), "page render failed",
			slog.String("page", name),
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
