// Package http implements the HTTP handlers of the budget dashboard.
//
// Handlers stay thin: they parse the query into a domain.FilterSelection,
// validate it, call the view or health service and render the result with
// go-chi/render. Failures are passed to errors.ErrorHandler, which writes
// RFC 7807 problem details:
//
//	{
//	    "type": "/errors/validation",
//	    "title": "Bad Request",
//	    "status": 400,
//	    "detail": "Request validation failed",
//	    "instance": "/api/views/districts"
//	}
//
// Query parameters shared by the view endpoints:
//
//	periods     comma separated or repeated period labels
//	units       repeated unit names
//	categories  repeated category names
//	details     repeated detail lines
//	names       repeated row names
//	sort        asc or desc
//	top         0 to 15, zero keeps every bar
//	focus       unit or category of the drill-down chart
//
// The HTML pages embed their templates and draw the chart options with
// ECharts loaded from the CDN allowed by the security headers.
package http
