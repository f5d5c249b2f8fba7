// Package middleware holds the HTTP middleware chain of the dashboard server:
// request IDs, request logging, rate limiting, CORS, security headers,
// OpenTelemetry spans and request validation.
package middleware
