// Package shared holds helpers used by more than one package.
//
// The testutil subpackage provides:
//
//	- CaptureHandler, an slog.Handler that records log entries for assertions
//	- WriteCSV, which lays out CSV fixtures in a test's temp directory
package shared
