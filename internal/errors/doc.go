// Package errors renders failures as RFC 7807 problem details.
//
// ErrorHandler maps loader, discovery and view sentinels to HTTP statuses
// through errors.Is, so handlers return plain wrapped errors and leave the
// response shape to this package.
package errors
