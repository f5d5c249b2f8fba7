package services

import "errors"

// View service errors
var (
	ErrViewNotFound = errors.New("view not found")
	ErrNoPeriods    = errors.New("no periods available")
)
