package payroll

import "errors"

var (
	ErrInvalidPeriod     = errors.New("invalid pay period")
	ErrRecordNotFound    = errors.New("payroll record not found")
	ErrInvalidTransition = errors.New("invalid payroll status transition")
	ErrMissingBasic      = errors.New("employee has no basic salary configured")
)
