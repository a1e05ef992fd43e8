package domain

import (
	"fmt"
	"strings"
)

// Error types for consistent error handling across the service.

// ErrNotFound indicates a resource was not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrExternalService indicates a failure in an external service call.
type ErrExternalService struct {
	Service string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("external service error [%s]: %v", e.Service, e.Err)
}

func (e *ErrExternalService) Unwrap() error {
	return e.Err
}

// ErrTimeout indicates an operation exceeded its deadline.
type ErrTimeout struct {
	Operation string
}

func (e *ErrTimeout) Error() string {
	return fmt.Sprintf("operation timed out: %s", e.Operation)
}

// ErrCircuitOpen indicates the circuit breaker is open.
type ErrCircuitOpen struct {
	Service string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("circuit breaker open for service: %s", e.Service)
}

// ErrValidation indicates a validation error (bad input).
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

// ErrUnavailable indicates an optional collaborator is not configured.
type ErrUnavailable struct {
	Service string
	Reason  string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s unavailable: %s", e.Service, e.Reason)
}

// ErrInfeasiblePlan indicates the budget can never retire the listed debts:
// their payment does not exceed their interest.
type ErrInfeasiblePlan struct {
	Debts []string
	Month int
}

func (e *ErrInfeasiblePlan) Error() string {
	return fmt.Sprintf("plan cannot pay off debts (stalled by month %d): %s",
		e.Month, strings.Join(e.Debts, ", "))
}

// ErrHorizonExceeded indicates debts remain when the simulation horizon ends.
type ErrHorizonExceeded struct {
	Months    int
	Remaining float64
}

func (e *ErrHorizonExceeded) Error() string {
	return fmt.Sprintf("debts not paid off within %d months: %.2f remaining", e.Months, e.Remaining)
}
