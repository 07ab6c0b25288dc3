/*
 * Copyright © 2025 Dimgraph Labs, All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrNotFound is returned when an entity, record, or operation target is not found
	ErrNotFound = errors.New("not found")

	// ErrDuplicateID is returned when an explicit id collides with a registered one
	ErrDuplicateID = errors.New("duplicate id")

	// ErrOperationNotFound is returned when calling an unregistered operation
	ErrOperationNotFound = errors.New("operation not found")

	// ErrDivisionByZero is returned by the built-in divide operation
	ErrDivisionByZero = errors.New("division by zero")

	// ErrNotWritable is returned when persisting through a read-only datastore
	ErrNotWritable = errors.New("datastore not writable")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

// NotFoundError represents an error when an entity or record is not found.
// Registry and datastore lookups normally signal absence with a nil result;
// this type exists for provider boundaries that must return an error.
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// DuplicateIDError represents an id collision on explicit-id registration
type DuplicateIDError struct {
	Type string
	ID   string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("%s with id %q already registered", e.Type, e.ID)
}

func (e *DuplicateIDError) Is(target error) bool {
	return target == ErrDuplicateID
}

// OperationNotFoundError represents a call to an operation that resolves
// neither by name nor by id
type OperationNotFoundError struct {
	Name string
}

func (e *OperationNotFoundError) Error() string {
	return fmt.Sprintf("operation %q not found", e.Name)
}

func (e *OperationNotFoundError) Is(target error) bool {
	return target == ErrOperationNotFound
}

// DivisionByZeroError represents a zero divisor passed to the built-in divide
type DivisionByZeroError struct {
	Dividend float64
}

func (e *DivisionByZeroError) Error() string {
	return fmt.Sprintf("cannot divide %v by zero", e.Dividend)
}

func (e *DivisionByZeroError) Is(target error) bool {
	return target == ErrDivisionByZero
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(kind, key string) error {
	return &NotFoundError{Type: kind, Key: key}
}

// NewDuplicateIDError creates a new DuplicateIDError
func NewDuplicateIDError(kind, id string) error {
	return &DuplicateIDError{Type: kind, ID: id}
}

// NewOperationNotFoundError creates a new OperationNotFoundError
func NewOperationNotFoundError(name string) error {
	return &OperationNotFoundError{Name: name}
}

// NewDivisionByZeroError creates a new DivisionByZeroError
func NewDivisionByZeroError(dividend float64) error {
	return &DivisionByZeroError{Dividend: dividend}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateID checks if an error is a duplicate id error
func IsDuplicateID(err error) bool {
	return errors.Is(err, ErrDuplicateID)
}

// IsOperationNotFound checks if an error is an operation not found error
func IsOperationNotFound(err error) bool {
	return errors.Is(err, ErrOperationNotFound)
}

// IsDivisionByZero checks if an error is a division by zero error
func IsDivisionByZero(err error) bool {
	return errors.Is(err, ErrDivisionByZero)
}

// IsNotWritable checks if an error is a not writable error
func IsNotWritable(err error) bool {
	return errors.Is(err, ErrNotWritable)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
