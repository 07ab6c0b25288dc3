/*
Package errors provides semantic error types for the dimgraph library.

The package defines common error scenarios with specific types that can be
checked using the standard errors.Is() function or the provided helper functions.

Common Errors:

	var (
	    ErrNotFound          = errors.New("not found")
	    ErrDuplicateID       = errors.New("duplicate id")
	    ErrOperationNotFound = errors.New("operation not found")
	    ErrDivisionByZero    = errors.New("division by zero")
	    ErrNotWritable       = errors.New("datastore not writable")
	    ErrInvalidInput      = errors.New("invalid input")
	)

Usage:

	// Check error type
	e, err := dim.CreateEntityWithID("car-1", dimgraph.KindRect, "car", "center", nil)
	if err != nil {
	    if errors.IsDuplicateID(err) {
	        // Handle id collision
	        return fmt.Errorf("entity %s already exists", "car-1")
	    }
	    return err
	}

	// Create typed errors
	err := errors.NewDuplicateIDError("entity", "car-1")
	err := errors.NewOperationNotFoundError("translate")
	err := errors.NewValidationError("kind", "must not be empty")

Structural errors (duplicate ids, unknown operations, division by zero) are
surfaced as errors; absence-of-data conditions (missing entity, empty query
result, absent record) are surfaced as nil/empty results instead.

The error types implement the error interface and support wrapping,
making them compatible with Go's standard error handling patterns.
*/
package errors
