package session

import "errors"

// Sentinel errors for session transitions and validation.
var (
	// ErrEmptyID indicates an item was added without an id.
	ErrEmptyID = errors.New("item id is empty")
	// ErrEmptyLabel indicates an item has no label.
	ErrEmptyLabel = errors.New("item label is empty")
	// ErrDuplicateItem indicates two items share the same id.
	ErrDuplicateItem = errors.New("duplicate item id")
	// ErrUnknownItem indicates a reference to an id that is not in the session.
	ErrUnknownItem = errors.New("unknown item")
	// ErrQuestionOutOfRange indicates a question index outside the pair list.
	ErrQuestionOutOfRange = errors.New("question out of range")
	// ErrInvalidMode indicates an unrecognized plan mode.
	ErrInvalidMode = errors.New("invalid plan mode")
)

// ValidationCategory classifies a validation error for programmatic handling.
type ValidationCategory string

const (
	// ValCatEmptyID indicates an item with no id.
	ValCatEmptyID ValidationCategory = "empty_id"
	// ValCatEmptyLabel indicates an item with no label.
	ValCatEmptyLabel ValidationCategory = "empty_label"
	// ValCatDuplicateID indicates two or more items share an id.
	ValCatDuplicateID ValidationCategory = "duplicate_id"
	// ValCatStaleDecision indicates a decision references an id outside the item set.
	ValCatStaleDecision ValidationCategory = "stale_decision"
	// ValCatMalformedDecision indicates a decision whose direction does not
	// match the pair it is stored under.
	ValCatMalformedDecision ValidationCategory = "malformed_decision"
)

// ValidationError records one problem found by Session.Validate.
type ValidationError struct {
	Category ValidationCategory
	ItemID   string
	Err      error
}

// Error returns a human-readable string including item context.
func (e *ValidationError) Error() string {
	if e.ItemID != "" {
		return "item " + e.ItemID + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error for use with errors.Is/As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Fatal reports whether the problem prevents planning. Stale and malformed
// decisions are ignored by the planner, so they are warnings.
func (e *ValidationError) Fatal() bool {
	switch e.Category {
	case ValCatStaleDecision, ValCatMalformedDecision:
		return false
	}
	return true
}
