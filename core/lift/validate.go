package lift

import (
	liberr "github.com/lexbox-tools/liftkit/core/errors"
)

// ValidateEntry enforces the structural invariants required of an entry.
// Currently there is a single rule: an entry must contain at least one
// sense. The parser applies this automatically unless constructed with
// WithValidation(false), the escape hatch for listing/import flows that
// must tolerate partially-invalid legacy data (e.g. variant-only stubs).
func ValidateEntry(e *Entry) error {
	if len(e.Senses) == 0 {
		return &liberr.ValidationError{
			Field:   "senses",
			Value:   e.ID,
			Message: "At least one sense is required per entry",
		}
	}
	return nil
}
