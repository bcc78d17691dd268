package model

import (
	"github.com/google/uuid"

	apperrors "socialgraph/backend/pkg/errors"
)

// CheckID returns a ValidationFailed error when id is not a UUID
func CheckID(field, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NewMalformedID(field, id)
	}
	return nil
}

// ValidID reports whether id is a UUID
func ValidID(id string) bool {
	return CheckID(FieldID, id) == nil
}
