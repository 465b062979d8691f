package handlers

import (
	apperrors "paykript/internal/shared/errors"
)

// invalidIDError reports a malformed path parameter consistently across
// handlers, e.g. a non-numeric `:id`.
func invalidIDError(name string) error {
	return apperrors.NewValidationError("invalid " + name)
}
