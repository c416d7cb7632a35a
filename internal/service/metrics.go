package service

import (
	"errors"

	"weave/internal/models"
	"weave/internal/observability"
)

// recordMutation counts one successful graph mutation.
func recordMutation(engine, operation string) {
	observability.GraphMutations.WithLabelValues(engine, operation).Inc()
}

// recordMutationError counts a failed graph mutation by error code.
func recordMutationError(engine string, err error) {
	code := "INTERNAL_ERROR"
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		code = appErr.Code
	}
	observability.GraphMutationErrors.WithLabelValues(engine, code).Inc()
}
