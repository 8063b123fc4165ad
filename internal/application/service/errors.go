package service

import (
	"errors"
	"strings"

	"github.com/sangkips/receipts-api/internal/domain/extrafield"
	"github.com/sangkips/receipts-api/internal/domain/repository"
	"github.com/sangkips/receipts-api/pkg/apperror"
)

// invalidField is a 400 naming the offending input field
func invalidField(field, message string) *apperror.AppError {
	return apperror.NewFieldError(field, message)
}

// fromExtraFieldError converts a schema or extra data rejection
func fromExtraFieldError(prefix string, err error) error {
	var vErr *extrafield.ValidationError
	if !errors.As(err, &vErr) {
		return err
	}
	field := prefix
	switch {
	case strings.HasPrefix(vErr.Field, "["):
		field = prefix + vErr.Field
	case vErr.Field != "":
		field = prefix + "." + vErr.Field
	}
	return invalidField(field, vErr.Reason)
}

// storageError passes application errors through and wraps everything else
// as a server-side storage failure
func storageError(message string, err error) error {
	switch {
	case err == nil:
		return nil
	case apperror.IsAppError(err):
		return err
	case errors.Is(err, repository.ErrLockTimeout):
		return apperror.ErrSequenceBusy
	default:
		return apperror.NewStorageError(message, err)
	}
}
