package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	repo "github.com/oksasatya/shopease-api/internal/domain/repository"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrSessionExpired      = errors.New("session expired, please login again")
	ErrForbidden           = errors.New("forbidden")
	ErrAlreadyLoggedIn     = errors.New("user is already logged in on another device")
	ErrUsernameTaken       = errors.New("username already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrItemNotFound        = errors.New("item not found")
	ErrCartNotFound        = errors.New("cart not found")
	ErrCartLineNotFound    = errors.New("cart item not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInvalidStatus       = errors.New("invalid order status")
	ErrOrderNotCancellable = errors.New("order cannot be cancelled in its current status")
	ErrFeatureUnavailable  = errors.New("feature not configured")
	ErrTimeout             = errors.New("request timed out")
)

// ValidationError carries per-field messages and matches ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(field, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// storageErr maps repository failures onto domain errors. notFound is
// returned for repo.ErrNotFound; deadline errors become ErrTimeout.
func storageErr(err error, notFound error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repo.ErrNotFound) && notFound != nil:
		return notFound
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
