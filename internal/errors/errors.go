package errors

import (
	"errors"
	"fmt"
)

// Common error types for the login client
var (
	// Token errors
	ErrInvalidToken = errors.New("invalid token")

	// Key errors
	ErrUnsupportedKey = errors.New("unsupported key type")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
