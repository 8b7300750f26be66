package site

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrConfigNotFound is returned when a site identifier is unknown.
	ErrConfigNotFound = errors.New("site configuration not found")

	// ErrMissingLinks is returned when link discovery is requested for a
	// site without a links section.
	ErrMissingLinks = errors.New("site has no links configuration")

	// ErrMissingContent is returned when content extraction is requested
	// for a site without a content section.
	ErrMissingContent = errors.New("site has no content configuration")
)

// NotFoundError reports an unknown site identifier together with the
// identifiers that are known. It matches ErrConfigNotFound with errors.Is.
type NotFoundError struct {
	ID    string
	Known []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("unknown site: %s (available: %s)", e.ID, strings.Join(e.Known, ", "))
}

func (e *NotFoundError) Unwrap() error { return ErrConfigNotFound }

// ValidationError reports a descriptor that failed validation.
type ValidationError struct {
	ID  string
	Err error
}

func (e *ValidationError) Error() string {
	var fieldErrs validator.ValidationErrors
	if errors.As(e.Err, &fieldErrs) {
		parts := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			if fe.Param() != "" {
				parts = append(parts, fmt.Sprintf("%s: failed %s=%s (got %q)", fe.Namespace(), fe.Tag(), fe.Param(), fmt.Sprint(fe.Value())))
			} else {
				parts = append(parts, fmt.Sprintf("%s: failed %s (got %q)", fe.Namespace(), fe.Tag(), fmt.Sprint(fe.Value())))
			}
		}
		return fmt.Sprintf("invalid site %q: %s", e.ID, strings.Join(parts, "; "))
	}
	return fmt.Sprintf("invalid site %q: %v", e.ID, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }
