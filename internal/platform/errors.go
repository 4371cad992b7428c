package platform

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v60/github"
)

const (
	authErrorMessageTemplateConstant      = "authentication failed: %s"
	notFoundErrorMessageTemplateConstant  = "%s was not found"
	rateLimitErrorMessageTemplateConstant = "rate limit exceeded, retry after %s"
	conflictErrorMessageTemplateConstant  = "conflicting repository state: %s"
	platformErrorMessageTemplateConstant  = "platform request failed: %s"
	invalidInputErrorTemplateConstant     = "%s: %s"
	requiredValueMessageConstant          = "value required"
)

// AuthError indicates a rejected or expired credential.
type AuthError struct {
	Cause error
}

// Error describes the authentication failure.
func (authenticationError AuthError) Error() string {
	return fmt.Sprintf(authErrorMessageTemplateConstant, authenticationError.Cause)
}

// Unwrap exposes the underlying transport error.
func (authenticationError AuthError) Unwrap() error {
	return authenticationError.Cause
}

// NotFoundError indicates the requested resource does not exist.
type NotFoundError struct {
	Resource string
	Cause    error
}

// Error describes the missing resource.
func (notFoundError NotFoundError) Error() string {
	return fmt.Sprintf(notFoundErrorMessageTemplateConstant, notFoundError.Resource)
}

// Unwrap exposes the underlying transport error.
func (notFoundError NotFoundError) Unwrap() error {
	return notFoundError.Cause
}

// RateLimitError indicates the platform throttled the request. RetryAfter
// carries the advertised delay before the call may be repeated.
type RateLimitError struct {
	RetryAfter time.Duration
	Cause      error
}

// Error describes the throttling failure.
func (rateLimitError RateLimitError) Error() string {
	return fmt.Sprintf(rateLimitErrorMessageTemplateConstant, rateLimitError.RetryAfter)
}

// Unwrap exposes the underlying transport error.
func (rateLimitError RateLimitError) Unwrap() error {
	return rateLimitError.Cause
}

// ConflictError indicates the remote state does not allow the operation,
// such as a transfer requested by a non-owner.
type ConflictError struct {
	Message string
	Cause   error
}

// Error describes the conflicting state.
func (conflictError ConflictError) Error() string {
	return fmt.Sprintf(conflictErrorMessageTemplateConstant, conflictError.Message)
}

// Unwrap exposes the underlying transport error.
func (conflictError ConflictError) Unwrap() error {
	return conflictError.Cause
}

// PlatformError reports server-side or unexpected transport failures.
type PlatformError struct {
	Cause error
}

// Error describes the platform failure.
func (platformError PlatformError) Error() string {
	return fmt.Sprintf(platformErrorMessageTemplateConstant, platformError.Cause)
}

// Unwrap exposes the underlying transport error.
func (platformError PlatformError) Unwrap() error {
	return platformError.Cause
}

// InvalidInputError surfaces validation issues for operation inputs.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// TranslateError maps go-github transport failures onto the repokeeper error
// taxonomy. The original error is always retained as the cause so callers
// may add context without losing the kind.
func TranslateError(resource string, callError error) error {
	if callError == nil {
		return nil
	}

	var rateLimitFailure *github.RateLimitError
	if errors.As(callError, &rateLimitFailure) {
		retryDelay := time.Until(rateLimitFailure.Rate.Reset.Time)
		if retryDelay < 0 {
			retryDelay = 0
		}
		return RateLimitError{RetryAfter: retryDelay, Cause: callError}
	}

	var abuseFailure *github.AbuseRateLimitError
	if errors.As(callError, &abuseFailure) {
		return RateLimitError{RetryAfter: abuseFailure.GetRetryAfter(), Cause: callError}
	}

	var responseFailure *github.ErrorResponse
	if errors.As(callError, &responseFailure) && responseFailure.Response != nil {
		switch responseFailure.Response.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return AuthError{Cause: callError}
		case http.StatusNotFound:
			return NotFoundError{Resource: resource, Cause: callError}
		case http.StatusConflict, http.StatusUnprocessableEntity:
			return ConflictError{Message: responseFailure.Message, Cause: callError}
		}
	}

	return PlatformError{Cause: callError}
}
