package platform_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-github/v60/github"
	"github.com/stretchr/testify/require"

	"github.com/temirov/repokeeper/internal/platform"
)

const (
	translateResourceConstant             = "repository octocat/widget"
	unauthorizedCaseNameConstant          = "unauthorized_maps_to_auth_error"
	forbiddenCaseNameConstant             = "forbidden_maps_to_auth_error"
	missingCaseNameConstant               = "missing_maps_to_not_found_error"
	conflictCaseNameConstant              = "conflict_maps_to_conflict_error"
	unprocessableCaseNameConstant         = "unprocessable_maps_to_conflict_error"
	serverFailureCaseNameConstant         = "server_failure_maps_to_platform_error"
	plainFailureCaseNameConstant          = "plain_failure_maps_to_platform_error"
	rateLimitCaseNameConstant             = "rate_limit_carries_advertised_delay"
	abuseLimitCaseNameConstant            = "abuse_limit_carries_retry_after"
	expiredRateLimitCaseNameConstant      = "expired_rate_limit_clamps_delay_to_zero"
	conflictResponseMessageConstant       = "repository already exists"
	plainFailureMessageConstant           = "connection reset"
	abuseRetryAfterDurationConstant       = 90 * time.Second
	futureRateLimitResetDurationConstant  = time.Minute
	expiredRateLimitResetDurationConstant = -time.Minute
)

func newErrorResponseForStatus(statusCode int, message string) *github.ErrorResponse {
	return &github.ErrorResponse{
		Response: &http.Response{StatusCode: statusCode},
		Message:  message,
	}
}

func newRateLimitErrorWithReset(resetOffset time.Duration) *github.RateLimitError {
	return &github.RateLimitError{
		Rate: github.Rate{Reset: github.Timestamp{Time: time.Now().Add(resetOffset)}},
	}
}

func TestTranslateError(testInstance *testing.T) {
	abuseRetryAfter := abuseRetryAfterDurationConstant

	testCases := []struct {
		name      string
		callError error
		verify    func(testInstance *testing.T, translatedError error)
	}{
		{
			name:      unauthorizedCaseNameConstant,
			callError: newErrorResponseForStatus(http.StatusUnauthorized, ""),
			verify: func(testInstance *testing.T, translatedError error) {
				require.ErrorAs(testInstance, translatedError, &platform.AuthError{})
			},
		},
		{
			name:      forbiddenCaseNameConstant,
			callError: newErrorResponseForStatus(http.StatusForbidden, ""),
			verify: func(testInstance *testing.T, translatedError error) {
				require.ErrorAs(testInstance, translatedError, &platform.AuthError{})
			},
		},
		{
			name:      missingCaseNameConstant,
			callError: newErrorResponseForStatus(http.StatusNotFound, ""),
			verify: func(testInstance *testing.T, translatedError error) {
				notFoundFailure := platform.NotFoundError{}
				require.ErrorAs(testInstance, translatedError, &notFoundFailure)
				require.Equal(testInstance, translateResourceConstant, notFoundFailure.Resource)
			},
		},
		{
			name:      conflictCaseNameConstant,
			callError: newErrorResponseForStatus(http.StatusConflict, conflictResponseMessageConstant),
			verify: func(testInstance *testing.T, translatedError error) {
				conflictFailure := platform.ConflictError{}
				require.ErrorAs(testInstance, translatedError, &conflictFailure)
				require.Equal(testInstance, conflictResponseMessageConstant, conflictFailure.Message)
			},
		},
		{
			name:      unprocessableCaseNameConstant,
			callError: newErrorResponseForStatus(http.StatusUnprocessableEntity, conflictResponseMessageConstant),
			verify: func(testInstance *testing.T, translatedError error) {
				require.ErrorAs(testInstance, translatedError, &platform.ConflictError{})
			},
		},
		{
			name:      serverFailureCaseNameConstant,
			callError: newErrorResponseForStatus(http.StatusInternalServerError, ""),
			verify: func(testInstance *testing.T, translatedError error) {
				require.ErrorAs(testInstance, translatedError, &platform.PlatformError{})
			},
		},
		{
			name:      plainFailureCaseNameConstant,
			callError: errors.New(plainFailureMessageConstant),
			verify: func(testInstance *testing.T, translatedError error) {
				require.ErrorAs(testInstance, translatedError, &platform.PlatformError{})
			},
		},
		{
			name:      rateLimitCaseNameConstant,
			callError: newRateLimitErrorWithReset(futureRateLimitResetDurationConstant),
			verify: func(testInstance *testing.T, translatedError error) {
				rateLimitFailure := platform.RateLimitError{}
				require.ErrorAs(testInstance, translatedError, &rateLimitFailure)
				require.Greater(testInstance, rateLimitFailure.RetryAfter, time.Duration(0))
				require.LessOrEqual(testInstance, rateLimitFailure.RetryAfter, futureRateLimitResetDurationConstant)
			},
		},
		{
			name:      expiredRateLimitCaseNameConstant,
			callError: newRateLimitErrorWithReset(expiredRateLimitResetDurationConstant),
			verify: func(testInstance *testing.T, translatedError error) {
				rateLimitFailure := platform.RateLimitError{}
				require.ErrorAs(testInstance, translatedError, &rateLimitFailure)
				require.Equal(testInstance, time.Duration(0), rateLimitFailure.RetryAfter)
			},
		},
		{
			name:      abuseLimitCaseNameConstant,
			callError: &github.AbuseRateLimitError{RetryAfter: &abuseRetryAfter},
			verify: func(testInstance *testing.T, translatedError error) {
				rateLimitFailure := platform.RateLimitError{}
				require.ErrorAs(testInstance, translatedError, &rateLimitFailure)
				require.Equal(testInstance, abuseRetryAfterDurationConstant, rateLimitFailure.RetryAfter)
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			translatedError := platform.TranslateError(translateResourceConstant, testCase.callError)
			require.Error(subtestInstance, translatedError)
			testCase.verify(subtestInstance, translatedError)
		})
	}
}

func TestTranslateErrorPassesThroughNil(testInstance *testing.T) {
	require.NoError(testInstance, platform.TranslateError(translateResourceConstant, nil))
}
