package githubauth_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repokeeper/internal/githubauth"
)

const (
	testEnvironmentSourceCaseNameConstant = "environment_source"
	testBareValueCaseNameConstant         = "bare_environment_name"
	testFileSourceCaseNameConstant        = "file_source"
	testUnknownSourceCaseNameConstant     = "unknown_source_type"
	testEnvironmentVariableNameConstant   = "REPOKEEPER_TEST_TOKEN"
	testTokenValueConstant                = "token-value"
	testTokenFilePathConstant             = "/secrets/token"
)

func TestParseTokenSource(testInstance *testing.T) {
	testCases := []struct {
		name          string
		sourceValue   string
		expectedType  githubauth.TokenSourceType
		expectedRef   string
		expectFailure bool
	}{
		{
			name:         testEnvironmentSourceCaseNameConstant,
			sourceValue:  "env:" + testEnvironmentVariableNameConstant,
			expectedType: githubauth.TokenSourceTypeEnvironment,
			expectedRef:  testEnvironmentVariableNameConstant,
		},
		{
			name:         testBareValueCaseNameConstant,
			sourceValue:  testEnvironmentVariableNameConstant,
			expectedType: githubauth.TokenSourceTypeEnvironment,
			expectedRef:  testEnvironmentVariableNameConstant,
		},
		{
			name:         testFileSourceCaseNameConstant,
			sourceValue:  "file:" + testTokenFilePathConstant,
			expectedType: githubauth.TokenSourceTypeFile,
			expectedRef:  testTokenFilePathConstant,
		},
		{
			name:          testUnknownSourceCaseNameConstant,
			sourceValue:   "vault:secret/github",
			expectFailure: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			parsedSource, parseError := githubauth.ParseTokenSource(testCase.sourceValue)
			if testCase.expectFailure {
				require.Error(testInstance, parseError)
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expectedType, parsedSource.Type)
			require.Equal(testInstance, testCase.expectedRef, parsedSource.Reference)
		})
	}
}

func TestTokenResolverResolveToken(testInstance *testing.T) {
	environmentLookup := func(key string) (string, bool) {
		if key == testEnvironmentVariableNameConstant {
			return " " + testTokenValueConstant + "\n", true
		}
		return "", false
	}
	fileReader := func(path string) ([]byte, error) {
		if path == testTokenFilePathConstant {
			return []byte(testTokenValueConstant + "\n"), nil
		}
		return nil, errors.New("no such file")
	}

	resolver := githubauth.NewTokenResolver(environmentLookup, fileReader)

	environmentToken, environmentError := resolver.ResolveToken(githubauth.TokenSourceConfiguration{
		Type:      githubauth.TokenSourceTypeEnvironment,
		Reference: testEnvironmentVariableNameConstant,
	})
	require.NoError(testInstance, environmentError)
	require.Equal(testInstance, testTokenValueConstant, environmentToken)

	fileToken, fileError := resolver.ResolveToken(githubauth.TokenSourceConfiguration{
		Type:      githubauth.TokenSourceTypeFile,
		Reference: testTokenFilePathConstant,
	})
	require.NoError(testInstance, fileError)
	require.Equal(testInstance, testTokenValueConstant, fileToken)

	_, missingError := resolver.ResolveToken(githubauth.TokenSourceConfiguration{
		Type:      githubauth.TokenSourceTypeEnvironment,
		Reference: "REPOKEEPER_MISSING",
	})
	require.Error(testInstance, missingError)
}
