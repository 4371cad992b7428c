package shared_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repokeeper/internal/shared"
)

const (
	redactedPlaceholderConstant = "[redacted]"
	secretTokenConstant         = "ghp_secretvalue1234567890"
	accountUsernameConstant     = "octocat"
)

func TestAccountHandleStringRedactsToken(testInstance *testing.T) {
	testCases := []struct {
		name    string
		account shared.AccountHandle
	}{
		{
			name:    "token_present",
			account: shared.AccountHandle{Username: accountUsernameConstant, Token: secretTokenConstant},
		},
		{
			name:    "token_absent",
			account: shared.AccountHandle{Username: accountUsernameConstant},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			rendered := testCase.account.String()

			require.Contains(testInstance, rendered, accountUsernameConstant)
			require.Contains(testInstance, rendered, redactedPlaceholderConstant)
			require.NotContains(testInstance, rendered, secretTokenConstant)
		})
	}
}

func TestParseRepositoryFilter(testInstance *testing.T) {
	testCases := []struct {
		name           string
		input          string
		expectedFilter shared.RepositoryFilter
		expectError    bool
	}{
		{name: "all_lowercase", input: "all", expectedFilter: shared.FilterAll},
		{name: "owner_with_surrounding_whitespace", input: " Owner ", expectedFilter: shared.FilterOwner},
		{name: "collaborator_uppercase", input: "COLLABORATOR", expectedFilter: shared.FilterCollaborator},
		{name: "unknown_value", input: "member", expectError: true},
		{name: "empty_value", input: "", expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			parsedFilter, parseError := shared.ParseRepositoryFilter(testCase.input)

			if testCase.expectError {
				require.Error(testInstance, parseError)
				require.Contains(testInstance, parseError.Error(), testCase.input)
				return
			}

			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expectedFilter, parsedFilter)
		})
	}
}

func TestRepositoryRefNaming(testInstance *testing.T) {
	repositoryReference := shared.RepositoryRef{Owner: accountUsernameConstant, Name: "Hello-World"}

	require.Equal(testInstance, "octocat/Hello-World", repositoryReference.FullName())
	require.Equal(testInstance, "hello-world", repositoryReference.NormalizedName())
	require.Equal(testInstance, "hello-world", shared.NormalizeRepositoryName("  Hello-World\n"))
}

func TestConfirmationPolicyFromBool(testInstance *testing.T) {
	testCases := []struct {
		name            string
		assumeYes       bool
		expectedPolicy  shared.ConfirmationPolicy
		expectPrompting bool
	}{
		{name: "assume_yes_skips_prompting", assumeYes: true, expectedPolicy: shared.ConfirmationAssumeYes, expectPrompting: false},
		{name: "default_requires_prompting", assumeYes: false, expectedPolicy: shared.ConfirmationPrompt, expectPrompting: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			resolvedPolicy := shared.ConfirmationPolicyFromBool(testCase.assumeYes)

			require.Equal(testInstance, testCase.expectedPolicy, resolvedPolicy)
			require.Equal(testInstance, testCase.expectPrompting, resolvedPolicy.ShouldPrompt())
			require.Equal(testInstance, !testCase.expectPrompting, resolvedPolicy.ShouldAssumeYes())
		})
	}
}

func TestIOConfirmationPrompter(testInstance *testing.T) {
	testCases := []struct {
		name             string
		response         string
		expectedDecision bool
	}{
		{name: "yes_word_confirms", response: "yes\n", expectedDecision: true},
		{name: "single_letter_confirms", response: "Y\n", expectedDecision: true},
		{name: "no_declines", response: "no\n", expectedDecision: false},
		{name: "empty_line_declines", response: "\n", expectedDecision: false},
		{name: "eof_without_newline_confirms", response: "y", expectedDecision: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			outputBuffer := &strings.Builder{}
			prompter := shared.NewIOConfirmationPrompter(strings.NewReader(testCase.response), outputBuffer)

			decision, confirmError := prompter.Confirm("Proceed? ")

			require.NoError(testInstance, confirmError)
			require.Equal(testInstance, testCase.expectedDecision, decision)
			require.Equal(testInstance, "Proceed? ", outputBuffer.String())
		})
	}
}
