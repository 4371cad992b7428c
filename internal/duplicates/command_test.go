package duplicates_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/repokeeper/internal/duplicates"
	"github.com/temirov/repokeeper/internal/githubauth"
	"github.com/temirov/repokeeper/internal/shared"
)

const commandTokenConstant = "command-token"

func newCommandService(testInstance *testing.T, remover *removerSpy) *duplicates.Service {
	sourceLister := &stubLister{repositories: []shared.RepositoryRef{sourceRepository("alpha"), sourceRepository("beta")}}
	targetLister := &stubLister{repositories: []shared.RepositoryRef{targetRepository("alpha")}}
	service, serviceError := duplicates.NewService(zap.NewNop(), sourceLister, targetLister, remover)
	require.NoError(testInstance, serviceError)
	return service
}

func TestDuplicatesCommandReconciles(testInstance *testing.T) {
	testInstance.Setenv(githubauth.EnvGitHubCLIToken, commandTokenConstant)

	remover := &removerSpy{}
	var resolvedTarget shared.AccountHandle

	builder := duplicates.CommandBuilder{
		LoggerProvider: func() *zap.Logger { return zap.NewNop() },
		SourceAccountProvider: func() githubauth.AccountConfiguration {
			return githubauth.AccountConfiguration{Username: sourceAccountLoginConstant}
		},
		ServiceResolver: func(logger *zap.Logger, sourceAccount shared.AccountHandle, targetAccount shared.AccountHandle) (*duplicates.Service, error) {
			resolvedTarget = targetAccount
			return newCommandService(testInstance, remover), nil
		},
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetArgs([]string{"--target", targetAccountLoginConstant, "--yes"})

	require.NoError(testInstance, command.Execute())
	require.Equal(testInstance, targetAccountLoginConstant, resolvedTarget.Username)
	require.Equal(testInstance, []string{"old-account/alpha"}, remover.actedRepositories)
	require.Contains(testInstance, outputBuffer.String(), "old-account/alpha == new-account/alpha")
	require.Contains(testInstance, outputBuffer.String(), "success")
}

func TestDuplicatesCommandListOnlySkipsRemoval(testInstance *testing.T) {
	testInstance.Setenv(githubauth.EnvGitHubCLIToken, commandTokenConstant)

	remover := &removerSpy{}
	builder := duplicates.CommandBuilder{
		SourceAccountProvider: func() githubauth.AccountConfiguration {
			return githubauth.AccountConfiguration{Username: sourceAccountLoginConstant}
		},
		ServiceResolver: func(logger *zap.Logger, sourceAccount shared.AccountHandle, targetAccount shared.AccountHandle) (*duplicates.Service, error) {
			return newCommandService(testInstance, remover), nil
		},
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetArgs([]string{"--target", targetAccountLoginConstant, "--list-only"})

	require.NoError(testInstance, command.Execute())
	require.Empty(testInstance, remover.actedRepositories)
	require.Contains(testInstance, outputBuffer.String(), "old-account/alpha == new-account/alpha")
}
