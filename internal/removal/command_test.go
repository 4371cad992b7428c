package removal_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/repokeeper/internal/githubauth"
	"github.com/temirov/repokeeper/internal/removal"
	"github.com/temirov/repokeeper/internal/shared"
)

const commandTokenConstant = "command-token"

func TestRemoveCommandActsOnArguments(testInstance *testing.T) {
	testInstance.Setenv(githubauth.EnvGitHubCLIToken, commandTokenConstant)

	owned := newOwnedRepository()
	spy := &platformSpy{repositoriesByFullName: map[string]shared.RepositoryRef{owned.FullName(): owned}}

	builder := removal.CommandBuilder{
		LoggerProvider: func() *zap.Logger { return zap.NewNop() },
		AccountProvider: func() githubauth.AccountConfiguration {
			return githubauth.AccountConfiguration{Username: testOwnerLoginConstant}
		},
		PlatformResolver: func(account shared.AccountHandle) (removal.PlatformOperations, error) {
			return spy, nil
		},
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetArgs([]string{owned.FullName(), "--yes"})

	require.NoError(testInstance, command.Execute())
	require.Equal(testInstance, []string{owned.FullName()}, spy.deleteCalls)
	require.Contains(testInstance, outputBuffer.String(), "success: "+owned.FullName())
}

func TestRemoveCommandRejectsMalformedArguments(testInstance *testing.T) {
	builder := removal.CommandBuilder{
		PlatformResolver: func(account shared.AccountHandle) (removal.PlatformOperations, error) {
			return &platformSpy{}, nil
		},
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)
	command.SetOut(&bytes.Buffer{})
	command.SetArgs([]string{"just-a-name", "--yes"})

	require.Error(testInstance, command.Execute())
}
