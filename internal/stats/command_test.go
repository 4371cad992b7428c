package stats_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/repokeeper/internal/githubauth"
	"github.com/temirov/repokeeper/internal/shared"
	"github.com/temirov/repokeeper/internal/stats"
)

const commandTokenConstant = "command-token"

func TestStatsCommandPrintsYAMLReport(testInstance *testing.T) {
	testInstance.Setenv(githubauth.EnvGitHubCLIToken, commandTokenConstant)

	stub := &reportingPlatformStub{
		repositories: []shared.RepositoryRef{{Owner: reportAccountLoginConstant, Name: "widget", Role: shared.RoleOwner}},
		statistics:   shared.AccountStatistics{Login: reportAccountLoginConstant, Followers: 8},
	}

	builder := stats.CommandBuilder{
		LoggerProvider: func() *zap.Logger { return zap.NewNop() },
		AccountProvider: func() githubauth.AccountConfiguration {
			return githubauth.AccountConfiguration{Username: reportAccountLoginConstant}
		},
		PlatformResolver: func(account shared.AccountHandle) (stats.PlatformOperations, error) {
			return stub, nil
		},
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetArgs([]string{})

	require.NoError(testInstance, command.Execute())
	require.Contains(testInstance, outputBuffer.String(), "login: "+reportAccountLoginConstant)
	require.Contains(testInstance, outputBuffer.String(), "followers: 8")
	require.Contains(testInstance, outputBuffer.String(), "total: 1")
}
