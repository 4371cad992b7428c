package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	configFlagConstant                    = "--config"
	expectedListCommandNameConstant       = "list"
	expectedStatsCommandNameConstant      = "stats"
	expectedRemoveCommandNameConstant     = "remove"
	expectedTransferCommandNameConstant   = "transfer"
	expectedDuplicatesCommandNameConstant = "duplicates"
	testConfigurationFileNameConstant     = "config.yaml"
	testConfigurationContentConstant      = "common:\n  log_level: debug\n  log_format: console\naccount:\n  username: octocat\ncommands:\n  list:\n    filter: owner\n  duplicates:\n    exclusions:\n      - sandbox\n"
)

func TestNewApplicationRegistersSubcommands(testInstance *testing.T) {
	application := NewApplication()

	expectedCommandNames := []string{
		expectedListCommandNameConstant,
		expectedStatsCommandNameConstant,
		expectedRemoveCommandNameConstant,
		expectedTransferCommandNameConstant,
		expectedDuplicatesCommandNameConstant,
	}

	registeredCommandNames := map[string]bool{}
	for _, registeredCommand := range application.rootCommand.Commands() {
		registeredCommandNames[registeredCommand.Name()] = true
	}

	for _, expectedCommandName := range expectedCommandNames {
		require.True(testInstance, registeredCommandNames[expectedCommandName], expectedCommandName)
	}
}

func TestApplicationRootShowsHelpWithoutArguments(testInstance *testing.T) {
	application := NewApplication()
	outputBuffer := &bytes.Buffer{}
	application.rootCommand.SetOut(outputBuffer)
	application.rootCommand.SetErr(outputBuffer)
	application.rootCommand.SetArgs([]string{})

	require.NoError(testInstance, application.Execute())
	require.Contains(testInstance, outputBuffer.String(), applicationNameConstant)
}

func TestApplicationLoadsConfigurationFile(testInstance *testing.T) {
	configurationDirectory := testInstance.TempDir()
	configurationFilePath := filepath.Join(configurationDirectory, testConfigurationFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(testConfigurationContentConstant), 0o600))

	application := NewApplication()
	outputBuffer := &bytes.Buffer{}
	application.rootCommand.SetOut(outputBuffer)
	application.rootCommand.SetErr(outputBuffer)
	application.rootCommand.SetArgs([]string{configFlagConstant, configurationFilePath})

	require.NoError(testInstance, application.Execute())
	require.Equal(testInstance, "octocat", application.configuration.Account.Username)
	require.Equal(testInstance, "owner", application.configuration.Commands.List.Filter)
	require.Equal(testInstance, []string{"sandbox"}, application.configuration.Commands.Duplicates.Exclusions)
	require.True(testInstance, application.humanReadableLoggingEnabled())
}

func TestDefaultConfigurationValuesCoverCommands(testInstance *testing.T) {
	application := NewApplication()
	application.rootCommand.SetArgs([]string{})
	application.rootCommand.SetOut(&bytes.Buffer{})

	require.NoError(testInstance, application.Execute())
	require.Equal(testInstance, "all", application.configuration.Commands.List.Filter)
	require.Equal(testInstance, "native", application.configuration.Commands.Transfer.Strategy)
	require.False(testInstance, application.configuration.Commands.Remove.AssumeYes)
}
