package removal

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/repokeeper/internal/githubauth"
	"github.com/temirov/repokeeper/internal/platform"
	"github.com/temirov/repokeeper/internal/shared"
)

const (
	commandUseConstant                      = "remove owner/name [owner/name...]"
	commandShortDescriptionConstant         = "Delete owned repositories or leave collaborations"
	commandLongDescriptionConstant          = "remove takes the named repositories out of the configured account. Owned repositories are deleted from the platform; repositories the account only collaborates on are left instead."
	assumeYesFlagNameConstant               = "yes"
	assumeYesFlagUsageConstant              = "Skip per-repository confirmation prompts."
	accountResolutionErrorTemplate          = "unable to resolve account: %w"
	platformClientCreationErrorTemplate     = "unable to construct platform client: %w"
	repositoryArgumentTemplateConstant      = "repository argument %q must use the owner/name form"
	outcomeLineTemplateConstant             = "%s: %s (%s)\n"
	repositoryNameSeparatorConstant         = "/"
	configurationAssumeYesKeySuffixConstant = ".assume_yes"
	expectedRepositoryArgumentPartsConstant = 2
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandConfiguration stores persisted settings for the remove command.
type CommandConfiguration struct {
	AssumeYes bool `mapstructure:"assume_yes"`
}

// DefaultConfigurationValues returns the configuration defaults registered
// under the provided key prefix.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	return map[string]any{
		configurationKeyPrefix + configurationAssumeYesKeySuffixConstant: false,
	}
}

// PlatformResolver constructs platform operations for an account.
type PlatformResolver func(account shared.AccountHandle) (PlatformOperations, error)

// CommandBuilder assembles the remove Cobra command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	AccountProvider       func() githubauth.AccountConfiguration
	PlatformResolver      PlatformResolver
	Prompter              shared.ConfirmationPrompter
}

// Build constructs the remove command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.MinimumNArgs(1),
		RunE:          builder.run,
	}

	command.Flags().Bool(assumeYesFlagNameConstant, false, assumeYesFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	logger := builder.resolveLogger()

	repositories, parseError := parseRepositoryArguments(arguments)
	if parseError != nil {
		return parseError
	}

	accountHandle, accountError := githubauth.NewAccountResolver(nil).ResolveAccount(builder.resolveAccountConfiguration())
	if accountError != nil {
		return fmt.Errorf(accountResolutionErrorTemplate, accountError)
	}

	platformClient, resolverError := builder.resolvePlatform(logger, accountHandle)
	if resolverError != nil {
		return fmt.Errorf(platformClientCreationErrorTemplate, resolverError)
	}

	coordinator, coordinatorError := NewCoordinator(logger, platformClient)
	if coordinatorError != nil {
		return coordinatorError
	}

	outcomes := coordinator.ActOnAll(command.Context(), repositories, builder.resolvePolicy(command), builder.resolvePrompter(command))
	for _, outcome := range outcomes {
		fmt.Fprintf(command.OutOrStdout(), outcomeLineTemplateConstant, outcome.Status, outcome.FullName, outcome.Detail)
	}
	return nil
}

func parseRepositoryArguments(arguments []string) ([]shared.RepositoryRef, error) {
	repositories := make([]shared.RepositoryRef, 0, len(arguments))
	for _, argument := range arguments {
		components := strings.SplitN(strings.TrimSpace(argument), repositoryNameSeparatorConstant, expectedRepositoryArgumentPartsConstant)
		if len(components) != expectedRepositoryArgumentPartsConstant || len(components[0]) == 0 || len(components[1]) == 0 {
			return nil, fmt.Errorf(repositoryArgumentTemplateConstant, argument)
		}
		repositories = append(repositories, shared.RepositoryRef{Owner: components[0], Name: components[1]})
	}
	return repositories, nil
}

func (builder *CommandBuilder) resolvePolicy(command *cobra.Command) shared.ConfirmationPolicy {
	assumeYes, _ := command.Flags().GetBool(assumeYesFlagNameConstant)
	if !assumeYes && builder.ConfigurationProvider != nil {
		assumeYes = builder.ConfigurationProvider().AssumeYes
	}
	return shared.ConfirmationPolicyFromBool(assumeYes)
}

func (builder *CommandBuilder) resolvePrompter(command *cobra.Command) shared.ConfirmationPrompter {
	if builder.Prompter != nil {
		return builder.Prompter
	}
	return shared.NewIOConfirmationPrompter(command.InOrStdin(), command.OutOrStdout())
}

func (builder *CommandBuilder) resolveAccountConfiguration() githubauth.AccountConfiguration {
	if builder.AccountProvider == nil {
		return githubauth.AccountConfiguration{}
	}
	return builder.AccountProvider()
}

func (builder *CommandBuilder) resolvePlatform(logger *zap.Logger, account shared.AccountHandle) (PlatformOperations, error) {
	if builder.PlatformResolver != nil {
		return builder.PlatformResolver(account)
	}
	return platform.NewClient(logger, account)
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	if logger := builder.LoggerProvider(); logger != nil {
		return logger
	}
	return zap.NewNop()
}
