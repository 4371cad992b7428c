package listing

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/repokeeper/internal/githubauth"
	"github.com/temirov/repokeeper/internal/platform"
	"github.com/temirov/repokeeper/internal/shared"
	flagutils "github.com/temirov/repokeeper/internal/utils/flags"
)

const (
	commandUseConstant                   = "list"
	commandShortDescriptionConstant      = "List the account's repositories"
	commandLongDescriptionConstant       = "list enumerates every repository the configured account owns or collaborates on and renders them as a table."
	filterFlagNameConstant               = "filter"
	filterFlagDescriptionConstant        = "Restrict the listing to one relationship."
	accountResolutionErrorTemplate       = "unable to resolve account: %w"
	platformClientCreationErrorTemplate  = "unable to construct platform client: %w"
	listingExecutionErrorTemplate        = "repository listing failed: %w"
	configurationFilterKeySuffixConstant = ".filter"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandConfiguration stores persisted settings for the list command.
type CommandConfiguration struct {
	Filter string `mapstructure:"filter"`
}

// DefaultConfigurationValues returns the configuration defaults registered
// under the provided key prefix.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	return map[string]any{
		configurationKeyPrefix + configurationFilterKeySuffixConstant: string(shared.FilterAll),
	}
}

// PlatformResolver constructs a repository lister for an account.
type PlatformResolver func(account shared.AccountHandle) (RepositoryLister, error)

// CommandBuilder assembles the list Cobra command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	AccountProvider       func() githubauth.AccountConfiguration
	PlatformResolver      PlatformResolver
	ColorEnabledProvider  func() bool
}

// Build constructs the list command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          builder.run,
	}

	filterUsage := flagutils.FormatChoiceUsage(
		string(shared.FilterAll),
		[]string{string(shared.FilterAll), string(shared.FilterOwner), string(shared.FilterCollaborator)},
		filterFlagDescriptionConstant,
	)
	command.Flags().String(filterFlagNameConstant, "", filterUsage)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	logger := builder.resolveLogger()

	filterValue, filterError := builder.resolveFilter(command)
	if filterError != nil {
		return filterError
	}

	accountHandle, accountError := githubauth.NewAccountResolver(nil).ResolveAccount(builder.resolveAccountConfiguration())
	if accountError != nil {
		return fmt.Errorf(accountResolutionErrorTemplate, accountError)
	}

	repositoryLister, resolverError := builder.resolvePlatform(logger, accountHandle)
	if resolverError != nil {
		return fmt.Errorf(platformClientCreationErrorTemplate, resolverError)
	}

	listingService, serviceError := NewService(logger, repositoryLister)
	if serviceError != nil {
		return serviceError
	}

	repositories, listError := listingService.List(command.Context(), filterValue)
	if listError != nil {
		return fmt.Errorf(listingExecutionErrorTemplate, listError)
	}

	renderer := NewTableRenderer(builder.resolveColorEnabled())
	fmt.Fprintln(command.OutOrStdout(), renderer.Render(repositories))
	return nil
}

func (builder *CommandBuilder) resolveFilter(command *cobra.Command) (shared.RepositoryFilter, error) {
	filterValue, _ := command.Flags().GetString(filterFlagNameConstant)
	if len(filterValue) == 0 && builder.ConfigurationProvider != nil {
		filterValue = builder.ConfigurationProvider().Filter
	}
	if len(filterValue) == 0 {
		return shared.FilterAll, nil
	}
	return shared.ParseRepositoryFilter(filterValue)
}

func (builder *CommandBuilder) resolveAccountConfiguration() githubauth.AccountConfiguration {
	if builder.AccountProvider == nil {
		return githubauth.AccountConfiguration{}
	}
	return builder.AccountProvider()
}

func (builder *CommandBuilder) resolvePlatform(logger *zap.Logger, account shared.AccountHandle) (RepositoryLister, error) {
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

func (builder *CommandBuilder) resolveColorEnabled() bool {
	if builder.ColorEnabledProvider != nil {
		return builder.ColorEnabledProvider()
	}
	return IsInteractiveTerminal(os.Stdout)
}
