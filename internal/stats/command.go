package stats

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/repokeeper/internal/githubauth"
	"github.com/temirov/repokeeper/internal/platform"
	"github.com/temirov/repokeeper/internal/shared"
)

const (
	commandUseConstant                  = "stats"
	commandShortDescriptionConstant     = "Show account statistics"
	commandLongDescriptionConstant      = "stats prints the configured account's profile figures together with an aggregate summary of its repositories."
	accountResolutionErrorTemplate      = "unable to resolve account: %w"
	platformClientCreationErrorTemplate = "unable to construct platform client: %w"
	reportExecutionErrorTemplate        = "account report failed: %w"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// PlatformResolver constructs a platform client for an account.
type PlatformResolver func(account shared.AccountHandle) (PlatformOperations, error)

// CommandBuilder assembles the stats Cobra command.
type CommandBuilder struct {
	LoggerProvider   LoggerProvider
	AccountProvider  func() githubauth.AccountConfiguration
	PlatformResolver PlatformResolver
}

// Build constructs the stats command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	return &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          builder.run,
	}, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	logger := builder.resolveLogger()

	accountHandle, accountError := githubauth.NewAccountResolver(nil).ResolveAccount(builder.resolveAccountConfiguration())
	if accountError != nil {
		return fmt.Errorf(accountResolutionErrorTemplate, accountError)
	}

	platformClient, resolverError := builder.resolvePlatform(logger, accountHandle)
	if resolverError != nil {
		return fmt.Errorf(platformClientCreationErrorTemplate, resolverError)
	}

	reportingService, serviceError := NewService(logger, platformClient)
	if serviceError != nil {
		return serviceError
	}

	accountReport, reportError := reportingService.Report(command.Context())
	if reportError != nil {
		return fmt.Errorf(reportExecutionErrorTemplate, reportError)
	}

	renderedReport, renderError := RenderYAML(accountReport)
	if renderError != nil {
		return renderError
	}

	fmt.Fprint(command.OutOrStdout(), renderedReport)
	return nil
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
