package transfer

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/repokeeper/internal/execshell"
	"github.com/temirov/repokeeper/internal/githubauth"
	"github.com/temirov/repokeeper/internal/platform"
	"github.com/temirov/repokeeper/internal/shared"
	flagutils "github.com/temirov/repokeeper/internal/utils/flags"
	pathutils "github.com/temirov/repokeeper/internal/utils/path"
)

const (
	commandUseConstant                          = "transfer owner/name"
	commandShortDescriptionConstant             = "Move repository ownership to another account"
	commandLongDescriptionConstant              = "transfer moves one repository to the destination account, either through the platform transfer endpoint or by mirroring every ref into a freshly created repository."
	destinationFlagNameConstant                 = "to"
	destinationFlagUsageConstant                = "Destination account username."
	strategyFlagNameConstant                    = "strategy"
	strategyFlagDescriptionConstant             = "Transfer strategy."
	deleteSourceFlagNameConstant                = "delete-source"
	deleteSourceFlagUsageConstant               = "Delete the source repository after a successful mirror transfer."
	assumeYesFlagNameConstant                   = "yes"
	assumeYesFlagUsageConstant                  = "Skip the transfer confirmation prompt."
	transferPromptTemplateConstant              = "Transfer %s to %s?"
	notConfirmedDetailConstant                  = "not confirmed"
	destinationTokenSourceFlagNameConstant      = "dest-token-source"
	destinationTokenSourceFlagUsageConstant     = "Token source for the destination account (env:NAME or file:PATH)."
	accountResolutionErrorTemplate              = "unable to resolve source account: %w"
	destinationResolutionErrorTemplate          = "unable to resolve destination account: %w"
	platformClientCreationErrorTemplate         = "unable to construct platform client: %w"
	shellExecutorCreationErrorTemplate          = "unable to construct shell executor: %w"
	repositoryArgumentTemplateConstant          = "repository argument %q must use the owner/name form"
	outcomeLineTemplateConstant                 = "%s: %s (%s)\n"
	repositoryNameSeparatorConstant             = "/"
	expectedRepositoryArgumentPartsConstant     = 2
	configurationStrategyKeySuffixConstant      = ".strategy"
	configurationWorkspaceKeySuffixConstant     = ".workspace_root"
	configurationDestinationUserSuffixConstant  = ".destination.username"
	configurationDestinationTokenSuffixConstant = ".destination.token_source"
)

// CommandConfiguration stores persisted settings for the transfer command.
type CommandConfiguration struct {
	Strategy      string                          `mapstructure:"strategy"`
	WorkspaceRoot string                          `mapstructure:"workspace_root"`
	Destination   githubauth.AccountConfiguration `mapstructure:"destination"`
}

// DefaultConfigurationValues returns the configuration defaults registered
// under the provided key prefix.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	return map[string]any{
		configurationKeyPrefix + configurationStrategyKeySuffixConstant:      string(shared.TransferStrategyNative),
		configurationKeyPrefix + configurationWorkspaceKeySuffixConstant:     "",
		configurationKeyPrefix + configurationDestinationUserSuffixConstant:  "",
		configurationKeyPrefix + configurationDestinationTokenSuffixConstant: "",
	}
}

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// PlanExecutor runs transfer plans.
type PlanExecutor interface {
	Execute(executionContext context.Context, plan shared.TransferPlan) (shared.OperationOutcome, error)
}

// ExecutorResolver constructs a plan executor for the source account.
type ExecutorResolver func(logger *zap.Logger, sourceAccount shared.AccountHandle, workspaceRoot string) (PlanExecutor, error)

// CommandBuilder assembles the transfer Cobra command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        func() CommandConfiguration
	SourceAccountProvider        func() githubauth.AccountConfiguration
	ExecutorResolver             ExecutorResolver
	HumanReadableLoggingProvider func() bool
	Prompter                     shared.ConfirmationPrompter
}

// Build constructs the transfer command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.ExactArgs(1),
		RunE:          builder.run,
	}

	command.Flags().String(destinationFlagNameConstant, "", destinationFlagUsageConstant)
	strategyUsage := flagutils.FormatChoiceUsage(
		string(shared.TransferStrategyNative),
		[]string{string(shared.TransferStrategyNative), string(shared.TransferStrategyMirror)},
		strategyFlagDescriptionConstant,
	)
	command.Flags().String(strategyFlagNameConstant, "", strategyUsage)
	command.Flags().Bool(deleteSourceFlagNameConstant, false, deleteSourceFlagUsageConstant)
	command.Flags().Bool(assumeYesFlagNameConstant, false, assumeYesFlagUsageConstant)
	command.Flags().String(destinationTokenSourceFlagNameConstant, "", destinationTokenSourceFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	logger := builder.resolveLogger()
	configuration := builder.resolveConfiguration()

	sourceRepository, argumentError := parseRepositoryArgument(arguments[0])
	if argumentError != nil {
		return argumentError
	}

	sourceAccount, sourceError := githubauth.NewAccountResolver(nil).ResolveAccount(builder.resolveSourceAccountConfiguration())
	if sourceError != nil {
		return fmt.Errorf(accountResolutionErrorTemplate, sourceError)
	}

	destinationAccount, destinationError := builder.resolveDestinationAccount(command, configuration)
	if destinationError != nil {
		return fmt.Errorf(destinationResolutionErrorTemplate, destinationError)
	}

	transferPlan := shared.TransferPlan{
		Source:             sourceRepository,
		DestinationAccount: destinationAccount,
		DeleteSourceAfter:  builder.resolveDeleteSource(command),
		Strategy:           builder.resolveStrategy(command, configuration),
	}

	if !builder.confirmTransfer(command, transferPlan) {
		skippedOutcome := shared.NewOperationOutcome(shared.OutcomeSkipped, sourceRepository, notConfirmedDetailConstant)
		fmt.Fprintf(command.OutOrStdout(), outcomeLineTemplateConstant, skippedOutcome.Status, skippedOutcome.FullName, skippedOutcome.Detail)
		return nil
	}

	workspaceRoot := pathutils.NewHomeExpander().Expand(configuration.WorkspaceRoot)
	planExecutor, resolverError := builder.resolveExecutor(logger, sourceAccount, workspaceRoot)
	if resolverError != nil {
		return resolverError
	}

	outcome, executeError := planExecutor.Execute(command.Context(), transferPlan)
	fmt.Fprintf(command.OutOrStdout(), outcomeLineTemplateConstant, outcome.Status, outcome.FullName, outcome.Detail)
	return executeError
}

func parseRepositoryArgument(argument string) (shared.RepositoryRef, error) {
	components := strings.SplitN(strings.TrimSpace(argument), repositoryNameSeparatorConstant, expectedRepositoryArgumentPartsConstant)
	if len(components) != expectedRepositoryArgumentPartsConstant || len(components[0]) == 0 || len(components[1]) == 0 {
		return shared.RepositoryRef{}, fmt.Errorf(repositoryArgumentTemplateConstant, argument)
	}
	return shared.RepositoryRef{Owner: components[0], Name: components[1]}, nil
}

func (builder *CommandBuilder) resolveDestinationAccount(command *cobra.Command, configuration CommandConfiguration) (shared.AccountHandle, error) {
	destinationConfiguration := configuration.Destination
	if destinationUsername, _ := command.Flags().GetString(destinationFlagNameConstant); len(destinationUsername) > 0 {
		destinationConfiguration.Username = destinationUsername
	}
	if destinationTokenSource, _ := command.Flags().GetString(destinationTokenSourceFlagNameConstant); len(destinationTokenSource) > 0 {
		destinationConfiguration.TokenSource = destinationTokenSource
	}
	return githubauth.NewAccountResolver(nil).ResolveAccount(destinationConfiguration)
}

func (builder *CommandBuilder) resolveStrategy(command *cobra.Command, configuration CommandConfiguration) shared.TransferStrategy {
	strategyValue, _ := command.Flags().GetString(strategyFlagNameConstant)
	if len(strategyValue) == 0 {
		strategyValue = configuration.Strategy
	}
	if len(strategyValue) == 0 {
		return shared.TransferStrategyNative
	}
	return shared.TransferStrategy(strings.ToLower(strings.TrimSpace(strategyValue)))
}

func (builder *CommandBuilder) confirmTransfer(command *cobra.Command, plan shared.TransferPlan) bool {
	assumeYes, _ := command.Flags().GetBool(assumeYesFlagNameConstant)
	if assumeYes {
		return true
	}

	prompter := builder.Prompter
	if prompter == nil {
		prompter = shared.NewIOConfirmationPrompter(command.InOrStdin(), command.OutOrStdout())
	}
	confirmed, promptError := prompter.Confirm(fmt.Sprintf(transferPromptTemplateConstant, plan.Source.FullName(), plan.DestinationAccount.Username))
	if promptError != nil {
		return false
	}
	return confirmed
}

func (builder *CommandBuilder) resolveDeleteSource(command *cobra.Command) bool {
	deleteSource, _ := command.Flags().GetBool(deleteSourceFlagNameConstant)
	return deleteSource
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return CommandConfiguration{}
	}
	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) resolveSourceAccountConfiguration() githubauth.AccountConfiguration {
	if builder.SourceAccountProvider == nil {
		return githubauth.AccountConfiguration{}
	}
	return builder.SourceAccountProvider()
}

func (builder *CommandBuilder) resolveExecutor(logger *zap.Logger, sourceAccount shared.AccountHandle, workspaceRoot string) (PlanExecutor, error) {
	if builder.ExecutorResolver != nil {
		return builder.ExecutorResolver(logger, sourceAccount, workspaceRoot)
	}

	sourceClient, sourceClientError := platform.NewClient(logger, sourceAccount)
	if sourceClientError != nil {
		return nil, fmt.Errorf(platformClientCreationErrorTemplate, sourceClientError)
	}

	destinationFactory := func(account shared.AccountHandle) (DestinationPlatform, error) {
		return platform.NewClient(logger, account)
	}

	shellExecutor, executorError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner(), builder.humanReadableLoggingEnabled())
	if executorError != nil {
		return nil, fmt.Errorf(shellExecutorCreationErrorTemplate, executorError)
	}

	gitWorkflow, workflowError := NewGitWorkflow(shellExecutor)
	if workflowError != nil {
		return nil, workflowError
	}

	return NewService(logger, sourceClient, destinationFactory, gitWorkflow, NewWorkspaceManager(workspaceRoot))
}

func (builder *CommandBuilder) humanReadableLoggingEnabled() bool {
	if builder.HumanReadableLoggingProvider == nil {
		return false
	}
	return builder.HumanReadableLoggingProvider()
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
