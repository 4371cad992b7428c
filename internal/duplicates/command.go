package duplicates

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/repokeeper/internal/githubauth"
	"github.com/temirov/repokeeper/internal/platform"
	"github.com/temirov/repokeeper/internal/removal"
	"github.com/temirov/repokeeper/internal/shared"
)

const (
	commandUseConstant                           = "duplicates"
	commandShortDescriptionConstant              = "Reconcile repositories duplicated across two accounts"
	commandLongDescriptionConstant               = "duplicates pairs the source account's repositories with same-named repositories in the target account and, unless run with --list-only, deletes the source copy of each confirmed pair."
	targetFlagNameConstant                       = "target"
	targetFlagUsageConstant                      = "Target account username."
	targetTokenSourceFlagNameConstant            = "target-token-source"
	targetTokenSourceFlagUsageConstant           = "Token source for the target account (env:NAME or file:PATH)."
	excludeFlagNameConstant                      = "exclude"
	excludeFlagUsageConstant                     = "Repository name to leave alone (repeatable)."
	listOnlyFlagNameConstant                     = "list-only"
	listOnlyFlagUsageConstant                    = "Identify duplicate pairs without removing anything."
	assumeYesFlagNameConstant                    = "yes"
	assumeYesFlagUsageConstant                   = "Skip per-pair confirmation prompts."
	sourceAccountResolutionErrorTemplate         = "unable to resolve source account: %w"
	targetAccountResolutionErrorTemplate         = "unable to resolve target account: %w"
	platformClientCreationErrorTemplate          = "unable to construct platform client: %w"
	duplicatePairLineTemplateConstant            = "%s == %s\n"
	outcomeLineTemplateConstant                  = "%s: %s (%s)\n"
	noDuplicatesMessageConstant                  = "No duplicate repositories found."
	configurationAssumeYesKeySuffixConstant      = ".assume_yes"
	configurationExclusionsKeySuffixConstant     = ".exclusions"
	configurationTargetUsernameKeySuffixConstant = ".target.username"
	configurationTargetTokenKeySuffixConstant    = ".target.token_source"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandConfiguration stores persisted settings for the duplicates command.
type CommandConfiguration struct {
	Exclusions []string                        `mapstructure:"exclusions"`
	AssumeYes  bool                            `mapstructure:"assume_yes"`
	Target     githubauth.AccountConfiguration `mapstructure:"target"`
}

// DefaultConfigurationValues returns the configuration defaults registered
// under the provided key prefix.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	return map[string]any{
		configurationKeyPrefix + configurationAssumeYesKeySuffixConstant:      false,
		configurationKeyPrefix + configurationExclusionsKeySuffixConstant:     []string{},
		configurationKeyPrefix + configurationTargetUsernameKeySuffixConstant: "",
		configurationKeyPrefix + configurationTargetTokenKeySuffixConstant:    "",
	}
}

// ServiceResolver constructs a reconciliation service over the two accounts.
type ServiceResolver func(logger *zap.Logger, sourceAccount shared.AccountHandle, targetAccount shared.AccountHandle) (*Service, error)

// CommandBuilder assembles the duplicates Cobra command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	SourceAccountProvider func() githubauth.AccountConfiguration
	ServiceResolver       ServiceResolver
	Prompter              shared.ConfirmationPrompter
}

// Build constructs the duplicates command.
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

	command.Flags().String(targetFlagNameConstant, "", targetFlagUsageConstant)
	command.Flags().String(targetTokenSourceFlagNameConstant, "", targetTokenSourceFlagUsageConstant)
	command.Flags().StringSlice(excludeFlagNameConstant, nil, excludeFlagUsageConstant)
	command.Flags().Bool(listOnlyFlagNameConstant, false, listOnlyFlagUsageConstant)
	command.Flags().Bool(assumeYesFlagNameConstant, false, assumeYesFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	logger := builder.resolveLogger()
	configuration := builder.resolveConfiguration()

	sourceAccount, sourceError := githubauth.NewAccountResolver(nil).ResolveAccount(builder.resolveSourceAccountConfiguration())
	if sourceError != nil {
		return fmt.Errorf(sourceAccountResolutionErrorTemplate, sourceError)
	}

	targetAccount, targetError := builder.resolveTargetAccount(command, configuration)
	if targetError != nil {
		return fmt.Errorf(targetAccountResolutionErrorTemplate, targetError)
	}

	service, serviceError := builder.resolveService(logger, sourceAccount, targetAccount)
	if serviceError != nil {
		return serviceError
	}

	exclusions := builder.resolveExclusions(command, configuration)

	listOnly, _ := command.Flags().GetBool(listOnlyFlagNameConstant)
	if listOnly {
		duplicateSet, identifyError := service.Identify(command.Context(), exclusions)
		if identifyError != nil {
			return identifyError
		}
		builder.printDuplicates(command, duplicateSet)
		return nil
	}

	report, reconcileError := service.Reconcile(command.Context(), ReconcileOptions{
		Exclusions: exclusions,
		Policy:     builder.resolvePolicy(command, configuration),
		Prompter:   builder.resolvePrompter(command),
	})
	if reconcileError != nil {
		return reconcileError
	}

	builder.printDuplicates(command, report.Duplicates)
	for _, outcome := range report.Outcomes {
		fmt.Fprintf(command.OutOrStdout(), outcomeLineTemplateConstant, outcome.Status, outcome.FullName, outcome.Detail)
	}
	return nil
}

func (builder *CommandBuilder) printDuplicates(command *cobra.Command, duplicateSet shared.DuplicateSet) {
	if len(duplicateSet) == 0 {
		fmt.Fprintln(command.OutOrStdout(), noDuplicatesMessageConstant)
		return
	}
	for _, duplicatePair := range duplicateSet {
		fmt.Fprintf(command.OutOrStdout(), duplicatePairLineTemplateConstant, duplicatePair.Source.FullName(), duplicatePair.Counterpart.FullName())
	}
}

func (builder *CommandBuilder) resolveTargetAccount(command *cobra.Command, configuration CommandConfiguration) (shared.AccountHandle, error) {
	targetConfiguration := configuration.Target
	if targetUsername, _ := command.Flags().GetString(targetFlagNameConstant); len(targetUsername) > 0 {
		targetConfiguration.Username = targetUsername
	}
	if targetTokenSource, _ := command.Flags().GetString(targetTokenSourceFlagNameConstant); len(targetTokenSource) > 0 {
		targetConfiguration.TokenSource = targetTokenSource
	}
	return githubauth.NewAccountResolver(nil).ResolveAccount(targetConfiguration)
}

func (builder *CommandBuilder) resolveExclusions(command *cobra.Command, configuration CommandConfiguration) []string {
	exclusions, _ := command.Flags().GetStringSlice(excludeFlagNameConstant)
	if len(exclusions) == 0 {
		exclusions = configuration.Exclusions
	}
	return exclusions
}

func (builder *CommandBuilder) resolvePolicy(command *cobra.Command, configuration CommandConfiguration) shared.ConfirmationPolicy {
	assumeYes, _ := command.Flags().GetBool(assumeYesFlagNameConstant)
	if !assumeYes {
		assumeYes = configuration.AssumeYes
	}
	return shared.ConfirmationPolicyFromBool(assumeYes)
}

func (builder *CommandBuilder) resolvePrompter(command *cobra.Command) shared.ConfirmationPrompter {
	if builder.Prompter != nil {
		return builder.Prompter
	}
	return shared.NewIOConfirmationPrompter(command.InOrStdin(), command.OutOrStdout())
}

func (builder *CommandBuilder) resolveService(logger *zap.Logger, sourceAccount shared.AccountHandle, targetAccount shared.AccountHandle) (*Service, error) {
	if builder.ServiceResolver != nil {
		return builder.ServiceResolver(logger, sourceAccount, targetAccount)
	}

	sourceClient, sourceClientError := platform.NewClient(logger, sourceAccount)
	if sourceClientError != nil {
		return nil, fmt.Errorf(platformClientCreationErrorTemplate, sourceClientError)
	}
	targetClient, targetClientError := platform.NewClient(logger, targetAccount)
	if targetClientError != nil {
		return nil, fmt.Errorf(platformClientCreationErrorTemplate, targetClientError)
	}

	coordinator, coordinatorError := removal.NewCoordinator(logger, sourceClient)
	if coordinatorError != nil {
		return nil, coordinatorError
	}

	return NewService(logger, sourceClient, targetClient, coordinator)
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

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	if logger := builder.LoggerProvider(); logger != nil {
		return logger
	}
	return zap.NewNop()
}
