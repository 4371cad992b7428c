package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	messageStandardErrorSuffixTemplate      = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	defaultWorkingDirectoryLabelConstant    = "current directory"
)

const (
	gitCloneSubcommandNameConstant      = "clone"
	gitRemoteSubcommandNameConstant     = "remote"
	gitPushSubcommandNameConstant       = "push"
	gitForEachRefSubcommandNameConstant = "for-each-ref"
	gitLSRemoteSubcommandNameConstant   = "ls-remote"
)

const (
	gitCloneStartTemplateConstant             = "Creating mirror clone in %s"
	gitCloneSuccessTemplateConstant           = "Created mirror clone in %s"
	gitCloneFailureTemplateConstant           = "Failed to create mirror clone in %s (exit code %d%s)"
	gitCloneExecutionFailureTemplateConstant  = "Unable to create mirror clone in %s: %s"
	gitRemoteStartTemplateConstant            = "Updating remote configuration in %s"
	gitRemoteSuccessTemplateConstant          = "Updated remote configuration in %s"
	gitRemoteFailureTemplateConstant          = "Failed to update remote configuration in %s (exit code %d%s)"
	gitRemoteExecutionFailureTemplate         = "Unable to update remote configuration in %s: %s"
	gitPushStartTemplateConstant              = "Pushing refs from %s"
	gitPushSuccessTemplateConstant            = "Pushed refs from %s"
	gitPushFailureTemplateConstant            = "Failed to push refs from %s (exit code %d%s)"
	gitPushExecutionFailureTemplateConstant   = "Unable to push refs from %s: %s"
	gitRefEnumerationStartTemplateConstant    = "Enumerating refs in %s"
	gitRefEnumerationSuccessTemplateConstant  = "Enumerated refs in %s"
	gitRefEnumerationFailureTemplateConstant  = "Failed to enumerate refs in %s (exit code %d%s)"
	gitRefEnumerationExecutionFailureTemplate = "Unable to enumerate refs in %s: %s"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name == CommandGit && len(command.Details.Arguments) > 0 {
		locationLabel := formatter.describeWorkingDirectory(command)

		switch command.Details.Arguments[0] {
		case gitCloneSubcommandNameConstant:
			return formatter.renderByStage(stage, locationLabel, result, failure,
				gitCloneStartTemplateConstant, gitCloneSuccessTemplateConstant, gitCloneFailureTemplateConstant, gitCloneExecutionFailureTemplateConstant)
		case gitRemoteSubcommandNameConstant:
			return formatter.renderByStage(stage, locationLabel, result, failure,
				gitRemoteStartTemplateConstant, gitRemoteSuccessTemplateConstant, gitRemoteFailureTemplateConstant, gitRemoteExecutionFailureTemplate)
		case gitPushSubcommandNameConstant:
			return formatter.renderByStage(stage, locationLabel, result, failure,
				gitPushStartTemplateConstant, gitPushSuccessTemplateConstant, gitPushFailureTemplateConstant, gitPushExecutionFailureTemplateConstant)
		case gitForEachRefSubcommandNameConstant, gitLSRemoteSubcommandNameConstant:
			return formatter.renderByStage(stage, locationLabel, result, failure,
				gitRefEnumerationStartTemplateConstant, gitRefEnumerationSuccessTemplateConstant, gitRefEnumerationFailureTemplateConstant, gitRefEnumerationExecutionFailureTemplate)
		}
	}

	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) renderByStage(stage messageStage, locationLabel string, result ExecutionResult, failure error, startTemplate string, successTemplate string, failureTemplate string, executionFailureTemplate string) string {
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(startTemplate, locationLabel)
	case messageStageSuccess:
		return fmt.Sprintf(successTemplate, locationLabel)
	case messageStageFailure:
		return fmt.Sprintf(failureTemplate, locationLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(executionFailureTemplate, locationLabel, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return ""
	}
	return fmt.Sprintf(messageStandardErrorSuffixTemplate, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	if len(command.Details.WorkingDirectory) > 0 {
		return command.Details.WorkingDirectory
	}
	return defaultWorkingDirectoryLabelConstant
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}
