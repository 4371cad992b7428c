package transfer

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/temirov/repokeeper/internal/execshell"
)

const (
	gitToolNameConstant           = "git"
	cloneSubcommandConstant       = "clone"
	mirrorFlagConstant            = "--mirror"
	remoteSubcommandConstant      = "remote"
	setURLSubcommandConstant      = "set-url"
	originRemoteNameConstant      = "origin"
	pushSubcommandConstant        = "push"
	forEachRefSubcommandConstant  = "for-each-ref"
	refNameFormatFlagConstant     = "--format=%(refname)"
	lsRemoteSubcommandConstant    = "ls-remote"
	refsOnlyFlagConstant          = "--refs"
	defaultCommandTimeoutConstant = 10 * time.Minute
)

// ErrCommandExecutorNotConfigured indicates the git workflow was built
// without a shell executor.
var ErrCommandExecutorNotConfigured = errors.New("git workflow requires a command executor")

// CommandExecutor runs git commands through the shell layer.
type CommandExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// GitOperations covers the git interactions a mirror transfer performs.
type GitOperations interface {
	CloneMirror(executionContext context.Context, cloneURL string, destinationPath string) error
	SetRemoteURL(executionContext context.Context, repositoryPath string, remoteURL string) error
	PushMirror(executionContext context.Context, repositoryPath string) error
	CountLocalRefs(executionContext context.Context, repositoryPath string) (int, error)
	CountRemoteRefs(executionContext context.Context, repositoryPath string) (int, error)
}

// GitWorkflow implements GitOperations on top of the shell executor. Every
// git invocation runs under a bounded timeout so a hung clone or push cannot
// stall a transfer indefinitely.
type GitWorkflow struct {
	executor       CommandExecutor
	commandTimeout time.Duration
}

// GitWorkflowOption adjusts workflow construction.
type GitWorkflowOption func(*GitWorkflow)

// WithCommandTimeout overrides the per-command git timeout.
func WithCommandTimeout(commandTimeout time.Duration) GitWorkflowOption {
	return func(workflow *GitWorkflow) {
		if commandTimeout > 0 {
			workflow.commandTimeout = commandTimeout
		}
	}
}

// NewGitWorkflow builds the git workflow.
func NewGitWorkflow(executor CommandExecutor, options ...GitWorkflowOption) (*GitWorkflow, error) {
	if executor == nil {
		return nil, ErrCommandExecutorNotConfigured
	}
	workflow := &GitWorkflow{executor: executor, commandTimeout: defaultCommandTimeoutConstant}
	for _, option := range options {
		option(workflow)
	}
	return workflow, nil
}

func (workflow *GitWorkflow) runGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	boundedContext, cancelFunction := context.WithTimeout(executionContext, workflow.commandTimeout)
	defer cancelFunction()
	return workflow.executor.ExecuteGit(boundedContext, details)
}

// CloneMirror creates a bare mirror clone of cloneURL at destinationPath.
func (workflow *GitWorkflow) CloneMirror(executionContext context.Context, cloneURL string, destinationPath string) error {
	details := execshell.CommandDetails{Arguments: []string{cloneSubcommandConstant, mirrorFlagConstant, cloneURL, destinationPath}}
	if _, executionError := workflow.runGit(executionContext, details); executionError != nil {
		return LocalToolError{Tool: gitToolNameConstant, Cause: executionError}
	}
	return nil
}

// SetRemoteURL points the mirror's origin remote at remoteURL.
func (workflow *GitWorkflow) SetRemoteURL(executionContext context.Context, repositoryPath string, remoteURL string) error {
	details := execshell.CommandDetails{
		Arguments:        []string{remoteSubcommandConstant, setURLSubcommandConstant, originRemoteNameConstant, remoteURL},
		WorkingDirectory: repositoryPath,
	}
	if _, executionError := workflow.runGit(executionContext, details); executionError != nil {
		return LocalToolError{Tool: gitToolNameConstant, Cause: executionError}
	}
	return nil
}

// PushMirror pushes every ref in the mirror to its origin remote.
func (workflow *GitWorkflow) PushMirror(executionContext context.Context, repositoryPath string) error {
	details := execshell.CommandDetails{
		Arguments:        []string{pushSubcommandConstant, mirrorFlagConstant, originRemoteNameConstant},
		WorkingDirectory: repositoryPath,
	}
	if _, executionError := workflow.runGit(executionContext, details); executionError != nil {
		return PushError{Cause: executionError}
	}
	return nil
}

// CountLocalRefs counts the refs present in the local mirror.
func (workflow *GitWorkflow) CountLocalRefs(executionContext context.Context, repositoryPath string) (int, error) {
	details := execshell.CommandDetails{
		Arguments:        []string{forEachRefSubcommandConstant, refNameFormatFlagConstant},
		WorkingDirectory: repositoryPath,
	}
	executionResult, executionError := workflow.runGit(executionContext, details)
	if executionError != nil {
		return 0, LocalToolError{Tool: gitToolNameConstant, Cause: executionError}
	}
	return countNonEmptyLines(executionResult.StandardOutput), nil
}

// CountRemoteRefs counts the refs visible on the mirror's origin remote.
func (workflow *GitWorkflow) CountRemoteRefs(executionContext context.Context, repositoryPath string) (int, error) {
	details := execshell.CommandDetails{
		Arguments:        []string{lsRemoteSubcommandConstant, refsOnlyFlagConstant, originRemoteNameConstant},
		WorkingDirectory: repositoryPath,
	}
	executionResult, executionError := workflow.runGit(executionContext, details)
	if executionError != nil {
		return 0, LocalToolError{Tool: gitToolNameConstant, Cause: executionError}
	}
	return countNonEmptyLines(executionResult.StandardOutput), nil
}

func countNonEmptyLines(commandOutput string) int {
	lineCount := 0
	for _, outputLine := range strings.Split(commandOutput, "\n") {
		if len(strings.TrimSpace(outputLine)) > 0 {
			lineCount++
		}
	}
	return lineCount
}
