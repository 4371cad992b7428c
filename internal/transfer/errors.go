package transfer

import (
	"errors"
	"fmt"
)

const (
	transferErrorMessageTemplateConstant    = "transfer failed during %s: %v"
	localToolErrorMessageTemplateConstant   = "%s invocation failed: %v"
	pushVerificationMessageTemplateConstant = "push verification failed: %d local refs, %d remote refs"
	pushFailureMessageTemplateConstant      = "push failed: %v"
	unknownStrategyMessageTemplateConstant  = "unsupported transfer strategy %q"
)

// TransferState names the phases a transfer moves through. Transitions are
// strictly forward; a failure in any phase moves the transfer to StateFailed
// with no automatic retry.
type TransferState string

// Transfer phases in execution order.
const (
	StateValidating     TransferState = "validating"
	StateCloning        TransferState = "cloning"
	StateRemoteUpdating TransferState = "remote_updating"
	StatePushing        TransferState = "pushing"
	StateSourceCleanup  TransferState = "source_cleanup"
	StateDone           TransferState = "done"
	StateFailed         TransferState = "failed"
)

// Configuration errors for the transfer service.
var (
	ErrSourcePlatformNotConfigured     = errors.New("transfer service requires a source platform client")
	ErrDestinationFactoryNotConfigured = errors.New("transfer service requires a destination platform factory")
	ErrGitOperationsNotConfigured      = errors.New("transfer service requires git operations")
	ErrWorkspacesNotConfigured         = errors.New("transfer service requires a workspace manager")
)

// TransferError reports the phase a transfer failed in along with the
// underlying cause.
type TransferError struct {
	State TransferState
	Cause error
}

// Error describes the failed transfer phase.
func (transferFailure TransferError) Error() string {
	return fmt.Sprintf(transferErrorMessageTemplateConstant, transferFailure.State, transferFailure.Cause)
}

// Unwrap exposes the phase failure.
func (transferFailure TransferError) Unwrap() error {
	return transferFailure.Cause
}

// LocalToolError reports a failed invocation of a local executable.
type LocalToolError struct {
	Tool  string
	Cause error
}

// Error describes the tool failure.
func (toolFailure LocalToolError) Error() string {
	return fmt.Sprintf(localToolErrorMessageTemplateConstant, toolFailure.Tool, toolFailure.Cause)
}

// Unwrap exposes the invocation failure.
func (toolFailure LocalToolError) Unwrap() error {
	return toolFailure.Cause
}

// PushError reports that pushing refs to the destination failed or that the
// destination ended up with a different ref count than the local mirror.
type PushError struct {
	LocalRefs  int
	RemoteRefs int
	Cause      error
}

// Error describes the push failure.
func (pushFailure PushError) Error() string {
	if pushFailure.Cause != nil {
		return fmt.Sprintf(pushFailureMessageTemplateConstant, pushFailure.Cause)
	}
	return fmt.Sprintf(pushVerificationMessageTemplateConstant, pushFailure.LocalRefs, pushFailure.RemoteRefs)
}

// Unwrap exposes the underlying push failure, if any.
func (pushFailure PushError) Unwrap() error {
	return pushFailure.Cause
}

// UnknownStrategyError reports a transfer plan naming a strategy the
// service does not implement.
type UnknownStrategyError struct {
	Strategy string
}

// Error describes the unsupported strategy.
func (strategyFailure UnknownStrategyError) Error() string {
	return fmt.Sprintf(unknownStrategyMessageTemplateConstant, strategyFailure.Strategy)
}
