package transfer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/repokeeper/internal/platform"
	"github.com/temirov/repokeeper/internal/shared"
)

const (
	mirrorDirectoryNameTemplateConstant      = "%s.git"
	nativeTransferDetailConstant             = "ownership transfer initiated"
	mirrorTransferDetailTemplateConstant     = "repository mirrored to %s"
	sourceDeletedDetailFragmentConstant      = "source deleted"
	cleanupFailedDetailTemplateConstant      = "transfer succeeded, source cleanup failed: %v"
	detailSeparatorConstant                  = ", "
	missingSourceOwnerMessageConstant        = "transfer plan is missing the source owner"
	missingSourceNameMessageConstant         = "transfer plan is missing the source repository name"
	missingDestinationMessageConstant        = "transfer plan is missing the destination username"
	nativeDeleteSourceMessageConstant        = "native transfers move the source repository; delete-source does not apply"
	notOwnedMessageTemplateConstant          = "repository %s is not owned by the source account"
	logMessageTransferStateConstant          = "Transfer state changed"
	logMessageWorkspaceRemovalFailedConstant = "Transfer workspace removal failed"
	logMessageTransferCompletedConstant      = "Transfer completed"
	logFieldTransferStateConstant            = "state"
	logFieldRepositoryConstant               = "repository"
	logFieldDestinationConstant              = "destination"
	logFieldWorkspaceConstant                = "workspace"
	logFieldStrategyConstant                 = "strategy"
	logFieldRefCountConstant                 = "ref_count"
)

// SourcePlatform covers the source account calls a transfer performs.
type SourcePlatform interface {
	GetRepository(executionContext context.Context, owner string, name string) (shared.RepositoryRef, error)
	InitiateTransfer(executionContext context.Context, owner string, name string, newOwner string) error
	DeleteRepository(executionContext context.Context, owner string, name string) error
	AuthenticatedCloneURL(owner string, name string) string
}

// DestinationPlatform covers the destination account calls a mirror
// transfer performs.
type DestinationPlatform interface {
	CreateRepository(executionContext context.Context, name string, private bool) (shared.RepositoryRef, error)
	AuthenticatedCloneURL(owner string, name string) string
}

// DestinationPlatformFactory builds a destination client for the account a
// plan targets.
type DestinationPlatformFactory func(account shared.AccountHandle) (DestinationPlatform, error)

// Service executes transfer plans as a forward-only state machine. Each
// plan runs Validating, Cloning, RemoteUpdating, Pushing and SourceCleanup
// in order; native transfers skip the git phases because the platform moves
// the repository itself. A failure in any phase stops the plan without
// automatic retry, and the scratch workspace is removed on every path.
type Service struct {
	logger             *zap.Logger
	sourcePlatform     SourcePlatform
	destinationFactory DestinationPlatformFactory
	gitOperations      GitOperations
	workspaces         *WorkspaceManager
}

// NewService builds a transfer service.
func NewService(logger *zap.Logger, sourcePlatform SourcePlatform, destinationFactory DestinationPlatformFactory, gitOperations GitOperations, workspaces *WorkspaceManager) (*Service, error) {
	if sourcePlatform == nil {
		return nil, ErrSourcePlatformNotConfigured
	}
	if destinationFactory == nil {
		return nil, ErrDestinationFactoryNotConfigured
	}
	if gitOperations == nil {
		return nil, ErrGitOperationsNotConfigured
	}
	if workspaces == nil {
		return nil, ErrWorkspacesNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		logger:             logger,
		sourcePlatform:     sourcePlatform,
		destinationFactory: destinationFactory,
		gitOperations:      gitOperations,
		workspaces:         workspaces,
	}, nil
}

// Execute runs one transfer plan to completion. The returned outcome is
// successful when ownership moved, even if deleting the source afterwards
// failed; that partial failure is reported in the outcome detail.
func (service *Service) Execute(executionContext context.Context, plan shared.TransferPlan) (shared.OperationOutcome, error) {
	service.logStateChange(plan, StateValidating)
	sourceRepository, validationError := service.validatePlan(executionContext, plan)
	if validationError != nil {
		return service.failure(plan, StateValidating, validationError)
	}

	switch plan.Strategy {
	case shared.TransferStrategyNative:
		return service.executeNative(executionContext, plan, sourceRepository)
	case shared.TransferStrategyMirror:
		return service.executeMirror(executionContext, plan, sourceRepository)
	default:
		return service.failure(plan, StateValidating, UnknownStrategyError{Strategy: string(plan.Strategy)})
	}
}

func (service *Service) validatePlan(executionContext context.Context, plan shared.TransferPlan) (shared.RepositoryRef, error) {
	if len(strings.TrimSpace(plan.Source.Owner)) == 0 {
		return shared.RepositoryRef{}, errors.New(missingSourceOwnerMessageConstant)
	}
	if len(strings.TrimSpace(plan.Source.Name)) == 0 {
		return shared.RepositoryRef{}, errors.New(missingSourceNameMessageConstant)
	}
	if len(strings.TrimSpace(plan.DestinationAccount.Username)) == 0 {
		return shared.RepositoryRef{}, errors.New(missingDestinationMessageConstant)
	}
	if plan.Strategy == shared.TransferStrategyNative && plan.DeleteSourceAfter {
		return shared.RepositoryRef{}, errors.New(nativeDeleteSourceMessageConstant)
	}

	sourceRepository, fetchError := service.sourcePlatform.GetRepository(executionContext, plan.Source.Owner, plan.Source.Name)
	if fetchError != nil {
		return shared.RepositoryRef{}, fetchError
	}
	if sourceRepository.Role != shared.RoleOwner {
		return shared.RepositoryRef{}, platform.ConflictError{
			Message: fmt.Sprintf(notOwnedMessageTemplateConstant, sourceRepository.FullName()),
		}
	}
	return sourceRepository, nil
}

func (service *Service) executeNative(executionContext context.Context, plan shared.TransferPlan, sourceRepository shared.RepositoryRef) (shared.OperationOutcome, error) {
	service.logStateChange(plan, StateRemoteUpdating)
	if transferError := service.sourcePlatform.InitiateTransfer(executionContext, sourceRepository.Owner, sourceRepository.Name, plan.DestinationAccount.Username); transferError != nil {
		return service.failure(plan, StateRemoteUpdating, transferError)
	}

	service.logStateChange(plan, StateDone)
	service.logger.Info(
		logMessageTransferCompletedConstant,
		zap.String(logFieldRepositoryConstant, sourceRepository.FullName()),
		zap.String(logFieldDestinationConstant, plan.DestinationAccount.Username),
		zap.String(logFieldStrategyConstant, string(plan.Strategy)),
	)
	return shared.NewOperationOutcome(shared.OutcomeSuccess, sourceRepository, nativeTransferDetailConstant), nil
}

func (service *Service) executeMirror(executionContext context.Context, plan shared.TransferPlan, sourceRepository shared.RepositoryRef) (shared.OperationOutcome, error) {
	destinationPlatform, factoryError := service.destinationFactory(plan.DestinationAccount)
	if factoryError != nil {
		return service.failure(plan, StateValidating, factoryError)
	}

	service.logStateChange(plan, StateCloning)
	workspace, workspaceError := service.workspaces.Create()
	if workspaceError != nil {
		return service.failure(plan, StateCloning, workspaceError)
	}
	defer service.removeWorkspace(workspace)

	mirrorPath := filepath.Join(workspace.Path, fmt.Sprintf(mirrorDirectoryNameTemplateConstant, sourceRepository.Name))
	sourceCloneURL := service.sourcePlatform.AuthenticatedCloneURL(sourceRepository.Owner, sourceRepository.Name)
	if cloneError := service.gitOperations.CloneMirror(executionContext, sourceCloneURL, mirrorPath); cloneError != nil {
		return service.failure(plan, StateCloning, cloneError)
	}

	service.logStateChange(plan, StateRemoteUpdating)
	destinationRepository, createError := destinationPlatform.CreateRepository(executionContext, sourceRepository.Name, sourceRepository.Visibility == shared.VisibilityPrivate)
	if createError != nil {
		return service.failure(plan, StateRemoteUpdating, createError)
	}
	destinationCloneURL := destinationPlatform.AuthenticatedCloneURL(destinationRepository.Owner, destinationRepository.Name)
	if remoteError := service.gitOperations.SetRemoteURL(executionContext, mirrorPath, destinationCloneURL); remoteError != nil {
		return service.failure(plan, StateRemoteUpdating, remoteError)
	}

	service.logStateChange(plan, StatePushing)
	if pushError := service.gitOperations.PushMirror(executionContext, mirrorPath); pushError != nil {
		return service.failure(plan, StatePushing, pushError)
	}
	localRefCount, localCountError := service.gitOperations.CountLocalRefs(executionContext, mirrorPath)
	if localCountError != nil {
		return service.failure(plan, StatePushing, localCountError)
	}
	remoteRefCount, remoteCountError := service.gitOperations.CountRemoteRefs(executionContext, mirrorPath)
	if remoteCountError != nil {
		return service.failure(plan, StatePushing, remoteCountError)
	}
	if localRefCount != remoteRefCount {
		return service.failure(plan, StatePushing, PushError{LocalRefs: localRefCount, RemoteRefs: remoteRefCount})
	}

	transferDetail := fmt.Sprintf(mirrorTransferDetailTemplateConstant, destinationRepository.FullName())
	if plan.DeleteSourceAfter {
		service.logStateChange(plan, StateSourceCleanup)
		if deleteError := service.sourcePlatform.DeleteRepository(executionContext, sourceRepository.Owner, sourceRepository.Name); deleteError != nil {
			service.logStateChange(plan, StateDone)
			detail := fmt.Sprintf(cleanupFailedDetailTemplateConstant, deleteError)
			return shared.NewOperationOutcome(shared.OutcomeSuccess, sourceRepository, detail), nil
		}
		transferDetail = transferDetail + detailSeparatorConstant + sourceDeletedDetailFragmentConstant
	}

	service.logStateChange(plan, StateDone)
	service.logger.Info(
		logMessageTransferCompletedConstant,
		zap.String(logFieldRepositoryConstant, sourceRepository.FullName()),
		zap.String(logFieldDestinationConstant, destinationRepository.FullName()),
		zap.String(logFieldStrategyConstant, string(plan.Strategy)),
		zap.Int(logFieldRefCountConstant, localRefCount),
	)
	return shared.NewOperationOutcome(shared.OutcomeSuccess, sourceRepository, transferDetail), nil
}

func (service *Service) failure(plan shared.TransferPlan, state TransferState, cause error) (shared.OperationOutcome, error) {
	service.logStateChange(plan, StateFailed)
	transferFailure := TransferError{State: state, Cause: cause}
	return shared.NewOperationOutcome(shared.OutcomeFailed, plan.Source, transferFailure.Error()), transferFailure
}

func (service *Service) removeWorkspace(workspace Workspace) {
	if removalError := workspace.Remove(); removalError != nil {
		service.logger.Warn(
			logMessageWorkspaceRemovalFailedConstant,
			zap.String(logFieldWorkspaceConstant, workspace.Path),
			zap.Error(removalError),
		)
	}
}

func (service *Service) logStateChange(plan shared.TransferPlan, state TransferState) {
	service.logger.Info(
		logMessageTransferStateConstant,
		zap.String(logFieldTransferStateConstant, string(state)),
		zap.String(logFieldRepositoryConstant, plan.Source.FullName()),
		zap.String(logFieldDestinationConstant, plan.DestinationAccount.Username),
	)
}
