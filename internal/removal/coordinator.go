package removal

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/repokeeper/internal/platform"
	"github.com/temirov/repokeeper/internal/shared"
)

const (
	skippedNotConfirmedDetailConstant   = "not confirmed"
	skippedAlreadyAbsentDetailConstant  = "repository no longer exists"
	deletedDetailConstant               = "repository deleted"
	leftCollaborationDetailConstant     = "left collaboration"
	logMessageRepositoryDeletedConstant = "Deleted repository"
	logMessageCollaborationLeftConstant = "Left repository collaboration"
	logMessageRemovalFailedConstant     = "Repository removal failed"
	logFieldRepositoryConstant          = "repository"
	logFieldRoleConstant                = "role"
	ownedPromptTemplateConstant         = "Delete repository %s?"
	collaborationPromptTemplateConstant = "Leave collaboration on %s?"
	genericPromptTemplateConstant       = "Remove repository %s?"
)

// ErrCoordinatorClientNotConfigured indicates the coordinator was built
// without a platform client.
var ErrCoordinatorClientNotConfigured = errors.New("removal coordinator requires a platform client")

// PlatformOperations is the subset of platform calls the coordinator issues.
type PlatformOperations interface {
	GetRepository(executionContext context.Context, owner string, name string) (shared.RepositoryRef, error)
	DeleteRepository(executionContext context.Context, owner string, name string) error
	RemoveCollaboratorSelf(executionContext context.Context, owner string, name string) error
}

// Coordinator removes repositories from an account, deleting owned
// repositories and leaving collaborations.
type Coordinator struct {
	logger         *zap.Logger
	platformClient PlatformOperations
}

// NewCoordinator builds a removal coordinator.
func NewCoordinator(logger *zap.Logger, platformClient PlatformOperations) (*Coordinator, error) {
	if platformClient == nil {
		return nil, ErrCoordinatorClientNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{logger: logger, platformClient: platformClient}, nil
}

// Act removes one repository when confirmed. An unconfirmed repository is
// skipped without any network traffic. The repository state is re-fetched
// immediately before the destructive call so the action matches the current
// role, not the role captured at listing time.
func (coordinator *Coordinator) Act(executionContext context.Context, repository shared.RepositoryRef, confirmed bool) shared.OperationOutcome {
	if !confirmed {
		return shared.NewOperationOutcome(shared.OutcomeSkipped, repository, skippedNotConfirmedDetailConstant)
	}

	freshRepository, fetchError := coordinator.platformClient.GetRepository(executionContext, repository.Owner, repository.Name)
	if fetchError != nil {
		notFoundFailure := platform.NotFoundError{}
		if errors.As(fetchError, &notFoundFailure) {
			return shared.NewOperationOutcome(shared.OutcomeSkipped, repository, skippedAlreadyAbsentDetailConstant)
		}
		coordinator.logRemovalFailure(repository, fetchError)
		return shared.NewOperationOutcome(shared.OutcomeFailed, repository, fetchError.Error())
	}

	if freshRepository.Role == shared.RoleOwner {
		if deleteError := coordinator.platformClient.DeleteRepository(executionContext, freshRepository.Owner, freshRepository.Name); deleteError != nil {
			coordinator.logRemovalFailure(freshRepository, deleteError)
			return shared.NewOperationOutcome(shared.OutcomeFailed, freshRepository, deleteError.Error())
		}
		coordinator.logger.Info(
			logMessageRepositoryDeletedConstant,
			zap.String(logFieldRepositoryConstant, freshRepository.FullName()),
		)
		return shared.NewOperationOutcome(shared.OutcomeSuccess, freshRepository, deletedDetailConstant)
	}

	if leaveError := coordinator.platformClient.RemoveCollaboratorSelf(executionContext, freshRepository.Owner, freshRepository.Name); leaveError != nil {
		coordinator.logRemovalFailure(freshRepository, leaveError)
		return shared.NewOperationOutcome(shared.OutcomeFailed, freshRepository, leaveError.Error())
	}
	coordinator.logger.Info(
		logMessageCollaborationLeftConstant,
		zap.String(logFieldRepositoryConstant, freshRepository.FullName()),
	)
	return shared.NewOperationOutcome(shared.OutcomeSuccess, freshRepository, leftCollaborationDetailConstant)
}

// ActOnAll removes every listed repository independently, prompting per
// repository unless the policy assumes consent. A failure on one repository
// never stops the remaining removals.
func (coordinator *Coordinator) ActOnAll(executionContext context.Context, repositories []shared.RepositoryRef, policy shared.ConfirmationPolicy, prompter shared.ConfirmationPrompter) []shared.OperationOutcome {
	outcomes := make([]shared.OperationOutcome, 0, len(repositories))
	for _, repository := range repositories {
		confirmed, promptError := resolveConfirmation(repository, policy, prompter)
		if promptError != nil {
			outcomes = append(outcomes, shared.NewOperationOutcome(shared.OutcomeFailed, repository, promptError.Error()))
			continue
		}
		outcomes = append(outcomes, coordinator.Act(executionContext, repository, confirmed))
	}
	return outcomes
}

func (coordinator *Coordinator) logRemovalFailure(repository shared.RepositoryRef, failure error) {
	coordinator.logger.Warn(
		logMessageRemovalFailedConstant,
		zap.String(logFieldRepositoryConstant, repository.FullName()),
		zap.String(logFieldRoleConstant, string(repository.Role)),
		zap.Error(failure),
	)
}

func resolveConfirmation(repository shared.RepositoryRef, policy shared.ConfirmationPolicy, prompter shared.ConfirmationPrompter) (bool, error) {
	if policy.ShouldAssumeYes() {
		return true, nil
	}
	if prompter == nil {
		return false, nil
	}
	return prompter.Confirm(removalPromptMessage(repository))
}

func removalPromptMessage(repository shared.RepositoryRef) string {
	switch repository.Role {
	case shared.RoleOwner:
		return fmt.Sprintf(ownedPromptTemplateConstant, repository.FullName())
	case shared.RoleCollaborator:
		return fmt.Sprintf(collaborationPromptTemplateConstant, repository.FullName())
	default:
		return fmt.Sprintf(genericPromptTemplateConstant, repository.FullName())
	}
}
