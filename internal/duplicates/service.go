package duplicates

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/repokeeper/internal/shared"
)

const (
	duplicatePromptTemplateConstant    = "Delete %s (same name as %s)?"
	logMessageDuplicatesFoundConstant  = "Duplicate repositories identified"
	logFieldDuplicateCountConstant     = "duplicate_count"
	logFieldSourceRepositoriesConstant = "source_repositories"
	logFieldTargetRepositoriesConstant = "target_repositories"
	listSourceFailureTemplateConstant  = "listing source repositories: %w"
	listTargetFailureTemplateConstant  = "listing target repositories: %w"
)

// Configuration errors for the reconciliation service.
var (
	ErrSourceListerNotConfigured = errors.New("duplicates service requires a source repository lister")
	ErrTargetListerNotConfigured = errors.New("duplicates service requires a target repository lister")
	ErrRemoverNotConfigured      = errors.New("duplicates service requires a repository remover")
)

// RepositoryLister enumerates repositories for one account.
type RepositoryLister interface {
	ListRepositories(executionContext context.Context, filter shared.RepositoryFilter) ([]shared.RepositoryRef, error)
}

// RepositoryRemover removes one repository when confirmed.
type RepositoryRemover interface {
	Act(executionContext context.Context, repository shared.RepositoryRef, confirmed bool) shared.OperationOutcome
}

// ReconcileOptions controls one reconciliation run.
type ReconcileOptions struct {
	Exclusions []string
	Policy     shared.ConfirmationPolicy
	Prompter   shared.ConfirmationPrompter
}

// ReconcileReport captures what a reconciliation run found and did.
type ReconcileReport struct {
	Duplicates shared.DuplicateSet
	Outcomes   []shared.OperationOutcome
}

// Service reconciles repositories duplicated across two accounts by
// deleting the source account's copy pair by pair.
type Service struct {
	logger       *zap.Logger
	sourceLister RepositoryLister
	targetLister RepositoryLister
	remover      RepositoryRemover
}

// NewService builds a reconciliation service over the two accounts.
func NewService(logger *zap.Logger, sourceLister RepositoryLister, targetLister RepositoryLister, remover RepositoryRemover) (*Service, error) {
	if sourceLister == nil {
		return nil, ErrSourceListerNotConfigured
	}
	if targetLister == nil {
		return nil, ErrTargetListerNotConfigured
	}
	if remover == nil {
		return nil, ErrRemoverNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger, sourceLister: sourceLister, targetLister: targetLister, remover: remover}, nil
}

// Identify lists both accounts and pairs same-named repositories without
// acting on them.
func (service *Service) Identify(executionContext context.Context, exclusions []string) (shared.DuplicateSet, error) {
	sourceRepositories, sourceError := service.sourceLister.ListRepositories(executionContext, shared.FilterOwner)
	if sourceError != nil {
		return nil, fmt.Errorf(listSourceFailureTemplateConstant, sourceError)
	}

	targetRepositories, targetError := service.targetLister.ListRepositories(executionContext, shared.FilterOwner)
	if targetError != nil {
		return nil, fmt.Errorf(listTargetFailureTemplateConstant, targetError)
	}

	duplicateSet := FindDuplicates(sourceRepositories, targetRepositories, exclusions)
	service.logger.Info(
		logMessageDuplicatesFoundConstant,
		zap.Int(logFieldDuplicateCountConstant, len(duplicateSet)),
		zap.Int(logFieldSourceRepositoriesConstant, len(sourceRepositories)),
		zap.Int(logFieldTargetRepositoriesConstant, len(targetRepositories)),
	)
	return duplicateSet, nil
}

// Reconcile identifies duplicate pairs and removes the source copy of each
// confirmed pair. Pairs are processed sequentially in listing order, and a
// failed pair never prevents the remaining pairs from being attempted.
func (service *Service) Reconcile(executionContext context.Context, options ReconcileOptions) (ReconcileReport, error) {
	duplicateSet, identifyError := service.Identify(executionContext, options.Exclusions)
	if identifyError != nil {
		return ReconcileReport{}, identifyError
	}

	report := ReconcileReport{Duplicates: duplicateSet, Outcomes: make([]shared.OperationOutcome, 0, len(duplicateSet))}
	for _, duplicatePair := range duplicateSet {
		confirmed, promptError := service.resolveConfirmation(duplicatePair, options)
		if promptError != nil {
			report.Outcomes = append(report.Outcomes, shared.NewOperationOutcome(shared.OutcomeFailed, duplicatePair.Source, promptError.Error()))
			continue
		}
		report.Outcomes = append(report.Outcomes, service.remover.Act(executionContext, duplicatePair.Source, confirmed))
	}

	return report, nil
}

func (service *Service) resolveConfirmation(duplicatePair shared.DuplicatePair, options ReconcileOptions) (bool, error) {
	if options.Policy.ShouldAssumeYes() {
		return true, nil
	}
	if options.Prompter == nil {
		return false, nil
	}
	prompt := fmt.Sprintf(duplicatePromptTemplateConstant, duplicatePair.Source.FullName(), duplicatePair.Counterpart.FullName())
	return options.Prompter.Confirm(prompt)
}
