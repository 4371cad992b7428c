package listing

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/temirov/repokeeper/internal/shared"
)

const (
	listRepositoriesFailureTemplateConstant = "listing repositories: %w"
	logMessageRepositoriesListedConstant    = "Repositories listed"
	logFieldFilterConstant                  = "filter"
	logFieldRepositoryCountConstant         = "repository_count"
)

// ErrListerNotConfigured indicates the service was built without a
// repository lister.
var ErrListerNotConfigured = errors.New("listing service requires a repository lister")

// RepositoryLister enumerates repositories for one account.
type RepositoryLister interface {
	ListRepositories(executionContext context.Context, filter shared.RepositoryFilter) ([]shared.RepositoryRef, error)
}

// Service produces repository listings for display.
type Service struct {
	logger *zap.Logger
	lister RepositoryLister
}

// NewService builds a listing service.
func NewService(logger *zap.Logger, lister RepositoryLister) (*Service, error) {
	if lister == nil {
		return nil, ErrListerNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger, lister: lister}, nil
}

// List returns the account's repositories matching the filter, sorted by
// full name for stable output.
func (service *Service) List(executionContext context.Context, filter shared.RepositoryFilter) ([]shared.RepositoryRef, error) {
	repositories, listError := service.lister.ListRepositories(executionContext, filter)
	if listError != nil {
		return nil, fmt.Errorf(listRepositoriesFailureTemplateConstant, listError)
	}

	sort.Slice(repositories, func(firstIndex int, secondIndex int) bool {
		return repositories[firstIndex].FullName() < repositories[secondIndex].FullName()
	})

	service.logger.Debug(
		logMessageRepositoriesListedConstant,
		zap.String(logFieldFilterConstant, string(filter)),
		zap.Int(logFieldRepositoryCountConstant, len(repositories)),
	)
	return repositories, nil
}
