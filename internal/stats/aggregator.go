package stats

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/temirov/repokeeper/internal/shared"
)

const (
	listRepositoriesFailureTemplateConstant  = "listing repositories: %w"
	accountStatisticsFailureTemplateConstant = "fetching account statistics: %w"
	renderReportFailureTemplateConstant      = "rendering account report: %w"
	logMessageReportAssembledConstant        = "Account report assembled"
	logFieldAccountConstant                  = "account"
	logFieldRepositoryCountConstant          = "repository_count"
)

// Configuration errors for the reporting service.
var (
	ErrStatisticsClientNotConfigured = errors.New("stats service requires a platform client")
)

// PlatformOperations is the subset of platform calls the aggregator issues.
type PlatformOperations interface {
	ListRepositories(executionContext context.Context, filter shared.RepositoryFilter) ([]shared.RepositoryRef, error)
	AccountStatistics(executionContext context.Context) (shared.AccountStatistics, error)
}

// AccountReport joins profile figures with the repository summary.
type AccountReport struct {
	Account      shared.AccountStatistics `yaml:"account"`
	Repositories shared.RepositorySummary `yaml:"repositories"`
}

// Summarize folds a repository listing into aggregate counts. The fold is
// pure: it never touches the network and ignores listing order.
func Summarize(repositories []shared.RepositoryRef) shared.RepositorySummary {
	summary := shared.RepositorySummary{Total: len(repositories)}
	for _, repository := range repositories {
		switch repository.Role {
		case shared.RoleOwner:
			summary.Owned++
		case shared.RoleCollaborator:
			summary.Collaborated++
		}
		if repository.Fork {
			summary.Forks++
		}
		summary.TotalStars += repository.Stargazers
		summary.TotalForks += repository.Forks
	}
	return summary
}

// Service assembles account reports.
type Service struct {
	logger         *zap.Logger
	platformClient PlatformOperations
}

// NewService builds a reporting service.
func NewService(logger *zap.Logger, platformClient PlatformOperations) (*Service, error) {
	if platformClient == nil {
		return nil, ErrStatisticsClientNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger, platformClient: platformClient}, nil
}

// Report fetches the account profile and folds the full repository listing
// into one report.
func (service *Service) Report(executionContext context.Context) (AccountReport, error) {
	accountStatistics, statisticsError := service.platformClient.AccountStatistics(executionContext)
	if statisticsError != nil {
		return AccountReport{}, fmt.Errorf(accountStatisticsFailureTemplateConstant, statisticsError)
	}

	repositories, listError := service.platformClient.ListRepositories(executionContext, shared.FilterAll)
	if listError != nil {
		return AccountReport{}, fmt.Errorf(listRepositoriesFailureTemplateConstant, listError)
	}

	report := AccountReport{Account: accountStatistics, Repositories: Summarize(repositories)}
	service.logger.Info(
		logMessageReportAssembledConstant,
		zap.String(logFieldAccountConstant, accountStatistics.Login),
		zap.Int(logFieldRepositoryCountConstant, report.Repositories.Total),
	)
	return report, nil
}

// RenderYAML serializes a report for terminal or file output.
func RenderYAML(report AccountReport) (string, error) {
	serializedReport, marshalError := yaml.Marshal(report)
	if marshalError != nil {
		return "", fmt.Errorf(renderReportFailureTemplateConstant, marshalError)
	}
	return string(serializedReport), nil
}
