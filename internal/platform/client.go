package platform

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/go-github/v60/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/temirov/repokeeper/internal/shared"
)

const (
	ownerFieldNameConstant                = "owner"
	repositoryNameFieldNameConstant       = "name"
	newOwnerFieldNameConstant             = "new_owner"
	usernameFieldNameConstant             = "username"
	tokenFieldNameConstant                = "token"
	listingAffiliationConstant            = "owner,collaborator"
	listingPageSizeConstant               = 100
	defaultRequestTimeoutConstant         = 30 * time.Second
	authenticatedCloneURLTemplateConstant = "https://%s@github.com/%s/%s.git"
	cloneURLTemplateConstant              = "https://github.com/%s/%s.git"
	repositoryResourceTemplateConstant    = "repository %s/%s"
	accountResourceConstant               = "account"
	listingResourceConstant               = "repository listing"
	createdRepositoryResourceConstant     = "created repository"
	logMessageRateLimitRetryConstant      = "Rate limit reached, retrying after advertised delay"
	logFieldRetryAfterConstant            = "retry_after"
	logFieldResourceConstant              = "resource"
	createdAtTimestampLayoutConstant      = time.RFC3339
)

// Sleeper delays execution for the provided duration, honoring cancellation.
type Sleeper func(sleepContext context.Context, delay time.Duration) error

// Client issues authenticated REST calls for one account. Construct one
// Client per AccountHandle; all operations accept a context and observe a
// bounded per-call timeout.
type Client struct {
	logger         *zap.Logger
	account        shared.AccountHandle
	rest           *github.Client
	requestTimeout time.Duration
	sleeper        Sleeper
}

// ClientOption customizes client construction.
type ClientOption func(client *Client)

// WithRequestTimeout overrides the default per-call timeout.
func WithRequestTimeout(timeout time.Duration) ClientOption {
	return func(client *Client) {
		if timeout > 0 {
			client.requestTimeout = timeout
		}
	}
}

// WithSleeper overrides the delay function used for rate limit retries.
func WithSleeper(sleeper Sleeper) ClientOption {
	return func(client *Client) {
		if sleeper != nil {
			client.sleeper = sleeper
		}
	}
}

// WithRESTClient replaces the underlying go-github client, primarily for tests.
func WithRESTClient(restClient *github.Client) ClientOption {
	return func(client *Client) {
		if restClient != nil {
			client.rest = restClient
		}
	}
}

// NewClient builds a platform client for the provided account handle.
func NewClient(logger *zap.Logger, account shared.AccountHandle, options ...ClientOption) (*Client, error) {
	if len(strings.TrimSpace(account.Username)) == 0 {
		return nil, InvalidInputError{FieldName: usernameFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if len(strings.TrimSpace(account.Token)) == 0 {
		return nil, InvalidInputError{FieldName: tokenFieldNameConstant, Message: requiredValueMessageConstant}
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: account.Token})
	authenticatedHTTPClient := oauth2.NewClient(context.Background(), tokenSource)

	client := &Client{
		logger:         logger,
		account:        account,
		rest:           github.NewClient(authenticatedHTTPClient),
		requestTimeout: defaultRequestTimeoutConstant,
		sleeper:        contextSleeper,
	}

	for _, option := range options {
		option(client)
	}

	return client, nil
}

// Account returns the handle the client authenticates as.
func (client *Client) Account() shared.AccountHandle {
	return client.account
}

// ListRepositories enumerates the account's repositories honoring the
// requested filter. Paginated pages are fetched sequentially; ordering
// follows the platform listing order.
func (client *Client) ListRepositories(executionContext context.Context, filter shared.RepositoryFilter) ([]shared.RepositoryRef, error) {
	listOptions := &github.RepositoryListByAuthenticatedUserOptions{
		Affiliation: listingAffiliationConstant,
		ListOptions: github.ListOptions{PerPage: listingPageSizeConstant},
	}

	references := make([]shared.RepositoryRef, 0, listingPageSizeConstant)
	for {
		var pageRepositories []*github.Repository
		var pageResponse *github.Response
		callError := client.callWithRetry(executionContext, listingResourceConstant, func(callContext context.Context) error {
			var listError error
			pageRepositories, pageResponse, listError = client.rest.Repositories.ListByAuthenticatedUser(callContext, listOptions)
			return listError
		})
		if callError != nil {
			return nil, callError
		}

		for _, repository := range pageRepositories {
			reference := client.referenceFromRepository(repository)
			if filterAccepts(filter, reference.Role) {
				references = append(references, reference)
			}
		}

		if pageResponse == nil || pageResponse.NextPage == 0 {
			break
		}
		listOptions.Page = pageResponse.NextPage
	}

	return references, nil
}

// GetRepository fetches a fresh snapshot of one repository.
func (client *Client) GetRepository(executionContext context.Context, owner string, name string) (shared.RepositoryRef, error) {
	if validationError := validateOwnerAndName(owner, name); validationError != nil {
		return shared.RepositoryRef{}, validationError
	}

	resource := fmt.Sprintf(repositoryResourceTemplateConstant, owner, name)
	var repository *github.Repository
	callError := client.callWithRetry(executionContext, resource, func(callContext context.Context) error {
		var getError error
		repository, _, getError = client.rest.Repositories.Get(callContext, owner, name)
		return getError
	})
	if callError != nil {
		return shared.RepositoryRef{}, callError
	}

	return client.referenceFromRepository(repository), nil
}

// DeleteRepository removes a repository owned by the account.
func (client *Client) DeleteRepository(executionContext context.Context, owner string, name string) error {
	if validationError := validateOwnerAndName(owner, name); validationError != nil {
		return validationError
	}

	resource := fmt.Sprintf(repositoryResourceTemplateConstant, owner, name)
	return client.callWithRetry(executionContext, resource, func(callContext context.Context) error {
		_, deleteError := client.rest.Repositories.Delete(callContext, owner, name)
		return deleteError
	})
}

// RemoveCollaboratorSelf removes the authenticated account from a
// repository's collaborator list.
func (client *Client) RemoveCollaboratorSelf(executionContext context.Context, owner string, name string) error {
	if validationError := validateOwnerAndName(owner, name); validationError != nil {
		return validationError
	}

	resource := fmt.Sprintf(repositoryResourceTemplateConstant, owner, name)
	return client.callWithRetry(executionContext, resource, func(callContext context.Context) error {
		_, removeError := client.rest.Repositories.RemoveCollaborator(callContext, owner, name, client.account.Username)
		return removeError
	})
}

// CreateRepository creates an empty repository under the authenticated account.
func (client *Client) CreateRepository(executionContext context.Context, name string, private bool) (shared.RepositoryRef, error) {
	if len(strings.TrimSpace(name)) == 0 {
		return shared.RepositoryRef{}, InvalidInputError{FieldName: repositoryNameFieldNameConstant, Message: requiredValueMessageConstant}
	}

	repositoryRequest := &github.Repository{
		Name:    github.String(name),
		Private: github.Bool(private),
	}

	var createdRepository *github.Repository
	callError := client.callWithRetry(executionContext, createdRepositoryResourceConstant, func(callContext context.Context) error {
		var createError error
		createdRepository, _, createError = client.rest.Repositories.Create(callContext, "", repositoryRequest)
		return createError
	})
	if callError != nil {
		return shared.RepositoryRef{}, callError
	}

	return client.referenceFromRepository(createdRepository), nil
}

// InitiateTransfer asks the platform to reassign repository ownership. The
// platform acknowledges transfers asynchronously with an accepted response,
// which is treated as success.
func (client *Client) InitiateTransfer(executionContext context.Context, owner string, name string, newOwner string) error {
	if validationError := validateOwnerAndName(owner, name); validationError != nil {
		return validationError
	}
	if len(strings.TrimSpace(newOwner)) == 0 {
		return InvalidInputError{FieldName: newOwnerFieldNameConstant, Message: requiredValueMessageConstant}
	}

	resource := fmt.Sprintf(repositoryResourceTemplateConstant, owner, name)
	return client.callWithRetry(executionContext, resource, func(callContext context.Context) error {
		_, _, transferError := client.rest.Repositories.Transfer(callContext, owner, name, github.TransferRequest{NewOwner: newOwner})
		var acceptedFailure *github.AcceptedError
		if errors.As(transferError, &acceptedFailure) {
			return nil
		}
		return transferError
	})
}

// AccountStatistics fetches the authenticated account's profile figures.
func (client *Client) AccountStatistics(executionContext context.Context) (shared.AccountStatistics, error) {
	var user *github.User
	callError := client.callWithRetry(executionContext, accountResourceConstant, func(callContext context.Context) error {
		var getError error
		user, _, getError = client.rest.Users.Get(callContext, "")
		return getError
	})
	if callError != nil {
		return shared.AccountStatistics{}, callError
	}

	statistics := shared.AccountStatistics{
		Login:       user.GetLogin(),
		Name:        user.GetName(),
		PublicRepos: user.GetPublicRepos(),
		Followers:   user.GetFollowers(),
		Following:   user.GetFollowing(),
	}
	if createdAt := user.GetCreatedAt(); !createdAt.IsZero() {
		statistics.CreatedAt = createdAt.Format(createdAtTimestampLayoutConstant)
	}

	return statistics, nil
}

// AuthenticatedCloneURL builds an https clone URL embedding the account
// token. The result must never be logged unredacted.
func (client *Client) AuthenticatedCloneURL(owner string, name string) string {
	return fmt.Sprintf(authenticatedCloneURLTemplateConstant, client.account.Token, owner, name)
}

// CloneURL builds the public https clone URL for a repository.
func CloneURL(owner string, name string) string {
	return fmt.Sprintf(cloneURLTemplateConstant, owner, name)
}

// callWithRetry executes one REST operation under the per-call timeout and
// retries exactly once when the platform advertises a rate limit delay.
func (client *Client) callWithRetry(executionContext context.Context, resource string, operation func(callContext context.Context) error) error {
	firstAttemptError := client.callOnce(executionContext, operation)
	if firstAttemptError == nil {
		return nil
	}

	translatedError := TranslateError(resource, firstAttemptError)
	rateLimitFailure := RateLimitError{}
	if !errors.As(translatedError, &rateLimitFailure) {
		return translatedError
	}

	client.logger.Warn(
		logMessageRateLimitRetryConstant,
		zap.String(logFieldResourceConstant, resource),
		zap.Duration(logFieldRetryAfterConstant, rateLimitFailure.RetryAfter),
	)

	if sleepError := client.sleeper(executionContext, rateLimitFailure.RetryAfter); sleepError != nil {
		return translatedError
	}

	secondAttemptError := client.callOnce(executionContext, operation)
	if secondAttemptError == nil {
		return nil
	}
	return TranslateError(resource, secondAttemptError)
}

func (client *Client) callOnce(executionContext context.Context, operation func(callContext context.Context) error) error {
	callContext, cancelCall := context.WithTimeout(executionContext, client.requestTimeout)
	defer cancelCall()
	return operation(callContext)
}

func (client *Client) referenceFromRepository(repository *github.Repository) shared.RepositoryRef {
	reference := shared.RepositoryRef{
		Owner:      repository.GetOwner().GetLogin(),
		Name:       repository.GetName(),
		Visibility: shared.VisibilityPublic,
		Role:       shared.RoleCollaborator,
		Fork:       repository.GetFork(),
		Stargazers: repository.GetStargazersCount(),
		Forks:      repository.GetForksCount(),
		URL:        repository.GetHTMLURL(),
	}
	if repository.GetPrivate() {
		reference.Visibility = shared.VisibilityPrivate
	}
	if strings.EqualFold(reference.Owner, client.account.Username) {
		reference.Role = shared.RoleOwner
	}
	return reference
}

func filterAccepts(filter shared.RepositoryFilter, role shared.RepositoryRole) bool {
	switch filter {
	case shared.FilterOwner:
		return role == shared.RoleOwner
	case shared.FilterCollaborator:
		return role == shared.RoleCollaborator
	default:
		return true
	}
}

func validateOwnerAndName(owner string, name string) error {
	if len(strings.TrimSpace(owner)) == 0 {
		return InvalidInputError{FieldName: ownerFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if len(strings.TrimSpace(name)) == 0 {
		return InvalidInputError{FieldName: repositoryNameFieldNameConstant, Message: requiredValueMessageConstant}
	}
	return nil
}

func contextSleeper(sleepContext context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	delayTimer := time.NewTimer(delay)
	defer delayTimer.Stop()
	select {
	case <-sleepContext.Done():
		return sleepContext.Err()
	case <-delayTimer.C:
		return nil
	}
}
