package listing_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/repokeeper/internal/listing"
	"github.com/temirov/repokeeper/internal/shared"
)

const listingFailureMessageConstant = "listing exploded"

type stubLister struct {
	repositories []shared.RepositoryRef
	failure      error
	seenFilters  []shared.RepositoryFilter
}

func (lister *stubLister) ListRepositories(executionContext context.Context, filter shared.RepositoryFilter) ([]shared.RepositoryRef, error) {
	lister.seenFilters = append(lister.seenFilters, filter)
	if lister.failure != nil {
		return nil, lister.failure
	}
	return lister.repositories, nil
}

func TestListSortsByFullName(testInstance *testing.T) {
	lister := &stubLister{repositories: []shared.RepositoryRef{
		{Owner: "octocat", Name: "zeta", Role: shared.RoleOwner},
		{Owner: "another", Name: "alpha", Role: shared.RoleCollaborator},
		{Owner: "octocat", Name: "alpha", Role: shared.RoleOwner},
	}}
	service, serviceError := listing.NewService(zap.NewNop(), lister)
	require.NoError(testInstance, serviceError)

	repositories, listError := service.List(context.Background(), shared.FilterAll)

	require.NoError(testInstance, listError)
	require.Equal(testInstance, []shared.RepositoryFilter{shared.FilterAll}, lister.seenFilters)
	require.Equal(testInstance, "another/alpha", repositories[0].FullName())
	require.Equal(testInstance, "octocat/alpha", repositories[1].FullName())
	require.Equal(testInstance, "octocat/zeta", repositories[2].FullName())
}

func TestListSurfacesListerFailures(testInstance *testing.T) {
	listingFailure := errors.New(listingFailureMessageConstant)
	service, serviceError := listing.NewService(zap.NewNop(), &stubLister{failure: listingFailure})
	require.NoError(testInstance, serviceError)

	_, listError := service.List(context.Background(), shared.FilterOwner)
	require.ErrorIs(testInstance, listError, listingFailure)
}

func TestRenderAlignsColumnsWithoutColor(testInstance *testing.T) {
	renderer := listing.NewTableRenderer(false)
	renderedTable := renderer.Render([]shared.RepositoryRef{
		{Owner: "octocat", Name: "widget", Visibility: shared.VisibilityPrivate, Role: shared.RoleOwner, Stargazers: 12},
		{Owner: "someone-else", Name: "shared-lib", Visibility: shared.VisibilityPublic, Role: shared.RoleCollaborator, Stargazers: 4},
	})

	renderedLines := strings.Split(renderedTable, "\n")
	require.Len(testInstance, renderedLines, 3)
	require.True(testInstance, strings.HasPrefix(renderedLines[0], "REPOSITORY"))
	require.Contains(testInstance, renderedLines[0], "STARS")
	require.Contains(testInstance, renderedLines[1], "octocat/widget")
	require.Contains(testInstance, renderedLines[1], "private")
	require.Contains(testInstance, renderedLines[2], "someone-else/shared-lib")
	require.Contains(testInstance, renderedLines[2], "collaborator")

	starsColumnOffset := strings.Index(renderedLines[0], "STARS")
	require.Equal(testInstance, "12", strings.TrimSpace(renderedLines[1][starsColumnOffset:]))
	require.Equal(testInstance, "4", strings.TrimSpace(renderedLines[2][starsColumnOffset:]))
}

func TestRenderEmptyListing(testInstance *testing.T) {
	renderer := listing.NewTableRenderer(false)
	require.Equal(testInstance, "No repositories found.", renderer.Render(nil))
}

func TestNewServiceRequiresLister(testInstance *testing.T) {
	service, serviceError := listing.NewService(zap.NewNop(), nil)
	require.Nil(testInstance, service)
	require.ErrorIs(testInstance, serviceError, listing.ErrListerNotConfigured)
}
