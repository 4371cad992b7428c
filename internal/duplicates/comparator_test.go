package duplicates_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repokeeper/internal/duplicates"
	"github.com/temirov/repokeeper/internal/shared"
)

const (
	sourceAccountLoginConstant           = "old-account"
	targetAccountLoginConstant           = "new-account"
	caseInsensitiveMatchCaseNameConstant = "matching_ignores_case_and_honors_exclusions"
	orderPreservationCaseNameConstant    = "pairs_follow_source_listing_order"
	identicalListingsCaseNameConstant    = "identical_listings_pair_every_repository_with_itself"
	whitespaceExclusionCaseNameConstant  = "exclusions_are_normalized_before_matching"
	emptyInputsCaseNameConstant          = "empty_listings_produce_no_pairs"
)

func sourceRepository(name string) shared.RepositoryRef {
	return shared.RepositoryRef{Owner: sourceAccountLoginConstant, Name: name, Role: shared.RoleOwner}
}

func targetRepository(name string) shared.RepositoryRef {
	return shared.RepositoryRef{Owner: targetAccountLoginConstant, Name: name, Role: shared.RoleOwner}
}

func pairedNames(duplicateSet shared.DuplicateSet) [][2]string {
	names := make([][2]string, 0, len(duplicateSet))
	for _, duplicatePair := range duplicateSet {
		names = append(names, [2]string{duplicatePair.Source.Name, duplicatePair.Counterpart.Name})
	}
	return names
}

func TestFindDuplicates(testInstance *testing.T) {
	testCases := []struct {
		name          string
		source        []shared.RepositoryRef
		target        []shared.RepositoryRef
		exclusions    []string
		expectedPairs [][2]string
	}{
		{
			name:          caseInsensitiveMatchCaseNameConstant,
			source:        []shared.RepositoryRef{sourceRepository("Foo"), sourceRepository("bar"), sourceRepository("Baz")},
			target:        []shared.RepositoryRef{targetRepository("foo"), targetRepository("qux")},
			exclusions:    []string{"baz"},
			expectedPairs: [][2]string{{"Foo", "foo"}},
		},
		{
			name:          orderPreservationCaseNameConstant,
			source:        []shared.RepositoryRef{sourceRepository("zeta"), sourceRepository("alpha"), sourceRepository("mid")},
			target:        []shared.RepositoryRef{targetRepository("alpha"), targetRepository("mid"), targetRepository("zeta")},
			expectedPairs: [][2]string{{"zeta", "zeta"}, {"alpha", "alpha"}, {"mid", "mid"}},
		},
		{
			name:          identicalListingsCaseNameConstant,
			source:        []shared.RepositoryRef{sourceRepository("tool"), sourceRepository("notes")},
			target:        []shared.RepositoryRef{sourceRepository("tool"), sourceRepository("notes")},
			expectedPairs: [][2]string{{"tool", "tool"}, {"notes", "notes"}},
		},
		{
			name:          whitespaceExclusionCaseNameConstant,
			source:        []shared.RepositoryRef{sourceRepository("notes")},
			target:        []shared.RepositoryRef{targetRepository("Notes")},
			exclusions:    []string{"  NOTES  "},
			expectedPairs: [][2]string{},
		},
		{
			name:          emptyInputsCaseNameConstant,
			source:        nil,
			target:        []shared.RepositoryRef{targetRepository("foo")},
			expectedPairs: [][2]string{},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtestInstance *testing.T) {
			duplicateSet := duplicates.FindDuplicates(testCase.source, testCase.target, testCase.exclusions)
			require.Equal(subtestInstance, testCase.expectedPairs, pairedNames(duplicateSet))
		})
	}
}
