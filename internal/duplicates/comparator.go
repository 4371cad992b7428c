package duplicates

import (
	"github.com/temirov/repokeeper/internal/shared"
)

// FindDuplicates pairs every source repository with the target repository
// sharing its normalized name. Pairing is by name equality only, which is a
// deliberate approximation: two repositories with the same name may hold
// unrelated histories, so callers confirm before acting on a pair.
//
// The result preserves the source listing order, and exclusions are matched
// after the same normalization applied to repository names.
func FindDuplicates(sourceRepositories []shared.RepositoryRef, targetRepositories []shared.RepositoryRef, exclusions []string) shared.DuplicateSet {
	excludedNames := make(map[string]struct{}, len(exclusions))
	for _, exclusion := range exclusions {
		excludedNames[shared.NormalizeRepositoryName(exclusion)] = struct{}{}
	}

	targetsByName := make(map[string]shared.RepositoryRef, len(targetRepositories))
	for _, targetRepository := range targetRepositories {
		normalizedName := targetRepository.NormalizedName()
		if _, alreadySeen := targetsByName[normalizedName]; alreadySeen {
			continue
		}
		targetsByName[normalizedName] = targetRepository
	}

	duplicateSet := make(shared.DuplicateSet, 0)
	for _, sourceRepository := range sourceRepositories {
		normalizedName := sourceRepository.NormalizedName()
		if _, excluded := excludedNames[normalizedName]; excluded {
			continue
		}
		counterpart, found := targetsByName[normalizedName]
		if !found {
			continue
		}
		duplicateSet = append(duplicateSet, shared.DuplicatePair{Source: sourceRepository, Counterpart: counterpart})
	}

	return duplicateSet
}
