package shared

import (
	"fmt"
	"strings"
)

const (
	fullNameTemplateConstant               = "%s/%s"
	redactedTokenPlaceholderConstant       = "[redacted]"
	accountHandleTemplateConstant          = "%s (token %s)"
	unsupportedFilterMessageConstant       = "unsupported repository filter"
	unsupportedFilterErrorTemplateConstant = "%s: %q"
)

// RepositoryVisibility enumerates repository visibility levels.
type RepositoryVisibility string

// Supported visibility values.
const (
	VisibilityPublic  RepositoryVisibility = "public"
	VisibilityPrivate RepositoryVisibility = "private"
)

// RepositoryRole enumerates the relationship between an account and a repository.
type RepositoryRole string

// Supported role values.
const (
	RoleOwner        RepositoryRole = "owner"
	RoleCollaborator RepositoryRole = "collaborator"
)

// RepositoryFilter selects which repositories a listing call returns.
type RepositoryFilter string

// Supported listing filters.
const (
	FilterAll          RepositoryFilter = "all"
	FilterOwner        RepositoryFilter = "owner"
	FilterCollaborator RepositoryFilter = "collaborator"
)

// ParseRepositoryFilter validates a textual filter value.
func ParseRepositoryFilter(raw string) (RepositoryFilter, error) {
	normalized := RepositoryFilter(strings.ToLower(strings.TrimSpace(raw)))
	switch normalized {
	case FilterAll, FilterOwner, FilterCollaborator:
		return normalized, nil
	default:
		return "", fmt.Errorf(unsupportedFilterErrorTemplateConstant, unsupportedFilterMessageConstant, raw)
	}
}

// RepositoryRef is an immutable snapshot of a remote repository. It is
// re-fetched before every destructive action rather than cached.
type RepositoryRef struct {
	Owner      string
	Name       string
	Visibility RepositoryVisibility
	Role       RepositoryRole
	Fork       bool
	Stargazers int
	Forks      int
	URL        string
}

// FullName returns the owner/name identifier for the repository.
func (reference RepositoryRef) FullName() string {
	return fmt.Sprintf(fullNameTemplateConstant, reference.Owner, reference.Name)
}

// NormalizedName returns the trimmed, lowercased repository name used for
// duplicate matching and exclusion checks.
func (reference RepositoryRef) NormalizedName() string {
	return NormalizeRepositoryName(reference.Name)
}

// NormalizeRepositoryName applies the duplicate-matching normalization rule.
func NormalizeRepositoryName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// AccountHandle carries the credentials for one account. Tokens live in
// process memory only and are excluded from textual representations.
type AccountHandle struct {
	Username string
	Token    string
}

// String renders the handle with the token redacted.
func (handle AccountHandle) String() string {
	return fmt.Sprintf(accountHandleTemplateConstant, handle.Username, redactedTokenPlaceholderConstant)
}

// TransferStrategy selects how repository ownership moves between accounts.
type TransferStrategy string

// Supported transfer strategies.
const (
	// TransferStrategyNative relies on the platform transfer endpoint, which
	// moves history authoritatively without a manual push.
	TransferStrategyNative TransferStrategy = "native"
	// TransferStrategyMirror clones a bare mirror, creates the destination
	// repository, and pushes every ref by hand.
	TransferStrategyMirror TransferStrategy = "mirror"
)

// TransferPlan describes one confirmed repository transfer. A plan is
// consumed exactly once and never retried automatically.
type TransferPlan struct {
	Source             RepositoryRef
	DestinationAccount AccountHandle
	DeleteSourceAfter  bool
	Strategy           TransferStrategy
}

// DuplicatePair joins a source repository with its same-named counterpart.
type DuplicatePair struct {
	Source      RepositoryRef
	Counterpart RepositoryRef
}

// DuplicateSet is an ordered sequence of duplicate pairs following the
// source listing iteration order.
type DuplicateSet []DuplicatePair

// AccountStatistics captures the basic profile figures for one account.
type AccountStatistics struct {
	Login       string `yaml:"login"`
	Name        string `yaml:"name"`
	PublicRepos int    `yaml:"public_repos"`
	Followers   int    `yaml:"followers"`
	Following   int    `yaml:"following"`
	CreatedAt   string `yaml:"created_at"`
}

// RepositorySummary aggregates a repository listing.
type RepositorySummary struct {
	Total        int `yaml:"total"`
	Owned        int `yaml:"owned"`
	Collaborated int `yaml:"collaborated"`
	Forks        int `yaml:"forks"`
	TotalStars   int `yaml:"total_stars"`
	TotalForks   int `yaml:"total_forks"`
}
