package shared

// OutcomeStatus enumerates per-item results of batch operations.
type OutcomeStatus string

// Supported outcome statuses.
const (
	OutcomeSuccess OutcomeStatus = "success"
	OutcomeSkipped OutcomeStatus = "skipped"
	OutcomeFailed  OutcomeStatus = "failed"
)

// OperationOutcome records the result of acting on one repository. Batch
// operations accumulate one outcome per item; items never roll back their
// predecessors.
type OperationOutcome struct {
	Status     OutcomeStatus `yaml:"status"`
	Repository RepositoryRef `yaml:"-"`
	FullName   string        `yaml:"repository"`
	Detail     string        `yaml:"detail,omitempty"`
}

// NewOperationOutcome builds an outcome for the provided repository.
func NewOperationOutcome(status OutcomeStatus, repository RepositoryRef, detail string) OperationOutcome {
	return OperationOutcome{
		Status:     status,
		Repository: repository,
		FullName:   repository.FullName(),
		Detail:     detail,
	}
}
