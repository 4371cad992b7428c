package shared

// ConfirmationPolicy specifies how commands handle user confirmations.
type ConfirmationPolicy int

const (
	// ConfirmationPrompt indicates the command should prompt the user per item.
	ConfirmationPrompt ConfirmationPolicy = iota
	// ConfirmationAssumeYes indicates the command should continue without prompting.
	ConfirmationAssumeYes
)

// ConfirmationPolicyFromBool converts an assume-yes flag into a policy.
func ConfirmationPolicyFromBool(assumeYes bool) ConfirmationPolicy {
	if assumeYes {
		return ConfirmationAssumeYes
	}
	return ConfirmationPrompt
}

// ShouldPrompt reports whether the command must prompt the user.
func (policy ConfirmationPolicy) ShouldPrompt() bool {
	return policy != ConfirmationAssumeYes
}

// ShouldAssumeYes reports whether prompting can be skipped.
func (policy ConfirmationPolicy) ShouldAssumeYes() bool {
	return policy == ConfirmationAssumeYes
}

// ConfirmationPrompter collects user confirmations prior to destructive
// actions. Core services never prompt; callers resolve confirmation first
// and pass the result in as a boolean.
type ConfirmationPrompter interface {
	Confirm(prompt string) (bool, error)
}
