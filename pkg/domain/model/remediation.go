package model

// CredentialStatus represents the lifecycle state of an access key in the
// identity directory.
type CredentialStatus string

const (
	CredentialActive   CredentialStatus = "Active"
	CredentialInactive CredentialStatus = "Inactive"
)

// CredentialRecord is one access key as reported by the identity directory.
type CredentialRecord struct {
	ID     string
	Status CredentialStatus
}

// IdentityRecord is a principal and the credentials it owns.
type IdentityRecord struct {
	Principal   string
	Credentials []CredentialRecord
}

// RemediationOutcome is the terminal state reached for one candidate key.
type RemediationOutcome string

const (
	// OutcomeDisabled means the key was Active and is now Inactive.
	OutcomeDisabled RemediationOutcome = "disabled"
	// OutcomeAlreadyInactive means the key was Inactive before we touched it.
	OutcomeAlreadyInactive RemediationOutcome = "already_inactive"
	// OutcomeOwnerNotFound means no identity owns the key.
	OutcomeOwnerNotFound RemediationOutcome = "owner_not_found"
	// OutcomeLookupFailed means the directory errored during resolution.
	OutcomeLookupFailed RemediationOutcome = "lookup_failed"
	// OutcomeDeactivationFailed means the status mutation was rejected.
	OutcomeDeactivationFailed RemediationOutcome = "deactivation_failed"
)

// RemediationResult records what happened to one candidate key.
type RemediationResult struct {
	AccessKeyID string
	Principal   string
	Outcome     RemediationOutcome
	Err         error
}

// RemediationReport aggregates the per-candidate results of one invocation.
type RemediationReport struct {
	Results []RemediationResult
}
