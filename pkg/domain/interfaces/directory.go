package interfaces

import (
	"context"

	"github.com/m-mizutani/leakhound/pkg/domain/model"
)

// IdentityDirectory defines operations against the external system of
// record for principals and their credentials. Implementations must be safe
// for concurrent use; the core holds no credential state of its own.
type IdentityDirectory interface {
	// ListIdentities returns the names of all principals in the directory
	ListIdentities(ctx context.Context) ([]string, error)

	// ListCredentials returns the credentials owned by a principal
	ListCredentials(ctx context.Context, principal string) ([]model.CredentialRecord, error)

	// SetCredentialStatus transitions a credential to the given status
	SetCredentialStatus(ctx context.Context, principal, credentialID string, status model.CredentialStatus) error
}
