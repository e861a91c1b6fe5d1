package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/leakhound/pkg/domain/interfaces"
	"github.com/m-mizutani/leakhound/pkg/domain/model"
)

// Directory is an in-memory IdentityDirectory for tests. Errors can be
// injected per operation to exercise failure paths.
type Directory struct {
	mu         sync.Mutex
	identities []model.IdentityRecord

	ListIdentitiesErr  error
	ListCredentialsErr error
	SetStatusErr       error

	SetStatusCalls int
	LookupCalls    int
}

var _ interfaces.IdentityDirectory = &Directory{}

// NewDirectory creates an in-memory directory seeded with the given records
func NewDirectory(identities ...model.IdentityRecord) *Directory {
	return &Directory{identities: identities}
}

func (d *Directory) ListIdentities(ctx context.Context) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.LookupCalls++
	if d.ListIdentitiesErr != nil {
		return nil, d.ListIdentitiesErr
	}

	principals := make([]string, 0, len(d.identities))
	for _, identity := range d.identities {
		principals = append(principals, identity.Principal)
	}
	return principals, nil
}

func (d *Directory) ListCredentials(ctx context.Context, principal string) ([]model.CredentialRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.LookupCalls++
	if d.ListCredentialsErr != nil {
		return nil, d.ListCredentialsErr
	}

	for _, identity := range d.identities {
		if identity.Principal == principal {
			return append([]model.CredentialRecord{}, identity.Credentials...), nil
		}
	}
	return nil, goerr.New("no such principal", goerr.V("principal", principal))
}

func (d *Directory) SetCredentialStatus(ctx context.Context, principal, credentialID string, status model.CredentialStatus) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.SetStatusCalls++
	if d.SetStatusErr != nil {
		return d.SetStatusErr
	}

	for i, identity := range d.identities {
		if identity.Principal != principal {
			continue
		}
		for j, credential := range identity.Credentials {
			if credential.ID == credentialID {
				d.identities[i].Credentials[j].Status = status
				return nil
			}
		}
	}
	return goerr.New("no such credential",
		goerr.V("principal", principal),
		goerr.V("credential_id", credentialID),
	)
}

// CredentialStatus returns the current status of a credential, for
// assertions after a remediation run.
func (d *Directory) CredentialStatus(principal, credentialID string) (model.CredentialStatus, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, identity := range d.identities {
		if identity.Principal != principal {
			continue
		}
		for _, credential := range identity.Credentials {
			if credential.ID == credentialID {
				return credential.Status, true
			}
		}
	}
	return "", false
}
