package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/leakhound/pkg/domain/interfaces"
	"github.com/m-mizutani/leakhound/pkg/domain/model"
	"github.com/m-mizutani/leakhound/pkg/domain/types"
)

type remediationUseCase struct {
	directory  interfaces.IdentityDirectory
	publishers []interfaces.AlertPublisher

	lookupTimeout  time.Duration
	mutateTimeout  time.Duration
	publishTimeout time.Duration
	now            func() time.Time
}

// Option is a functional option for remediation use case configuration
type Option func(*remediationUseCase)

// WithLookupTimeout bounds each directory read during candidate resolution
func WithLookupTimeout(d time.Duration) Option {
	return func(uc *remediationUseCase) {
		uc.lookupTimeout = d
	}
}

// WithMutateTimeout bounds the credential status mutation
func WithMutateTimeout(d time.Duration) Option {
	return func(uc *remediationUseCase) {
		uc.mutateTimeout = d
	}
}

// WithPublishTimeout bounds each alert publish call
func WithPublishTimeout(d time.Duration) Option {
	return func(uc *remediationUseCase) {
		uc.publishTimeout = d
	}
}

// WithClock overrides the timestamp source, for tests
func WithClock(now func() time.Time) Option {
	return func(uc *remediationUseCase) {
		uc.now = now
	}
}

// NewRemediation creates a new instance of RemediationUseCase. The directory
// and publishers are constructed once at process start and injected here so
// the orchestration stays testable against in-memory implementations.
func NewRemediation(directory interfaces.IdentityDirectory, publishers []interfaces.AlertPublisher, opts ...Option) interfaces.RemediationUseCase {
	uc := &remediationUseCase{
		directory:      directory,
		publishers:     publishers,
		lookupTimeout:  10 * time.Second,
		mutateTimeout:  10 * time.Second,
		publishTimeout: 5 * time.Second,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// ProcessPush scans the event's commits for access key IDs and runs the
// resolve → deactivate → alert chain for each distinct candidate. A failure
// in one candidate's chain never aborts the others: the failure becomes
// that candidate's outcome and the invocation still succeeds.
func (uc *remediationUseCase) ProcessPush(ctx context.Context, event *model.PushEvent) (*model.RemediationReport, error) {
	logger := ctxlog.From(ctx)

	texts := make([]string, 0, len(event.Commits))
	for i := range event.Commits {
		texts = append(texts, event.Commits[i].SearchableText())
	}
	keys := scanForAccessKeys(texts...)

	if len(keys) == 0 {
		logger.Info("No access keys detected",
			"repository", event.Repository,
			"commits", len(event.Commits),
		)
		return &model.RemediationReport{}, nil
	}

	logger.Warn("Access keys detected in push",
		"repository", event.Repository,
		"pusher", event.Pusher,
		"count", len(keys),
	)

	report := &model.RemediationReport{
		Results: make([]model.RemediationResult, 0, len(keys)),
	}
	for _, keyID := range keys {
		result := uc.remediate(ctx, keyID)

		logger.Info("Candidate key processed",
			"key", model.MaskKeyID(keyID),
			"principal", result.Principal,
			"outcome", result.Outcome,
			"error", result.Err,
		)

		uc.publish(ctx, model.NewAlertMessage(result, event, uc.now()))
		report.Results = append(report.Results, result)
	}

	return report, nil
}

// remediate resolves one candidate key to its owner and deactivates it if
// it is still active.
func (uc *remediationUseCase) remediate(ctx context.Context, keyID string) model.RemediationResult {
	result := model.RemediationResult{AccessKeyID: keyID}

	principal, credential, err := uc.resolve(ctx, keyID)
	if err != nil {
		result.Outcome = model.OutcomeLookupFailed
		result.Err = err
		return result
	}
	if credential == nil {
		result.Outcome = model.OutcomeOwnerNotFound
		return result
	}
	result.Principal = principal

	if credential.Status == model.CredentialInactive {
		result.Outcome = model.OutcomeAlreadyInactive
		return result
	}

	mutateCtx, cancel := context.WithTimeout(ctx, uc.mutateTimeout)
	defer cancel()
	if err := uc.directory.SetCredentialStatus(mutateCtx, principal, keyID, model.CredentialInactive); err != nil {
		result.Outcome = model.OutcomeDeactivationFailed
		result.Err = goerr.Wrap(err, "failed to deactivate credential",
			goerr.T(types.ErrTagDeactivationFailed),
			goerr.V("principal", principal),
			goerr.V("key", model.MaskKeyID(keyID)),
		)
		return result
	}

	result.Outcome = model.OutcomeDisabled
	return result
}

// resolve scans the directory for the identity owning the given key. A nil
// credential with nil error means no owner exists; an error means the
// directory itself failed, which is a different operator signal.
func (uc *remediationUseCase) resolve(ctx context.Context, keyID string) (string, *model.CredentialRecord, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, uc.lookupTimeout)
	defer cancel()

	principals, err := uc.directory.ListIdentities(lookupCtx)
	if err != nil {
		return "", nil, goerr.Wrap(err, "failed to list identities",
			goerr.T(types.ErrTagLookupFailed))
	}

	for _, principal := range principals {
		credentials, err := uc.directory.ListCredentials(lookupCtx, principal)
		if err != nil {
			return "", nil, goerr.Wrap(err, "failed to list credentials",
				goerr.T(types.ErrTagLookupFailed),
				goerr.V("principal", principal))
		}
		for _, credential := range credentials {
			if credential.ID == keyID {
				return principal, &credential, nil
			}
		}
	}

	return "", nil, nil
}

// publish fans the alert out to every configured channel. Publish failures
// are logged and dropped: the remediation already took effect, and a missed
// alert must not make the sender redeliver the event.
func (uc *remediationUseCase) publish(ctx context.Context, alert *model.AlertMessage) {
	logger := ctxlog.From(ctx)

	for _, publisher := range uc.publishers {
		publishCtx, cancel := context.WithTimeout(ctx, uc.publishTimeout)
		if err := publisher.Publish(publishCtx, alert); err != nil {
			logger.Error("Failed to publish alert",
				"error", err,
				"alert_id", alert.ID,
				"key", model.MaskKeyID(alert.AccessKeyID),
			)
		}
		cancel()
	}
}
