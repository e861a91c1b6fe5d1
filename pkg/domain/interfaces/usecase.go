package interfaces

import (
	"context"

	"github.com/m-mizutani/leakhound/pkg/domain/model"
)

// RemediationUseCase defines the interface for push event processing
type RemediationUseCase interface {
	// ProcessPush scans a push event for leaked access keys and remediates
	// every distinct candidate found. It returns an error only when the
	// event itself could not be evaluated; per-candidate failures are
	// reported in the returned report and through the alert channel.
	ProcessPush(ctx context.Context, event *model.PushEvent) (*model.RemediationReport, error)
}
