package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/leakhound/pkg/domain/interfaces"
	"github.com/m-mizutani/leakhound/pkg/domain/model"
	"github.com/m-mizutani/leakhound/pkg/infra/memory"
	"github.com/m-mizutani/leakhound/pkg/usecase"
)

func pushEventWithDiff(diff string) *model.PushEvent {
	return &model.PushEvent{
		Repository: "acme/service",
		Pusher:     "bob",
		Ref:        "refs/heads/main",
		Commits: []model.Commit{
			{
				Message: "add key",
				Added:   []string{"cfg.txt"},
				Diff:    diff,
			},
		},
		ReceivedAt: time.Now(),
	}
}

func TestRemediation_DisableActiveKey(t *testing.T) {
	ctx := context.Background()

	directory := memory.NewDirectory(model.IdentityRecord{
		Principal: "alice",
		Credentials: []model.CredentialRecord{
			{ID: "AKIA1111111111111111", Status: model.CredentialActive},
		},
	})
	publisher := memory.NewPublisher()

	uc := usecase.NewRemediation(directory, []interfaces.AlertPublisher{publisher})

	report, err := uc.ProcessPush(ctx, pushEventWithDiff("AKIA1111111111111111"))
	gt.NoError(t, err)
	gt.V(t, len(report.Results)).Equal(1)
	gt.V(t, report.Results[0].Outcome).Equal(model.OutcomeDisabled)
	gt.V(t, report.Results[0].Principal).Equal("alice")

	status, ok := directory.CredentialStatus("alice", "AKIA1111111111111111")
	gt.V(t, ok).Equal(true)
	gt.V(t, status).Equal(model.CredentialInactive)

	alerts := publisher.Alerts()
	gt.V(t, len(alerts)).Equal(1)
	gt.V(t, alerts[0].Principal).Equal("alice")
	gt.V(t, alerts[0].Outcome).Equal(model.OutcomeDisabled)
	gt.V(t, alerts[0].Repository).Equal("acme/service")
}

func TestRemediation_DuplicateKeyAcrossCommits(t *testing.T) {
	ctx := context.Background()

	directory := memory.NewDirectory(model.IdentityRecord{
		Principal: "alice",
		Credentials: []model.CredentialRecord{
			{ID: "AKIA1111111111111111", Status: model.CredentialActive},
		},
	})
	publisher := memory.NewPublisher()

	uc := usecase.NewRemediation(directory, []interfaces.AlertPublisher{publisher})

	event := &model.PushEvent{
		Commits: []model.Commit{
			{Message: "leak AKIA1111111111111111"},
			{Diff: "+AKIA1111111111111111"},
			{Added: []string{"AKIA1111111111111111.key"}},
		},
	}

	report, err := uc.ProcessPush(ctx, event)
	gt.NoError(t, err)

	// One remediation attempt and one alert for the deduplicated value
	gt.V(t, len(report.Results)).Equal(1)
	gt.V(t, directory.SetStatusCalls).Equal(1)
	gt.V(t, len(publisher.Alerts())).Equal(1)
}

func TestRemediation_AlreadyInactiveIsIdempotent(t *testing.T) {
	ctx := context.Background()

	directory := memory.NewDirectory(model.IdentityRecord{
		Principal: "alice",
		Credentials: []model.CredentialRecord{
			{ID: "AKIA1111111111111111", Status: model.CredentialInactive},
		},
	})
	publisher := memory.NewPublisher()

	uc := usecase.NewRemediation(directory, []interfaces.AlertPublisher{publisher})
	event := pushEventWithDiff("AKIA1111111111111111")

	// Two deliveries of the same event, e.g. a webhook redelivery
	for i := 0; i < 2; i++ {
		report, err := uc.ProcessPush(ctx, event)
		gt.NoError(t, err)
		gt.V(t, len(report.Results)).Equal(1)
		gt.V(t, report.Results[0].Outcome).Equal(model.OutcomeAlreadyInactive)
	}

	// No mutation was ever attempted
	gt.V(t, directory.SetStatusCalls).Equal(0)
	gt.V(t, len(publisher.Alerts())).Equal(2)
}

func TestRemediation_OwnerNotFound(t *testing.T) {
	ctx := context.Background()

	directory := memory.NewDirectory(model.IdentityRecord{
		Principal: "alice",
		Credentials: []model.CredentialRecord{
			{ID: "AKIA9999999999999999", Status: model.CredentialActive},
		},
	})
	publisher := memory.NewPublisher()

	uc := usecase.NewRemediation(directory, []interfaces.AlertPublisher{publisher})

	report, err := uc.ProcessPush(ctx, pushEventWithDiff("AKIA1111111111111111"))
	gt.NoError(t, err)
	gt.V(t, len(report.Results)).Equal(1)
	gt.V(t, report.Results[0].Outcome).Equal(model.OutcomeOwnerNotFound)
	gt.V(t, report.Results[0].Principal).Equal("")

	alerts := publisher.Alerts()
	gt.V(t, len(alerts)).Equal(1)
	gt.V(t, alerts[0].Principal).Equal("")
}

func TestRemediation_LookupFailedIsDistinctFromNotFound(t *testing.T) {
	ctx := context.Background()

	directory := memory.NewDirectory()
	directory.ListIdentitiesErr = errors.New("directory unreachable")
	publisher := memory.NewPublisher()

	uc := usecase.NewRemediation(directory, []interfaces.AlertPublisher{publisher})

	report, err := uc.ProcessPush(ctx, pushEventWithDiff("AKIA1111111111111111"))
	gt.NoError(t, err)
	gt.V(t, len(report.Results)).Equal(1)
	gt.V(t, report.Results[0].Outcome).Equal(model.OutcomeLookupFailed)
	gt.Error(t, report.Results[0].Err)
	gt.V(t, len(publisher.Alerts())).Equal(1)
}

func TestRemediation_DeactivationFailed(t *testing.T) {
	ctx := context.Background()

	directory := memory.NewDirectory(model.IdentityRecord{
		Principal: "alice",
		Credentials: []model.CredentialRecord{
			{ID: "AKIA1111111111111111", Status: model.CredentialActive},
		},
	})
	directory.SetStatusErr = errors.New("access denied")
	publisher := memory.NewPublisher()

	uc := usecase.NewRemediation(directory, []interfaces.AlertPublisher{publisher})

	report, err := uc.ProcessPush(ctx, pushEventWithDiff("AKIA1111111111111111"))
	gt.NoError(t, err)
	gt.V(t, report.Results[0].Outcome).Equal(model.OutcomeDeactivationFailed)
	gt.V(t, report.Results[0].Principal).Equal("alice")
	gt.V(t, len(publisher.Alerts())).Equal(1)
}

func TestRemediation_PerCandidateFailureDoesNotAbortOthers(t *testing.T) {
	ctx := context.Background()

	// AKIA0... has no owner, AKIA1... is active and owned
	directory := memory.NewDirectory(model.IdentityRecord{
		Principal: "alice",
		Credentials: []model.CredentialRecord{
			{ID: "AKIA1111111111111111", Status: model.CredentialActive},
		},
	})
	publisher := memory.NewPublisher()

	uc := usecase.NewRemediation(directory, []interfaces.AlertPublisher{publisher})

	report, err := uc.ProcessPush(ctx, pushEventWithDiff(
		"AKIA0000000000000000\nAKIA1111111111111111",
	))
	gt.NoError(t, err)
	gt.V(t, len(report.Results)).Equal(2)

	outcomes := map[string]model.RemediationOutcome{}
	for _, result := range report.Results {
		outcomes[result.AccessKeyID] = result.Outcome
	}
	gt.V(t, outcomes["AKIA0000000000000000"]).Equal(model.OutcomeOwnerNotFound)
	gt.V(t, outcomes["AKIA1111111111111111"]).Equal(model.OutcomeDisabled)
	gt.V(t, len(publisher.Alerts())).Equal(2)
}

func TestRemediation_PublishFailureDoesNotFailInvocation(t *testing.T) {
	ctx := context.Background()

	directory := memory.NewDirectory(model.IdentityRecord{
		Principal: "alice",
		Credentials: []model.CredentialRecord{
			{ID: "AKIA1111111111111111", Status: model.CredentialActive},
		},
	})
	broken := memory.NewPublisher()
	broken.PublishErr = errors.New("channel unreachable")
	working := memory.NewPublisher()

	uc := usecase.NewRemediation(directory, []interfaces.AlertPublisher{broken, working})

	report, err := uc.ProcessPush(ctx, pushEventWithDiff("AKIA1111111111111111"))
	gt.NoError(t, err)
	gt.V(t, report.Results[0].Outcome).Equal(model.OutcomeDisabled)

	// The other channel still received the alert
	gt.V(t, len(working.Alerts())).Equal(1)
}

func TestRemediation_NoCandidatesMakesNoExternalCalls(t *testing.T) {
	ctx := context.Background()

	directory := memory.NewDirectory()
	publisher := memory.NewPublisher()

	uc := usecase.NewRemediation(directory, []interfaces.AlertPublisher{publisher})

	report, err := uc.ProcessPush(ctx, pushEventWithDiff("nothing secret here"))
	gt.NoError(t, err)
	gt.V(t, len(report.Results)).Equal(0)
	gt.V(t, directory.LookupCalls).Equal(0)
	gt.V(t, directory.SetStatusCalls).Equal(0)
	gt.V(t, len(publisher.Alerts())).Equal(0)
}

func TestRemediation_AlertTimestampUsesClock(t *testing.T) {
	ctx := context.Background()

	directory := memory.NewDirectory()
	publisher := memory.NewPublisher()
	fixed := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	uc := usecase.NewRemediation(directory, []interfaces.AlertPublisher{publisher},
		usecase.WithClock(func() time.Time { return fixed }),
	)

	_, err := uc.ProcessPush(ctx, pushEventWithDiff("AKIA1111111111111111"))
	gt.NoError(t, err)

	alerts := publisher.Alerts()
	gt.V(t, len(alerts)).Equal(1)
	gt.V(t, alerts[0].DetectedAt).Equal(fixed)
}
