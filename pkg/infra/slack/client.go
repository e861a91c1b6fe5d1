package slack

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/leakhound/pkg/domain/interfaces"
	"github.com/m-mizutani/leakhound/pkg/domain/model"
	"github.com/m-mizutani/leakhound/pkg/domain/types"
	"github.com/slack-go/slack"
)

// API is the subset of the Slack client this package uses.
type API interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

type publisher struct {
	slackClient API
	channelID   string
}

// New creates an alert publisher that posts to a Slack channel
func New(oauthToken, channelID string) interfaces.AlertPublisher {
	return &publisher{
		slackClient: slack.New(oauthToken),
		channelID:   channelID,
	}
}

// NewWithAPI creates a Slack alert publisher over an existing API client
func NewWithAPI(api API, channelID string) interfaces.AlertPublisher {
	return &publisher{slackClient: api, channelID: channelID}
}

// Publish posts one alert as an attachment. Only the masked key ID is sent
// to Slack; the full ID goes to the audit channel (SNS) instead.
func (p *publisher) Publish(ctx context.Context, alert *model.AlertMessage) error {
	if p.channelID == "" {
		return goerr.New("slack channel is not configured",
			goerr.T(types.ErrTagPublishFailed))
	}

	attachment := slack.Attachment{
		Color: outcomeColor(alert.Outcome),
		Title: alert.Subject(),
		Fields: []slack.AttachmentField{
			{Title: "Access Key", Value: model.MaskKeyID(alert.AccessKeyID), Short: true},
			{Title: "Owner", Value: orUnknown(alert.Principal), Short: true},
			{Title: "Repository", Value: orUnknown(alert.Repository), Short: true},
			{Title: "Pusher", Value: orUnknown(alert.Pusher), Short: true},
			{Title: "Action Taken", Value: string(alert.Outcome), Short: true},
			{Title: "Alert ID", Value: alert.ID.String(), Short: true},
		},
	}

	_, _, err := p.slackClient.PostMessageContext(ctx, p.channelID,
		slack.MsgOptionText("Leaked AWS access key detected", false),
		slack.MsgOptionAttachments(attachment),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post alert to Slack",
			goerr.T(types.ErrTagPublishFailed),
			goerr.V("alert_id", alert.ID.String()),
		)
	}

	return nil
}

func outcomeColor(outcome model.RemediationOutcome) string {
	switch outcome {
	case model.OutcomeDisabled, model.OutcomeAlreadyInactive:
		return "good"
	case model.OutcomeOwnerNotFound:
		return "warning"
	default:
		return "danger"
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
