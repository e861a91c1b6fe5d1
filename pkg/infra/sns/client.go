package sns

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/leakhound/pkg/domain/interfaces"
	"github.com/m-mizutani/leakhound/pkg/domain/model"
	"github.com/m-mizutani/leakhound/pkg/domain/types"
)

// SNS caps notification subjects at 100 characters.
const maxSubjectLen = 100

// API is the subset of the SNS service client this package uses.
type API interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type publisher struct {
	snsClient API
	topicARN  string
}

// New creates an alert publisher backed by an SNS topic using the default
// credential chain. An empty topic ARN is accepted here: the publisher is
// still constructed and every publish fails with a tagged error, so a
// missing destination surfaces as a failure rather than a silent bypass.
func New(ctx context.Context, region, topicARN string) (interfaces.AlertPublisher, error) {
	var optFns []func(*awsconfig.LoadOptions) error
	if region != "" {
		optFns = append(optFns, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load AWS configuration")
	}

	return &publisher{snsClient: sns.NewFromConfig(cfg), topicARN: topicARN}, nil
}

// NewWithAPI creates an SNS alert publisher over an existing API client
func NewWithAPI(api API, topicARN string) interfaces.AlertPublisher {
	return &publisher{snsClient: api, topicARN: topicARN}
}

// Publish sends one alert to the configured topic.
func (p *publisher) Publish(ctx context.Context, alert *model.AlertMessage) error {
	if p.topicARN == "" {
		return goerr.New("alert topic is not configured",
			goerr.T(types.ErrTagPublishFailed))
	}

	subject := alert.Subject()
	if len(subject) > maxSubjectLen {
		subject = subject[:maxSubjectLen]
	}

	if _, err := p.snsClient.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(alert.Body()),
	}); err != nil {
		return goerr.Wrap(err, "failed to publish alert to SNS",
			goerr.T(types.ErrTagPublishFailed),
			goerr.V("alert_id", alert.ID.String()),
		)
	}

	return nil
}
