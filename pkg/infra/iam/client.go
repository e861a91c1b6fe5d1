package iam

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/leakhound/pkg/domain/interfaces"
	"github.com/m-mizutani/leakhound/pkg/domain/model"
)

// API is the subset of the IAM service client this package uses.
type API interface {
	ListUsers(ctx context.Context, params *iam.ListUsersInput, optFns ...func(*iam.Options)) (*iam.ListUsersOutput, error)
	ListAccessKeys(ctx context.Context, params *iam.ListAccessKeysInput, optFns ...func(*iam.Options)) (*iam.ListAccessKeysOutput, error)
	UpdateAccessKey(ctx context.Context, params *iam.UpdateAccessKeyInput, optFns ...func(*iam.Options)) (*iam.UpdateAccessKeyOutput, error)
}

type client struct {
	iamClient API
}

// New creates an identity directory backed by AWS IAM using the default
// credential chain.
func New(ctx context.Context, region string) (interfaces.IdentityDirectory, error) {
	var optFns []func(*awsconfig.LoadOptions) error
	if region != "" {
		optFns = append(optFns, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load AWS configuration")
	}

	return &client{iamClient: iam.NewFromConfig(cfg)}, nil
}

// NewWithAPI creates an identity directory over an existing IAM API client
func NewWithAPI(api API) interfaces.IdentityDirectory {
	return &client{iamClient: api}
}

// ListIdentities returns all IAM user names, following pagination.
func (c *client) ListIdentities(ctx context.Context) ([]string, error) {
	var principals []string

	input := &iam.ListUsersInput{}
	for {
		out, err := c.iamClient.ListUsers(ctx, input)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list IAM users")
		}
		for _, user := range out.Users {
			principals = append(principals, aws.ToString(user.UserName))
		}
		if !out.IsTruncated {
			return principals, nil
		}
		input.Marker = out.Marker
	}
}

// ListCredentials returns the access keys owned by an IAM user.
func (c *client) ListCredentials(ctx context.Context, principal string) ([]model.CredentialRecord, error) {
	out, err := c.iamClient.ListAccessKeys(ctx, &iam.ListAccessKeysInput{
		UserName: aws.String(principal),
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list access keys",
			goerr.V("principal", principal))
	}

	credentials := make([]model.CredentialRecord, 0, len(out.AccessKeyMetadata))
	for _, meta := range out.AccessKeyMetadata {
		credentials = append(credentials, model.CredentialRecord{
			ID:     aws.ToString(meta.AccessKeyId),
			Status: toCredentialStatus(meta.Status),
		})
	}
	return credentials, nil
}

// SetCredentialStatus updates the status of an IAM access key.
func (c *client) SetCredentialStatus(ctx context.Context, principal, credentialID string, status model.CredentialStatus) error {
	_, err := c.iamClient.UpdateAccessKey(ctx, &iam.UpdateAccessKeyInput{
		UserName:    aws.String(principal),
		AccessKeyId: aws.String(credentialID),
		Status:      toStatusType(status),
	})
	if err != nil {
		return goerr.Wrap(err, "failed to update access key status",
			goerr.V("principal", principal))
	}
	return nil
}

func toCredentialStatus(status iamtypes.StatusType) model.CredentialStatus {
	if status == iamtypes.StatusTypeActive {
		return model.CredentialActive
	}
	return model.CredentialInactive
}

func toStatusType(status model.CredentialStatus) iamtypes.StatusType {
	if status == model.CredentialActive {
		return iamtypes.StatusTypeActive
	}
	return iamtypes.StatusTypeInactive
}
