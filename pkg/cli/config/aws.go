package config

import "github.com/urfave/cli/v3"

// AWS holds AWS client configuration
type AWS struct {
	Region string
}

// Flags returns CLI flags for AWS configuration
func (c *AWS) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "aws-region",
			Usage:       "AWS region for IAM and SNS clients",
			Destination: &c.Region,
			Sources:     cli.EnvVars("AWS_REGION", "AWS_DEFAULT_REGION"),
		},
	}
}
