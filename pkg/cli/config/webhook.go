package config

import "github.com/urfave/cli/v3"

// Webhook holds webhook verification configuration
type Webhook struct {
	SharedSecret string `masq:"secret"`
}

// Flags returns CLI flags for webhook configuration. The shared secret is
// required: without it every signature check would fail closed, so refusing
// to start is the more useful failure.
func (c *Webhook) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "webhook-secret",
			Usage:       "Shared secret for webhook signature verification",
			Required:    true,
			Destination: &c.SharedSecret,
			Sources:     cli.EnvVars("WEBHOOK_SHARED_SECRET"),
		},
	}
}
