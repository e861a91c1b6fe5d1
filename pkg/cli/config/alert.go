package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// AlertRoute is one additional fan-out destination from the routes file
type AlertRoute struct {
	Type     string `toml:"type"`      // "sns" or "slack"
	TopicARN string `toml:"topic_arn"` // for sns routes
	Channel  string `toml:"channel"`   // for slack routes
}

type alertRoutesFile struct {
	Routes []AlertRoute `toml:"routes"`
}

// Alert holds alert fan-out configuration
type Alert struct {
	TopicARN     string
	SlackToken   string `masq:"secret"`
	SlackChannel string
	RoutesFile   string
}

// Flags returns CLI flags for alert configuration
func (c *Alert) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "alert-channel-id",
			Usage:       "SNS topic ARN for alert publishing",
			Destination: &c.TopicARN,
			Sources:     cli.EnvVars("ALERT_CHANNEL_ID"),
		},
		&cli.StringFlag{
			Name:        "slack-oauth-token",
			Usage:       "Slack bot token for alert publishing",
			Destination: &c.SlackToken,
			Sources:     cli.EnvVars("LEAKHOUND_SLACK_OAUTH_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel ID for alert publishing",
			Destination: &c.SlackChannel,
			Sources:     cli.EnvVars("LEAKHOUND_SLACK_CHANNEL"),
		},
		&cli.StringFlag{
			Name:        "alert-routes",
			Usage:       "Path to TOML file with additional alert routes",
			Destination: &c.RoutesFile,
			Sources:     cli.EnvVars("LEAKHOUND_ALERT_ROUTES"),
		},
	}
}

// LoadRoutes reads the optional alert routes file. No file configured means
// no extra routes.
func (c *Alert) LoadRoutes() ([]AlertRoute, error) {
	if c.RoutesFile == "" {
		return nil, nil
	}

	data, err := os.ReadFile(c.RoutesFile)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read alert routes file",
			goerr.V("path", c.RoutesFile))
	}

	var parsed alertRoutesFile
	if err := toml.Unmarshal(data, &parsed); err != nil {
		return nil, goerr.Wrap(err, "failed to parse alert routes file",
			goerr.V("path", c.RoutesFile))
	}

	for _, route := range parsed.Routes {
		switch route.Type {
		case "sns":
			if route.TopicARN == "" {
				return nil, goerr.New("sns route requires topic_arn")
			}
		case "slack":
			if route.Channel == "" {
				return nil, goerr.New("slack route requires channel")
			}
		default:
			return nil, goerr.New("unknown alert route type",
				goerr.V("type", route.Type))
		}
	}

	return parsed.Routes, nil
}
