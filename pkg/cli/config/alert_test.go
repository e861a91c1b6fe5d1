package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/leakhound/pkg/cli/config"
)

func writeRoutesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "routes.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestAlert_LoadRoutes(t *testing.T) {
	t.Run("No file configured", func(t *testing.T) {
		cfg := config.Alert{}
		routes, err := cfg.LoadRoutes()
		gt.NoError(t, err)
		gt.V(t, len(routes)).Equal(0)
	})

	t.Run("Valid routes", func(t *testing.T) {
		cfg := config.Alert{RoutesFile: writeRoutesFile(t, `
[[routes]]
type = "sns"
topic_arn = "arn:aws:sns:us-east-1:123456789012:security-alerts"

[[routes]]
type = "slack"
channel = "C0123456789"
`)}
		routes, err := cfg.LoadRoutes()
		gt.NoError(t, err)
		gt.V(t, len(routes)).Equal(2)
		gt.V(t, routes[0].Type).Equal("sns")
		gt.V(t, routes[0].TopicARN).Equal("arn:aws:sns:us-east-1:123456789012:security-alerts")
		gt.V(t, routes[1].Type).Equal("slack")
		gt.V(t, routes[1].Channel).Equal("C0123456789")
	})

	t.Run("Unknown route type", func(t *testing.T) {
		cfg := config.Alert{RoutesFile: writeRoutesFile(t, `
[[routes]]
type = "pagerduty"
`)}
		_, err := cfg.LoadRoutes()
		gt.Error(t, err)
	})

	t.Run("SNS route without topic", func(t *testing.T) {
		cfg := config.Alert{RoutesFile: writeRoutesFile(t, `
[[routes]]
type = "sns"
`)}
		_, err := cfg.LoadRoutes()
		gt.Error(t, err)
	})

	t.Run("Missing file", func(t *testing.T) {
		cfg := config.Alert{RoutesFile: "/no/such/file.toml"}
		_, err := cfg.LoadRoutes()
		gt.Error(t, err)
	})

	t.Run("Invalid TOML", func(t *testing.T) {
		cfg := config.Alert{RoutesFile: writeRoutesFile(t, `routes = [`)}
		_, err := cfg.LoadRoutes()
		gt.Error(t, err)
	})
}
