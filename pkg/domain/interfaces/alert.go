package interfaces

import (
	"context"

	"github.com/m-mizutani/leakhound/pkg/domain/model"
)

// AlertPublisher delivers alert messages to one downstream channel.
type AlertPublisher interface {
	// Publish sends one alert. Failure is the caller's signal to log and
	// move on; it must never abort the invocation.
	Publish(ctx context.Context, alert *model.AlertMessage) error
}
