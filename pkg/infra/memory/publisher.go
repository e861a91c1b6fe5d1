package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/leakhound/pkg/domain/interfaces"
	"github.com/m-mizutani/leakhound/pkg/domain/model"
)

// Publisher is an in-memory AlertPublisher capturing published alerts
type Publisher struct {
	mu         sync.Mutex
	alerts     []*model.AlertMessage
	PublishErr error
}

var _ interfaces.AlertPublisher = &Publisher{}

// NewPublisher creates an in-memory alert publisher
func NewPublisher() *Publisher {
	return &Publisher{}
}

func (p *Publisher) Publish(ctx context.Context, alert *model.AlertMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.PublishErr != nil {
		return p.PublishErr
	}
	p.alerts = append(p.alerts, alert)
	return nil
}

// Alerts returns the alerts published so far
func (p *Publisher) Alerts() []*model.AlertMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*model.AlertMessage{}, p.alerts...)
}
