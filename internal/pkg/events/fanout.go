package events

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/sse"
)

type hubPublisher struct {
	hub *sse.Hub
}

// NewHubPublisher pushes events to the company's open SSE streams.
func NewHubPublisher(hub *sse.Hub) Publisher {
	return hubPublisher{hub: hub}
}

func (p hubPublisher) Publish(_ context.Context, event Event) error {
	p.hub.Publish(sse.Event{
		CompanyID: event.CompanyID,
		Event:     event.Type,
		Data:      event,
	})
	return nil
}

func (hubPublisher) Close() error { return nil }

type multiPublisher []Publisher

// NewMultiPublisher delivers each event to every publisher and joins their errors.
func NewMultiPublisher(publishers ...Publisher) Publisher {
	return multiPublisher(publishers)
}

func (m multiPublisher) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m multiPublisher) Close() error {
	var errs []error
	for _, p := range m {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
