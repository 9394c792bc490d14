package store

import (
	"context"
	"fmt"
)

const quotationChannel = "quotation_events"

// QuotationEvent is one change notification from the quotations table.
// The payload carries the quotation ID.
type QuotationEvent struct {
	QuotationID string
}

// Subscription is a scoped LISTEN on quotation changes. It holds a
// dedicated connection from the pool until Close is called; callers must
// release it when the filter it was acquired for goes away.
type Subscription struct {
	events chan QuotationEvent
	cancel context.CancelFunc
}

func (s *Subscription) Events() <-chan QuotationEvent {
	return s.events
}

func (s *Subscription) Close() {
	s.cancel()
}

// Subscribe acquires a connection, issues LISTEN, and forwards
// notifications until the subscription is closed or ctx ends. Slow
// consumers drop events rather than block the listener.
func (r *QuotationRepository) Subscribe(ctx context.Context) (*Subscription, error) {

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire listen connection: %w", err)
	}

	_, err = conn.Exec(ctx, "listen "+quotationChannel)
	if err != nil {
		conn.Release()
		return nil, fmt.Errorf("failed to listen on %s: %w", quotationChannel, err)
	}

	subCtx, cancel := context.WithCancel(ctx)

	sub := &Subscription{
		events: make(chan QuotationEvent, 16),
		cancel: cancel,
	}

	go func() {
		defer conn.Release()
		defer close(sub.events)

		for {
			notification, err := conn.Conn().WaitForNotification(subCtx)
			if err != nil {
				return
			}

			select {
			case sub.events <- QuotationEvent{QuotationID: notification.Payload}:
			default:
			}
		}
	}()

	return sub, nil
}
