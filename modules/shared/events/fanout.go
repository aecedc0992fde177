package events

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// PublishConcurrently dispatches every event through publish in its own
// goroutine and waits for all of them. The first error is returned and the
// shared context is cancelled; events already handed off stay published.
func PublishConcurrently(ctx context.Context, evts []Event, publish func(ctx context.Context, event Event) error) error {
	switch len(evts) {
	case 0:
		return nil
	case 1:
		return publish(ctx, evts[0])
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, event := range evts {
		g.Go(func() error {
			return publish(ctx, event)
		})
	}
	return g.Wait()
}
