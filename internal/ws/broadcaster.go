package ws

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"workhub-backend/pkg/observability"
)

// Broadcaster fans one payload out to every live connection of the
// addressed users: at-most-once, best-effort, no queued redelivery.
// Recipients who are offline catch up later through history reads.
type Broadcaster struct {
	registry  *Registry
	transport Transport
	logger    *zap.Logger
	metrics   *observability.Metrics
}

func NewBroadcaster(registry *Registry, transport Transport, logger *zap.Logger, metrics *observability.Metrics) *Broadcaster {
	return &Broadcaster{
		registry:  registry,
		transport: transport,
		logger:    logger,
		metrics:   metrics,
	}
}

type deliveryResult struct {
	connectionID string
	err          error
}

// Broadcast resolves the users' connections and delivers to each
// concurrently, settling the whole batch before acting on failures. A
// gone endpoint gets its row reaped; any other failure is logged and
// dropped. Individual failures never abort the rest of the batch and
// never surface to the caller.
func (b *Broadcaster) Broadcast(ctx context.Context, userIDs []string, payload []byte) error {
	connectionIDs, err := b.registry.Resolve(ctx, userIDs)
	if err != nil {
		return err
	}
	if b.metrics != nil {
		b.metrics.ObserveBroadcast(len(connectionIDs))
	}
	if len(connectionIDs) == 0 {
		return nil
	}

	results := make(chan deliveryResult, len(connectionIDs))
	var wg sync.WaitGroup
	for _, connectionID := range connectionIDs {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			results <- deliveryResult{connectionID: id, err: b.transport.Post(ctx, id, payload)}
		}(connectionID)
	}
	wg.Wait()
	close(results)

	for result := range results {
		switch {
		case result.err == nil:
			b.count(observability.DeliveryDelivered)
		case errors.Is(result.err, ErrConnectionGone):
			b.count(observability.DeliveryGone)
			b.logger.Info("reaping stale connection", zap.String("connectionId", result.connectionID))
			if err := b.registry.Unregister(ctx, result.connectionID); err != nil {
				b.logger.Warn("stale connection cleanup failed",
					zap.String("connectionId", result.connectionID),
					zap.Error(err))
			}
		default:
			b.count(observability.DeliveryFailed)
			b.logger.Warn("delivery failed",
				zap.String("connectionId", result.connectionID),
				zap.Error(result.err))
		}
	}
	return nil
}

func (b *Broadcaster) count(outcome string) {
	if b.metrics != nil {
		b.metrics.CountDelivery(outcome)
	}
}
