package broker

import (
	"context"

	"golang.org/x/sync/errgroup"

	"smartWaiter/internal/modules/realtime/domain"
	"smartWaiter/internal/modules/realtime/infrastructure"
)

// RunKafkaConsumers starts one consumer per registered topic and blocks until ctx is
// cancelled. It returns immediately when no brokers are configured.
func RunKafkaConsumers(
	ctx context.Context,
	registry *infrastructure.HandlerRegistry,
	brokers []string,
	groupID string,
) error {
	if len(brokers) == 0 {
		return nil
	}
	group, groupCtx := errgroup.WithContext(ctx)
	for _, topic := range registry.Topics() {
		consumer := NewKafkaConsumer(brokers, groupID, topic)
		group.Go(func() error {
			return consumer.Consume(groupCtx, func(msg *domain.Message) error {
				return registry.Dispatch(groupCtx, msg)
			})
		})
	}
	return group.Wait()
}
