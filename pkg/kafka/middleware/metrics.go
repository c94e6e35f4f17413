package middleware

import (
	"context"

	"grafik/pkg/kafka"
	"grafik/pkg/metrics"
)

const (
	directionProduce = "produce"
	directionConsume = "consume"

	outcomeOK    = "ok"
	outcomeError = "error"
)

// MetricsProducerMiddleware counts publish outcomes per topic.
func MetricsProducerMiddleware() kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		err := next(ctx, msg)

		outcome := outcomeOK
		if err != nil {
			outcome = outcomeError
		}
		metrics.IncKafkaMessage(msg.Topic, directionProduce, outcome)

		return err
	}
}

// MetricsConsumerMiddleware counts processing outcomes per topic.
func MetricsConsumerMiddleware() kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		err := next(ctx, msg)

		outcome := outcomeOK
		if err != nil {
			outcome = outcomeError
		}
		metrics.IncKafkaMessage(msg.Topic, directionConsume, outcome)

		return err
	}
}
