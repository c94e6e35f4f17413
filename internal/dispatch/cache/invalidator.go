package cache

import (
	"context"
	"encoding/json"

	"grafik/pkg/kafka"
	kafka_config "grafik/pkg/kafka/config"
	"grafik/pkg/kafka/middleware"
	"grafik/pkg/logger"
	"grafik/pkg/model"
)

// ConsumerGroup names the dispatch invalidation group; one consumer per
// dispatch instance, all sharing the offset.
const ConsumerGroup = "dispatch-schedule-cache"

// NewScheduleInvalidator builds the consumer that drops a master's cached
// schedules whenever the schedules service announces a change. Undecodable
// events go straight to the DLQ; Redis hiccups are retried.
func NewScheduleInvalidator(kafkaCfg *kafka_config.Config, scheduleCache *ScheduleCache, log *logger.Logger) (*kafka.Consumer, error) {
	handler := func(ctx context.Context, msg kafka.Message) error {
		var event model.ScheduleEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return kafka.NewPermanentError("undecodable schedule event", err)
		}
		if event.MasterID == "" {
			return kafka.NewPermanentError("schedule event without master_id", nil)
		}

		if err := scheduleCache.Invalidate(ctx, event.MasterID); err != nil {
			return kafka.NewTransientError("schedule cache invalidation failed", err)
		}

		log.Info("Schedule cache invalidated",
			"master_id", event.MasterID,
			"event_type", event.Type,
		)
		return nil
	}

	consumer, err := kafka.NewConsumer(kafkaCfg, kafka.TopicScheduleEvents, ConsumerGroup, kafka.TopicScheduleEventsDLQ, handler)
	if err != nil {
		return nil, err
	}
	consumer.Use(middleware.LoggingConsumerMiddleware(log))
	consumer.Use(middleware.MetricsConsumerMiddleware())
	return consumer, nil
}
