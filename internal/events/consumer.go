package events

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"
)

// OrderEventHandler receives decoded order lifecycle events.
type OrderEventHandler interface {
	HandleOrderCreated(event OrderEvent) error
	HandleOrderUpdated(event OrderEvent) error
	HandleOrderDeleted(event OrderDeletedEvent) error
}

type KafkaConsumer struct {
	consumerGroup sarama.ConsumerGroup
	handler       OrderEventHandler
	logger        *logrus.Logger
	topics        []string
}

type consumerGroupHandler struct {
	handler OrderEventHandler
	logger  *logrus.Logger
}

func NewKafkaConsumer(brokers, groupID string, handler OrderEventHandler, logger *logrus.Logger) (*KafkaConsumer, error) {
	config := sarama.NewConfig()
	config.Consumer.Group.Rebalance.Strategy = sarama.BalanceStrategyRoundRobin
	config.Consumer.Offsets.Initial = sarama.OffsetOldest
	config.Version = sarama.V2_6_0_0

	consumerGroup, err := sarama.NewConsumerGroup(strings.Split(brokers, ","), groupID, config)
	if err != nil {
		return nil, err
	}

	return &KafkaConsumer{
		consumerGroup: consumerGroup,
		handler:       handler,
		logger:        logger,
		topics:        []string{OrderCreatedTopic, OrderUpdatedTopic, OrderDeletedTopic},
	}, nil
}

func (c *KafkaConsumer) Start(ctx context.Context) error {
	handler := &consumerGroupHandler{
		handler: c.handler,
		logger:  c.logger,
	}

	for {
		if err := c.consumerGroup.Consume(ctx, c.topics, handler); err != nil {
			c.logger.WithError(err).Error("Consumer group error")
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (c *KafkaConsumer) Close() error {
	return c.consumerGroup.Close()
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	h.logger.Info("Consumer group session started")
	return nil
}

func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	h.logger.Info("Consumer group session ended")
	return nil
}

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		h.dispatch(message)
		// Undecodable or failed events are logged and skipped, never
		// retried; the next read of the store is authoritative anyway.
		session.MarkMessage(message, "")
	}
	return nil
}

func (h *consumerGroupHandler) dispatch(message *sarama.ConsumerMessage) {
	log := h.logger.WithFields(logrus.Fields{
		"topic":     message.Topic,
		"partition": message.Partition,
		"offset":    message.Offset,
	})

	var err error
	switch message.Topic {
	case OrderDeletedTopic:
		var event OrderDeletedEvent
		if err = json.Unmarshal(message.Value, &event); err == nil {
			err = h.handler.HandleOrderDeleted(event)
		}
	default:
		var event OrderEvent
		if err = json.Unmarshal(message.Value, &event); err == nil {
			switch message.Topic {
			case OrderCreatedTopic:
				err = h.handler.HandleOrderCreated(event)
			case OrderUpdatedTopic:
				err = h.handler.HandleOrderUpdated(event)
			}
		}
	}

	if err != nil {
		log.WithError(err).Error("Failed to handle order event")
		return
	}
	log.Debug("Order event handled")
}
