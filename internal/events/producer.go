package events

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"
	"github.com/sweetflow/sweetflow/internal/breaker"
	"github.com/sweetflow/sweetflow/pkg/models"
)

const (
	OrderCreatedTopic = "order.created"
	OrderUpdatedTopic = "order.updated"
	OrderDeletedTopic = "order.deleted"
)

// OrderEvent mirrors the order fields downstream consumers care
// about.
type OrderEvent struct {
	OrderID      string    `json:"order_id"`
	OwnerID      string    `json:"owner_id"`
	ClientName   string    `json:"client_name"`
	TotalPrice   float64   `json:"total_price"`
	DeliveryDate string    `json:"delivery_date"`
	Status       string    `json:"status"`
	EventTime    time.Time `json:"event_time"`
}

type OrderDeletedEvent struct {
	OrderID   string    `json:"order_id"`
	OwnerID   string    `json:"owner_id"`
	EventTime time.Time `json:"event_time"`
}

// KafkaProducer publishes order lifecycle events. Publishes run
// behind a circuit breaker so a down broker costs one fast error
// instead of a blocked request handler per write.
type KafkaProducer struct {
	producer sarama.SyncProducer
	breaker  *breaker.Breaker
	logger   *logrus.Logger
}

func NewKafkaProducer(brokers string, logger *logrus.Logger) (*KafkaProducer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Version = sarama.V2_6_0_0

	producer, err := sarama.NewSyncProducer(strings.Split(brokers, ","), config)
	if err != nil {
		return nil, err
	}

	return &KafkaProducer{
		producer: producer,
		breaker: breaker.New(breaker.Config{
			Name:        "kafka-producer",
			MaxFailures: 5,
			Cooldown:    30 * time.Second,
		}, logger),
		logger: logger,
	}, nil
}

func (p *KafkaProducer) PublishOrderCreated(o *models.Order) error {
	return p.publishOrder(OrderCreatedTopic, o)
}

func (p *KafkaProducer) PublishOrderUpdated(o *models.Order) error {
	return p.publishOrder(OrderUpdatedTopic, o)
}

func (p *KafkaProducer) PublishOrderDeleted(ownerID, orderID string) error {
	event := OrderDeletedEvent{
		OrderID:   orderID,
		OwnerID:   ownerID,
		EventTime: time.Now(),
	}
	return p.send(OrderDeletedTopic, orderID, event)
}

func (p *KafkaProducer) publishOrder(topic string, o *models.Order) error {
	event := OrderEvent{
		OrderID:      o.ID,
		OwnerID:      o.OwnerID,
		ClientName:   o.ClientName,
		TotalPrice:   o.TotalPrice,
		DeliveryDate: o.DeliveryDate,
		Status:       o.Status,
		EventTime:    time.Now(),
	}
	return p.send(topic, o.ID, event)
}

func (p *KafkaProducer) send(topic, key string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(data),
	}

	err = p.breaker.Execute(func() error {
		partition, offset, sendErr := p.producer.SendMessage(msg)
		if sendErr != nil {
			return sendErr
		}
		p.logger.WithFields(logrus.Fields{
			"topic":     topic,
			"partition": partition,
			"offset":    offset,
			"key":       key,
		}).Info("Event published")
		return nil
	})
	if err != nil {
		p.logger.WithError(err).WithField("topic", topic).Error("Failed to publish event")
	}
	return err
}

func (p *KafkaProducer) Close() error {
	return p.producer.Close()
}
