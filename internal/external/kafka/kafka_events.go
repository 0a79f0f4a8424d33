package waste

import (
	"context"
	"encoding/json"
	"strconv"

	model "github.com/Anit-Biswas/Waste-management-website/internal/models"
	"github.com/segmentio/kafka-go"
)

const groupID = "waste_audit"

// KafkaPublisher пишет события в топик, ключ - id пользователя
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers, topic string) *KafkaPublisher {
	return &KafkaPublisher{&kafka.Writer{
		Addr:                   kafka.TCP(brokers),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}}
}

func (k *KafkaPublisher) Publish(ctx context.Context, event model.Event) error {
	msg, err := Encode(event)
	if err != nil {
		return err
	}
	return k.writer.WriteMessages(ctx, msg)
}

func (k *KafkaPublisher) Close() error {
	return k.writer.Close()
}

// Encode - сообщение Kafka для события
func Encode(event model.Event) (kafka.Message, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(strconv.FormatInt(event.UID, 10)),
		Value: body,
		Headers: []kafka.Header{
			{Key: "kind", Value: []byte(event.Kind)},
		},
	}, nil
}

type KafkaEvents struct {
	reader *kafka.Reader
}

func NewReader(brokers, topic string) *KafkaEvents {
	kafkaconfig := kafka.ReaderConfig{
		Brokers: []string{brokers},
		Topic:   topic,
		GroupID: groupID,
	}
	return &KafkaEvents{kafka.NewReader(kafkaconfig)}
}

func (k *KafkaEvents) GetNewMessage(ctx context.Context) (event model.Event, err error) {
	msg, err := k.reader.ReadMessage(ctx)
	if err != nil {
		return event, err
	}
	return Decode(msg.Value)
}

func (k *KafkaEvents) CloseReader() {
	k.reader.Close()
}

func Decode(body []byte) (event model.Event, err error) {
	err = json.Unmarshal(body, &event)
	return event, err
}
