package waste

import (
	"context"
	"encoding/json"

	model "github.com/Anit-Biswas/Waste-management-website/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
)

const queue = "waste_events"

type RabbitPublisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewRabbitPublisher(url string) (rabbit *RabbitPublisher, err error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	_, err = ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &RabbitPublisher{conn, ch}, nil
}

func (r *RabbitPublisher) Close() {
	r.ch.Close()
	r.conn.Close()
}

func (r *RabbitPublisher) Publish(ctx context.Context, event model.Event) error {
	msg, err := Publishing(event)
	if err != nil {
		return err
	}
	return r.ch.PublishWithContext(ctx,
		"",    // exchange
		queue, // routing key
		false, // mandatory
		false, // immediate
		msg)
}

// Publishing - сообщение для очереди
func Publishing(event model.Event) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         event.Kind,
		Body:         body,
	}, nil
}
