package waste

import (
	"encoding/json"
	"testing"

	model "github.com/Anit-Biswas/Waste-management-website/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
)

func TestPublishing(t *testing.T) {
	event := model.Event{Kind: model.EventNotification, ID: 5, UID: 1, Text: "Support ticket raised", TS: 42}

	msg, err := Publishing(event)
	require.NoError(t, err)
	require.Equal(t, "application/json", msg.ContentType)
	require.Equal(t, amqp.Persistent, msg.DeliveryMode)
	require.Equal(t, "notification", msg.Type)

	var decoded model.Event
	require.NoError(t, json.Unmarshal(msg.Body, &decoded))
	require.Equal(t, event, decoded)
}
