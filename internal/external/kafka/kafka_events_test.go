package waste

import (
	"testing"

	model "github.com/Anit-Biswas/Waste-management-website/internal/models"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	event := model.Event{Kind: model.EventTicket, ID: 17, UID: 3, Text: "Bin not collected", TS: 1700000000000}

	msg, err := Encode(event)
	require.NoError(t, err)
	require.Equal(t, "3", string(msg.Key))
	require.Equal(t, "kind", msg.Headers[0].Key)
	require.Equal(t, "ticket", string(msg.Headers[0].Value))

	decoded, err := Decode(msg.Value)
	require.NoError(t, err)
	require.Equal(t, event, decoded)
}

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode([]byte("{"))
	require.Error(t, err)
}
