package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent_TypeFormat(t *testing.T) {
	cases := []struct {
		event    Event
		wantType string
	}{
		{TransactionCreated(nil), "transaction.created"},
		{TransactionUpdated(nil), "transaction.updated"},
		{TransactionDeleted(nil), "transaction.deleted"},
		{TransactionsImported(nil), "transaction.imported"},
		{ReportGenerated(nil), "report.generated"},
	}

	for _, c := range cases {
		assert.Equal(t, c.wantType, c.event.Type)
		assert.False(t, c.event.Timestamp.IsZero())
	}
}

func TestEvent_ToJSON(t *testing.T) {
	evt := TransactionCreated(map[string]interface{}{
		"id":     "abc-123",
		"amount": "150.00",
	})

	data, err := evt.ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "transaction.created", decoded["type"])
	assert.Equal(t, "transaction", decoded["entity"])

	payload, ok := decoded["payload"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "abc-123", payload["id"])
	assert.Equal(t, "150.00", payload["amount"])
}
