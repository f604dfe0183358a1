package outbox

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidankmcalister/dles-fun/go/internal/race/events"
)

func TestRelayEnvelopeRoundTrip(t *testing.T) {
	payload, err := json.Marshal(events.GameCompletedPayload{
		ParticipantID:  uuid.NewString(),
		RaceGameID:     uuid.NewString(),
		TimeToComplete: 12,
		FinishedAll:    true,
	})
	require.NoError(t, err)

	event := NewEvent(uuid.New(), events.TypeGameCompleted, payload)
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	data, err := json.Marshal(relayEnvelope(event, ts))
	require.NoError(t, err)

	// The gateway consumer decodes the same type off the wire.
	var decoded events.Envelope
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, event.ID.String(), decoded.EventID)
	assert.Equal(t, event.RaceID.String(), decoded.RaceID)
	assert.Equal(t, events.TypeGameCompleted, decoded.EventType)
	assert.True(t, ts.Equal(decoded.Timestamp))
	assert.JSONEq(t, string(payload), string(decoded.Payload))
}

func TestRelayEnvelopeWireKeys(t *testing.T) {
	event := NewEvent(uuid.New(), events.TypeRaceStarted, []byte(`{}`))

	data, err := json.Marshal(relayEnvelope(event, time.Now().UTC()))
	require.NoError(t, err)

	var keys map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &keys))
	for _, key := range []string{"eventId", "eventType", "raceId", "timestamp", "payload"} {
		assert.Contains(t, keys, key)
	}
}
