package gateway

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidankmcalister/dles-fun/go/internal/race/events"
)

func TestParseEventPayload(t *testing.T) {
	ev := &RaceEvent{
		ID:        "e1",
		RaceID:    "r1",
		Type:      EventTypeGameCompleted,
		Timestamp: time.Now(),
		Data:      json.RawMessage(`{"race_game_id":"rg1","time_to_complete":42,"skipped":false,"finished_all":true}`),
	}

	payload, err := ParseEventPayload(ev)
	require.NoError(t, err)
	completed, ok := payload.(events.GameCompletedPayload)
	require.True(t, ok)
	assert.Equal(t, 42, completed.TimeToComplete)
	assert.True(t, completed.FinishedAll)

	ev.Type = "something-else"
	payload, err = ParseEventPayload(ev)
	require.NoError(t, err)
	assert.Nil(t, payload, "unknown event types pass through unparsed")

	ev.Type = EventTypePlayerJoined
	ev.Data = json.RawMessage(`{not json`)
	_, err = ParseEventPayload(ev)
	assert.Error(t, err)
}
