package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// An instance must drop its own published messages: its local viewers were
// already served by the direct broadcast, only other instances need the relay.
func TestPubSubDropsOwnEcho(t *testing.T) {
	self := NewRedisPubSub(nil, nil)
	other := NewRedisPubSub(nil, nil)

	own := redisPayload{Event: EventAvailability, Origin: self.instanceID}
	foreign := redisPayload{Event: EventAvailability, Origin: other.instanceID}

	assert.False(t, self.accept(own))
	assert.True(t, self.accept(foreign))
	assert.True(t, other.accept(own))
}

func TestPayloadRoundTripCarriesOrigin(t *testing.T) {
	r := NewRedisPubSub(nil, nil)

	body, err := json.Marshal(redisPayload{
		Event:  EventAvailability,
		Data:   json.RawMessage(`{"status":"full"}`),
		Origin: r.instanceID,
		At:     1756300000,
	})
	require.NoError(t, err)

	var p redisPayload
	require.NoError(t, json.Unmarshal(body, &p))
	assert.Equal(t, r.instanceID, p.Origin)
	assert.Equal(t, EventAvailability, p.Event)
	assert.JSONEq(t, `{"status":"full"}`, string(p.Data))
	assert.False(t, r.accept(p))
}

// Messages from instances predating the origin field still deliver.
func TestPayloadWithoutOriginDelivers(t *testing.T) {
	r := NewRedisPubSub(nil, nil)
	var p redisPayload
	require.NoError(t, json.Unmarshal([]byte(`{"event":"availability","data":{}}`), &p))
	assert.True(t, r.accept(p))
}
