package mq

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photo-manager-api/internal/interface/api/rest/dto/photo"
)

func TestEvent_WireFormat(t *testing.T) {
	p := photo.Photo{UUID: uuid.New(), URL: "https://img/a.jpg", IsMain: true}
	e := NewEvent(ActionMainChanged, "6f1c2c9e-8d5a-4a8e-9b52-3b0f5f1a2c11", p)

	b, err := Encode(e)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	for _, k := range []string{"event_id", "time_stamp", "event_action", "user_id", "photo_payload"} {
		assert.Contains(t, raw, k)
	}
	assert.NotContains(t, raw, "remote_public_id")
	assert.Equal(t, ActionMainChanged, raw["event_action"])

	got, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, e.Id, got.Id)
	assert.Equal(t, p.UUID, got.Payload.UUID)
	assert.True(t, got.Payload.IsMain)
}

func TestEvent_OrphanCarriesPublicID(t *testing.T) {
	e := NewEvent(ActionPhotoOrphaned, "u", photo.Photo{})
	e.RemotePublicID = "photos/u/1-a"

	b, err := Encode(e)
	require.NoError(t, err)

	got, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, "photos/u/1-a", got.RemotePublicID)
	assert.Contains(t, RoutingKeys, got.Action)
}

func TestDecode_Garbage(t *testing.T) {
	_, err := Decode([]byte("{"))
	assert.Error(t, err)
}
