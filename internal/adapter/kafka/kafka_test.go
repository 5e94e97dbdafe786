package kafka

import (
	"testing"
	"time"

	"github.com/couchcryptid/geo-distance-service/internal/domain"
	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapMessageToRawMessage(t *testing.T) {
	now := time.Now()
	msg := kafkago.Message{
		Key:       []byte("req-1"),
		Value:     []byte(`{"from":"Paris","to":"Berlin"}`),
		Topic:     "distance-requests",
		Partition: 2,
		Offset:    42,
		Time:      now,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte("batch-import")},
		},
	}

	raw := mapMessageToRawMessage(msg)

	assert.Equal(t, []byte("req-1"), raw.Key)
	assert.JSONEq(t, `{"from":"Paris","to":"Berlin"}`, string(raw.Value))
	assert.Equal(t, "distance-requests", raw.Topic)
	assert.Equal(t, 2, raw.Partition)
	assert.Equal(t, int64(42), raw.Offset)
	assert.Equal(t, now, raw.Timestamp)
	assert.Equal(t, "batch-import", raw.Headers["source"])
	assert.Nil(t, raw.Commit)
}

func TestMapMessageToRawMessage_NoHeaders(t *testing.T) {
	raw := mapMessageToRawMessage(kafkago.Message{Value: []byte(`{}`)})

	assert.NotNil(t, raw.Headers)
	assert.Empty(t, raw.Headers)
}

func TestToKafkaMessage(t *testing.T) {
	now := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)
	report := domain.NewDoneReport("Paris", "Berlin",
		domain.GeoCoordinate{Lat: 48.8566, Lon: 2.3522},
		domain.GeoCoordinate{Lat: 52.52, Lon: 13.405},
	)

	domain.SetClock(clockwork.NewFakeClockAt(now))
	t.Cleanup(func() { domain.SetClock(nil) })

	out, err := domain.SerializeReport("req-1", report)
	require.NoError(t, err)

	msg := toKafkaMessage(out)

	assert.Equal(t, []byte("req-1"), msg.Key)
	assert.Contains(t, string(msg.Value), `"request_id":"req-1"`)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "computed_at", msg.Headers[0].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[0].Value)
	assert.Equal(t, "status", msg.Headers[1].Key)
	assert.Equal(t, []byte("done"), msg.Headers[1].Value)
}
