package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/noaa-gefs-stac/internal/stac"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs     []kafkago.Message
	err      error
	deadline bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	_, f.deadline = ctx.Deadline()
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func testItem() *stac.Item {
	ref := time.Date(2022, time.August, 16, 0, 0, 0, 0, time.UTC)
	return &stac.Item{
		Type:        "Feature",
		StacVersion: stac.Version,
		ID:          "gefs.chem.t00z.a2d_0p25.f000-20220816T0000Z",
		Collection:  "noaa-gefs",
		Properties: stac.Properties{
			Datetime:                  stac.NewTime(ref),
			ForecastReferenceDatetime: stac.NewTime(ref),
			ForecastHorizon:           stac.NewDuration(0),
			ProcessingDatetime:        stac.NewTime(ref.Add(5 * time.Hour)),
		},
	}
}

func TestSerializeToMessage(t *testing.T) {
	msg, err := serializeToMessage(testItem())
	require.NoError(t, err)

	assert.Equal(t, []byte("gefs.chem.t00z.a2d_0p25.f000-20220816T0000Z"), msg.Key)
	assert.Contains(t, string(msg.Value), `"forecast:horizon":"P0D"`)
	require.Len(t, msg.Headers, 3)
	assert.Equal(t, "collection", msg.Headers[0].Key)
	assert.Equal(t, []byte("noaa-gefs"), msg.Headers[0].Value)
	assert.Equal(t, "reference_datetime", msg.Headers[1].Key)
	assert.Equal(t, []byte("2022-08-16T00:00:00Z"), msg.Headers[1].Value)
	assert.Equal(t, "processed_at", msg.Headers[2].Key)
	assert.Equal(t, []byte("2022-08-16T05:00:00Z"), msg.Headers[2].Value)

	var back stac.Item
	require.NoError(t, json.Unmarshal(msg.Value, &back))
	assert.Equal(t, "noaa-gefs", back.Collection)
}

func TestWriter_Load(t *testing.T) {
	fw := &fakeWriter{}
	w := &Writer{writer: fw, timeout: time.Second, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	require.NoError(t, w.Load(context.Background(), testItem()))
	require.Len(t, fw.msgs, 1)
	assert.True(t, fw.deadline)

	fw.err = errors.New("leader not available")
	err := w.Load(context.Background(), testItem())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish item")
}
