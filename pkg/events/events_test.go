package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageDecode(t *testing.T) {
	msg := &Message{Subject: VisitCheckedIn, Data: []byte(`{"visit_id":7,"host_email":"h@example.com"}`)}
	var ev VisitCheckedInEvent
	require.NoError(t, msg.Decode(&ev))
	assert.Equal(t, int64(7), ev.VisitID)
	assert.Equal(t, "h@example.com", ev.HostEmail)

	bad := &Message{Subject: VisitCheckedIn, Data: []byte(`{`)}
	assert.ErrorContains(t, bad.Decode(&ev), "decode visit.checked_in payload")
}

func TestNoopBus(t *testing.T) {
	var bus EventBus = NoopBus{}
	assert.NoError(t, bus.Publish(context.Background(), VisitCheckedOut, VisitCheckedOutEvent{VisitID: 1}))
	assert.ErrorIs(t, bus.QueueSubscribe(VisitCheckedIn, "q", func(*Message) {}), ErrBusDisabled)
	assert.ErrorIs(t, bus.Subscribe(VisitCheckedIn, func(*Message) {}), ErrBusDisabled)
	assert.NoError(t, bus.Close())
}
