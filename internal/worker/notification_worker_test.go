package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/incident-panel/internal/config"
	"github.com/spec-kit/incident-panel/internal/events"
	"github.com/spec-kit/incident-panel/internal/service"
)

type channelPublisher struct {
	channels []string
}

func (p *channelPublisher) Publish(_ context.Context, channel string, _ []byte) error {
	p.channels = append(p.channels, channel)
	return nil
}

func TestStartNotificationWorker_SubscribesHandlers(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	pub := &channelPublisher{}
	svc := service.NewNotificationService(dispatcher, pub, zap.NewNop(), config.NotificationConfig{RedisChannel: "events"})

	StartNotificationWorker(svc, zap.NewNop())

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{Type: events.EventIncidentCreated, IncidentID: "i-1"}))
	svc.Wait()
	assert.Equal(t, []string{"events"}, pub.channels)
}

func TestStartNotificationWorker_NilService(t *testing.T) {
	assert.NotPanics(t, func() { StartNotificationWorker(nil, zap.NewNop()) })
}
