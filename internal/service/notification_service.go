package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/incident-panel/internal/config"
	"github.com/spec-kit/incident-panel/internal/events"
)

// Publisher delivers serialized events to a pub/sub channel.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

const defaultPublishTimeout = 2 * time.Second

// NotificationService handles emitting notifications for domain events.
// Publishing runs in the background so a slow or unreachable broker never delays the write that raised the event.
type NotificationService struct {
	dispatcher events.Dispatcher
	publisher  Publisher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	inflight   sync.WaitGroup
}

// NewNotificationService creates the service. A nil publisher only logs events.
func NewNotificationService(dispatcher events.Dispatcher, publisher Publisher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		publisher:  publisher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventIncidentCreated, n.handleIncidentCreated)
	n.dispatcher.Subscribe(events.EventIncidentStatusChanged, n.handleIncidentStatusChanged)
	n.dispatcher.Subscribe(events.EventIncidentAssigned, n.handleIncidentAssigned)
}

func (n *NotificationService) handleIncidentCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("IncidentCreated", zap.String("incident_id", event.IncidentID), zap.Any("payload", event.Payload))
	return n.fanOut(ctx, event)
}

func (n *NotificationService) handleIncidentStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("IncidentStatusChanged", zap.String("incident_id", event.IncidentID), zap.Any("payload", event.Payload))
	return n.fanOut(ctx, event)
}

func (n *NotificationService) handleIncidentAssigned(ctx context.Context, event events.Event) error {
	n.logger.Info("IncidentAssigned", zap.String("incident_id", event.IncidentID), zap.Any("payload", event.Payload))
	return n.fanOut(ctx, event)
}

// Wait blocks until every publish started so far has finished.
func (n *NotificationService) Wait() {
	n.inflight.Wait()
}

func (n *NotificationService) fanOut(ctx context.Context, event events.Event) error {
	if n.publisher == nil || n.cfg.RedisChannel == "" {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	timeout := n.cfg.PublishTimeout()
	if timeout == 0 {
		timeout = defaultPublishTimeout
	}
	// Detached from the request so its cancellation does not drop the event.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)

	n.inflight.Add(1)
	go func() {
		defer n.inflight.Done()
		defer cancel()
		if err := n.publisher.Publish(pubCtx, n.cfg.RedisChannel, payload); err != nil {
			n.logger.Warn("event fan-out failed",
				zap.String("channel", n.cfg.RedisChannel),
				zap.String("incident_id", event.IncidentID),
				zap.String("event_type", string(event.Type)),
				zap.Error(err))
		}
	}()
	return nil
}
