package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/chamadopetro/chamado-service/internal/config"
	"github.com/chamadopetro/chamado-service/internal/events"
)

// NotificationService forwards ticket events to the log stream and an
// optional webhook.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotifyConfig
	httpClient *http.Client
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotifyConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		httpClient: http.DefaultClient,
	}
}

// RegisterHandlers subscribes to the ticket events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handle)
	n.dispatcher.Subscribe(events.EventTicketUpdated, n.handle)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handle)
	n.dispatcher.Subscribe(events.EventTicketDeleted, n.handle)
	n.dispatcher.Subscribe(events.EventTicketsImported, n.handle)
}

func (n *NotificationService) handle(ctx context.Context, event events.Event) error {
	n.logger.Info("ticket event",
		zap.String("type", string(event.Type)),
		zap.String("ticket_id", event.TicketID),
		zap.Any("payload", event.Payload))
	n.postWebhook(ctx, event)
	return nil
}

func (n *NotificationService) postWebhook(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := n.httpClient.Do(req)
	if err != nil {
		n.logger.Warn("webhook delivery failed", zap.Error(err))
		return
	}
	_ = resp.Body.Close()
}
