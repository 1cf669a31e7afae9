package notifications

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/fynans/fynans-api/models"
)

// Server-to-client events pushed through the realtime gateway
const (
	EventNotificationNew   = "notification:new"
	EventNotificationToast = "notification:toast"
)

// Dispatch outcomes reported to the metrics collector
const (
	OutcomeOK      = "ok"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
)

// Emitter is the slice of the realtime gateway the dispatcher needs
type Emitter interface {
	EmitToUser(userID, event string, payload interface{})
	IsOnline(userID string) bool
}

// DispatchRecorder receives per-channel dispatch outcomes. Implementations
// must never block.
type DispatchRecorder interface {
	RecordDispatch(channel, outcome string)
}

// Dispatcher fans one persisted notification out to its effective channels.
// Each channel sender is independent; a failure in one never blocks or fails
// the others, and no failure ever propagates to the caller.
type Dispatcher struct {
	Devices *DeviceRegistry
	Push    *ExpoPushClient
	Emitter Emitter
	Metrics DispatchRecorder
}

// Dispatch sends the notification on every listed channel in parallel and
// waits for all senders to finish. Failures are logged and counted, never
// returned.
func (d *Dispatcher) Dispatch(ctx context.Context, channels []string, notification models.Notification) {
	var wg sync.WaitGroup
	for _, channel := range channels {
		wg.Add(1)
		go func(channel string) {
			defer wg.Done()
			d.record(channel, d.send(ctx, channel, notification))
		}(channel)
	}
	wg.Wait()
}

func (d *Dispatcher) send(ctx context.Context, channel string, notification models.Notification) string {
	switch channel {
	case models.DeliveryMethodInApp:
		return d.sendInApp(notification)
	case models.DeliveryMethodToast:
		return d.sendToast(notification)
	case models.DeliveryMethodPush:
		return d.sendPush(ctx, notification)
	default:
		zap.S().Warnw("unknown delivery channel", "channel", channel)
		return OutcomeSkipped
	}
}

// sendInApp emits the stored notification to any live connections. The row is
// already persisted, so this channel succeeds whether or not anyone is online.
func (d *Dispatcher) sendInApp(notification models.Notification) string {
	d.Emitter.EmitToUser(notification.UserID, EventNotificationNew, notification)
	return OutcomeOK
}

// sendToast is a purely ephemeral hint; with no live connection there is
// nothing to do and nothing to queue.
func (d *Dispatcher) sendToast(notification models.Notification) string {
	if !d.Emitter.IsOnline(notification.UserID) {
		return OutcomeSkipped
	}
	d.Emitter.EmitToUser(notification.UserID, EventNotificationToast, notification)
	return OutcomeOK
}

func (d *Dispatcher) sendPush(ctx context.Context, notification models.Notification) string {
	tokens, err := d.Devices.ListActive(ctx, notification.UserID)
	if err != nil {
		zap.S().Errorw("failed to list active device tokens",
			"userId", notification.UserID, "error", err)
		return OutcomeFailed
	}
	if len(tokens) == 0 {
		return OutcomeSkipped
	}

	messages := make([]ExpoPushMessage, 0, len(tokens))
	for _, token := range tokens {
		messages = append(messages, ExpoPushMessage{
			To:        token.ExpoPushToken,
			Title:     notification.Title,
			Body:      notification.Message,
			Sound:     "default",
			Data:      pushData(notification),
			Priority:  pushPriority(notification.Priority),
			ChannelID: "default",
		})
	}

	tickets, err := d.Push.Send(ctx, messages)
	if err != nil {
		// transient: the next notification retries these tokens naturally
		zap.S().Errorw("expo push send failed",
			"userId", notification.UserID, "error", err)
		return OutcomeFailed
	}

	for i, ticket := range tickets {
		token := tokens[i]
		switch {
		case ticket.Status == "ok":
			if err := d.Devices.TouchLastUsed(ctx, token.ID); err != nil {
				zap.S().Warnw("failed to update token lastUsed",
					"tokenId", token.ID.Hex(), "error", err)
			}
		case ticket.IsDeviceNotRegistered():
			zap.S().Infow("deactivating unregistered device token",
				"tokenId", token.ID.Hex(), "userId", token.UserID)
			if err := d.Devices.Deactivate(ctx, token.ID); err != nil {
				zap.S().Errorw("failed to deactivate device token",
					"tokenId", token.ID.Hex(), "error", err)
			}
		default:
			zap.S().Warnw("expo push ticket error",
				"tokenId", token.ID.Hex(), "message", ticket.Message, "detail", ticket.Details.Error)
		}
	}
	return OutcomeOK
}

func (d *Dispatcher) record(channel, outcome string) {
	if d.Metrics != nil {
		d.Metrics.RecordDispatch(channel, outcome)
	}
}

func pushData(notification models.Notification) map[string]interface{} {
	data := map[string]interface{}{
		"notificationId": notification.ID.Hex(),
		"type":           notification.Type,
	}
	if notification.ActionURL != "" {
		data["actionUrl"] = notification.ActionURL
	}
	for k, v := range notification.Data {
		data[k] = v
	}
	return data
}

func pushPriority(priority string) string {
	if priority == models.PriorityHigh || priority == models.PriorityUrgent {
		return "high"
	}
	return "default"
}
