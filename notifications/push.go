package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	defaultExpoPushURL = "https://exp.host/--/api/v2/push/send"
	expoBatchLimit     = 100
)

// expoDeviceNotRegistered is the details.error value Expo returns when a token
// is permanently invalid and should be deactivated
const expoDeviceNotRegistered = "DeviceNotRegistered"

// ExpoPushMessage represents a single push notification message for the Expo push API
type ExpoPushMessage struct {
	To        string                 `json:"to"`
	Title     string                 `json:"title,omitempty"`
	Body      string                 `json:"body,omitempty"`
	Sound     string                 `json:"sound,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Priority  string                 `json:"priority,omitempty"`
	ChannelID string                 `json:"channelId,omitempty"`
}

// ExpoPushTicket is the per-message receipt in the Expo push API response
type ExpoPushTicket struct {
	Status  string `json:"status"` // "ok" or "error"
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
	Details struct {
		Error string `json:"error,omitempty"`
	} `json:"details,omitempty"`
}

// IsDeviceNotRegistered reports whether the ticket carries Expo's permanent
// invalid-token rejection
func (t ExpoPushTicket) IsDeviceNotRegistered() bool {
	return t.Status == "error" && t.Details.Error == expoDeviceNotRegistered
}

// ExpoPushClient sends push notifications through the Expo push API.
// Messages are batched in groups of 100 per the Expo API limit.
type ExpoPushClient struct {
	url    string
	client *http.Client
}

// NewExpoPushClient returns a client pointed at the Expo push endpoint. An
// empty url falls back to the production endpoint.
func NewExpoPushClient(url string) *ExpoPushClient {
	if url == "" {
		url = defaultExpoPushURL
	}
	return &ExpoPushClient{
		url:    url,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Send delivers the messages in batches and returns one ticket per message, in
// message order. A transport-level failure on a batch yields an error and no
// tickets for the messages of that batch or later ones.
func (c *ExpoPushClient) Send(ctx context.Context, messages []ExpoPushMessage) ([]ExpoPushTicket, error) {
	if len(messages) == 0 {
		return nil, nil
	}

	tickets := make([]ExpoPushTicket, 0, len(messages))
	for i := 0; i < len(messages); i += expoBatchLimit {
		end := i + expoBatchLimit
		if end > len(messages) {
			end = len(messages)
		}
		batch, err := c.sendBatch(ctx, messages[i:end])
		if err != nil {
			return tickets, fmt.Errorf("expo push batch (messages %d-%d): %w", i, end-1, err)
		}
		tickets = append(tickets, batch...)
	}

	zap.S().Infof("Sent %d push notification(s) via Expo", len(tickets))
	return tickets, nil
}

func (c *ExpoPushClient) sendBatch(ctx context.Context, messages []ExpoPushMessage) ([]ExpoPushTicket, error) {
	jsonData, err := json.Marshal(messages)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal push messages: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create push request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, deflate")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send push request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("expo push API returned status %d", resp.StatusCode)
	}

	var body struct {
		Data []ExpoPushTicket `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode push tickets: %w", err)
	}
	if len(body.Data) != len(messages) {
		return nil, fmt.Errorf("expo returned %d tickets for %d messages", len(body.Data), len(messages))
	}
	return body.Data, nil
}
