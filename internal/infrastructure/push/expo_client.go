package push

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"ikam/internal/domain/service"
)

const DefaultEndpoint = "https://exp.host/--/api/v2/push/send"

// ExpoClient posts notifications to an Expo-compatible push gateway.
type ExpoClient struct {
	endpoint   string
	httpClient *http.Client
}

func NewExpoClient(endpoint string, timeout time.Duration) *ExpoClient {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &ExpoClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *ExpoClient) Send(ctx context.Context, message service.PushMessage) bool {
	jsonData, err := json.Marshal(message)
	if err != nil {
		log.Printf("Push: failed to encode message for %s: %v", message.To, err)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		log.Printf("Push: failed to build request: %v", err)
		return false
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("Push: network error sending notification: %v", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Printf("Push: gateway returned %d: %s", resp.StatusCode, string(body))
		return false
	}
	return true
}
