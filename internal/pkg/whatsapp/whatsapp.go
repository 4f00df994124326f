package whatsapp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// DefaultEndpoint is the CallMeBot WhatsApp gateway.
const DefaultEndpoint = "https://api.callmebot.com/whatsapp.php"

// Client sends WhatsApp messages through the CallMeBot API. Delivery is
// at-most-once: no retry, no circuit breaking.
type Client struct {
	endpoint   string
	httpClient *http.Client

	mu          sync.Mutex
	lastAlertAt map[string]time.Time
	throttleD   time.Duration
}

// New creates a client. An empty endpoint selects the CallMeBot gateway;
// tests point it at a local server.
func New(endpoint string) *Client {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint:    endpoint,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		lastAlertAt: make(map[string]time.Time),
		throttleD:   10 * time.Minute,
	}
}

// Send issues a single GET to the gateway. Any non-2xx status is an error.
func (c *Client) Send(ctx context.Context, phone, apiKey, message string) error {
	phone = strings.TrimSpace(phone)
	apiKey = strings.TrimSpace(apiKey)
	if phone == "" || apiKey == "" {
		return fmt.Errorf("whatsapp phone or api key not configured")
	}

	params := url.Values{}
	params.Set("phone", phone)
	params.Set("text", message)
	params.Set("apikey", apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("whatsapp gateway error: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

// ThrottleAlert sends an abuse alert for a rate-limit event, at most once per
// ip/path pair per throttle window. Failures are discarded.
func (c *Client) ThrottleAlert(phone, apiKey, ip, path string) {
	if strings.TrimSpace(phone) == "" || strings.TrimSpace(apiKey) == "" {
		return
	}

	throttleKey := ip + "|" + path

	c.mu.Lock()
	last, ok := c.lastAlertAt[throttleKey]
	if ok && time.Since(last) < c.throttleD {
		c.mu.Unlock()
		return
	}
	c.lastAlertAt[throttleKey] = time.Now()
	c.mu.Unlock()

	_ = c.Send(context.Background(), phone, apiKey,
		fmt.Sprintf("DriftV8.xyz: rate limit tripped. IP: %s Path: %s", ip, path))
}
