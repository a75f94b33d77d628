// Package ordersync is the client boundary to the external e-commerce
// platform orders are imported from. Only the status push-back lives here;
// the import direction is driven from outside this repository.
package ordersync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"stockroom/internal/core"
)

// statusNames maps local pipeline statuses onto the external platform's
// status vocabulary.
var statusNames = map[core.OrderStatus]string{
	core.StatusPending:             "Pending",
	core.StatusAwaitingFulfillment: "Awaiting Fulfillment",
	core.StatusProcessing:          "Processing",
	core.StatusReadyToPack:         "Ready to Pack",
	core.StatusShipped:             "Shipped",
	core.StatusCompleted:           "Completed",
	core.StatusCancelled:           "Cancelled",
}

// Client talks to the external platform's order API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient constructs a Client for the given API base URL and access token.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// UpdateOrderStatus pushes a new status for an externally sourced order.
// Callers treat failures as advisory: the local store remains authoritative.
func (c *Client) UpdateOrderStatus(ctx context.Context, externalID string, status core.OrderStatus) error {
	name, ok := statusNames[status]
	if !ok {
		return fmt.Errorf("no external status mapping for %q", status)
	}

	body, err := json.Marshal(map[string]string{"status": name})
	if err != nil {
		return fmt.Errorf("failed to encode status payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/orders/%s/status", c.baseURL, url.PathEscape(externalID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build sync request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Auth-Token", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sync request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sync rejected for order %s: %s: %s", externalID, resp.Status, msg)
	}
	return nil
}
