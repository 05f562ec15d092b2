// Package analytics wraps the PostHog client so callers never need to check whether it is configured.
package analytics

import (
	"log/slog"

	"github.com/posthog/posthog-go"
)

// Client tracks product events. A zero Client is a valid no-op.
type Client struct {
	posthogClient posthog.Client
	logger        *slog.Logger
}

// NewClient connects to PostHog when apiKey is set.
func NewClient(apiKey, endpoint string, logger *slog.Logger) *Client {
	if apiKey == "" {
		logger.Warn("PostHog API key is empty, analytics disabled")
		return &Client{}
	}
	if endpoint == "" {
		endpoint = "https://eu.i.posthog.com"
	}
	pc, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: endpoint})
	if err != nil {
		logger.Error("Failed to initialize PostHog client", slog.String("error", err.Error()))
		return &Client{}
	}
	return &Client{posthogClient: pc, logger: logger}
}

// Enabled reports whether events are actually sent.
func (c *Client) Enabled() bool {
	return c != nil && c.posthogClient != nil
}

// Enqueue queues an event for distinctID.
func (c *Client) Enqueue(distinctID, event string, properties map[string]any) {
	if !c.Enabled() {
		return
	}
	props := posthog.NewProperties()
	for k, v := range properties {
		props.Set(k, v)
	}
	if err := c.posthogClient.Enqueue(posthog.Capture{
		DistinctId: distinctID,
		Event:      event,
		Properties: props,
	}); err != nil && c.logger != nil {
		c.logger.Warn("Failed to enqueue analytics event", slog.String("event", event), slog.String("error", err.Error()))
	}
}

// Close flushes pending events.
func (c *Client) Close() {
	if !c.Enabled() {
		return
	}
	if err := c.posthogClient.Close(); err != nil && c.logger != nil {
		c.logger.Warn("Failed to close PostHog client", slog.String("error", err.Error()))
	}
}
