package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// maxErrorBodyBytes caps how much of a gateway error body is retained
// for logging.
const maxErrorBodyBytes = 2048

// GatewayError indicates the gateway accepted the connection but
// rejected the notification with a non-2xx response.
type GatewayError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *GatewayError) Error() string {
	return fmt.Sprintf("notification gateway rejected request: status %d: %s", e.StatusCode, e.Body)
}

// TransportError indicates the request never produced an HTTP response:
// connection failure, DNS error, or timeout.
type TransportError struct {
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("notification gateway unreachable: %v", e.Err)
}

// Unwrap returns the underlying transport error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Deliverer is the capability the dispatcher needs from a gateway
// client. Test substitutes implement it to count and inspect calls.
type Deliverer interface {
	// Deliver attempts delivery of one payload exactly once.
	Deliver(ctx context.Context, payload Payload) error
}

// GatewayClient delivers notification payloads to the configured HTTP
// endpoint. It makes a single attempt per invocation and classifies
// the outcome; retry policy, if any, belongs to the caller.
type GatewayClient struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewGatewayClient creates a gateway client posting to the given URL.
// Every request is bounded by the given timeout so a hung gateway
// cannot stall a scan cycle or leak worker capacity.
func NewGatewayClient(url string, timeout time.Duration, logger *slog.Logger) *GatewayClient {
	if logger == nil {
		logger = slog.Default()
	}

	return &GatewayClient{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.With(slog.String("component", "gateway_client")),
	}
}

// Ensure GatewayClient implements Deliverer
var _ Deliverer = (*GatewayClient)(nil)

// Deliver serializes the payload to JSON and posts it to the gateway.
// A 2xx response is success. A non-2xx response returns *GatewayError;
// a failure to obtain any response returns *TransportError.
func (c *GatewayClient) Deliver(ctx context.Context, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notification payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("posting notification to gateway",
		slog.String("entity", payload.EntityKey()),
		slog.String("event_kind", string(payload.Kind())))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close gateway response body", slog.String("error", err.Error()))
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		if readErr != nil {
			respBody = []byte(fmt.Sprintf("<failed to read body: %v>", readErr))
		}
		return &GatewayError{
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	c.logger.Debug("notification delivered",
		slog.String("entity", payload.EntityKey()),
		slog.Int("status_code", resp.StatusCode))
	return nil
}
