// Package azure implements the Cognitive Services clients used by the moderation
// gate and the translation orchestrator.
package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/turtacn/transgate/internal/domain/service"
	"github.com/turtacn/transgate/pkg/constants"
)

// maxErrorBody bounds how much of an error response is kept for diagnostics.
const maxErrorBody = 4 << 10

// StatusError is returned when a service answers with a non-2xx status.
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Service, e.StatusCode, e.Body)
}

// cognitiveClient is the shared JSON transport for Cognitive Services endpoints.
// Requests are never retried; the caller decides what a failure means.
type cognitiveClient struct {
	name       string
	httpClient *http.Client
	key        string
	region     string
	metrics    service.Metrics
}

func newCognitiveClient(name, key, region string, timeout time.Duration, metrics service.Metrics) cognitiveClient {
	if timeout <= 0 {
		timeout = constants.DefaultUpstreamTimeout
	}
	if metrics == nil {
		metrics = service.NoopMetrics{}
	}
	return cognitiveClient{
		name:       name,
		httpClient: &http.Client{Timeout: timeout},
		key:        key,
		region:     region,
		metrics:    metrics,
	}
}

// postJSON sends body as JSON to url and decodes the response into result.
func (c *cognitiveClient) postJSON(ctx context.Context, url string, body any, result any) (err error) {
	start := time.Now()
	defer func() { c.metrics.RecordUpstreamCall(c.name, time.Since(start), err) }()

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", c.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build %s request: %w", c.name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(constants.HeaderSubscriptionKey, c.key)
	if c.region != "" {
		req.Header.Set(constants.HeaderSubscriptionRegion, c.region)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", c.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Service: c.name, StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode %s response: %w", c.name, err)
	}
	return nil
}

//Personal.AI order the ending
