package forecast

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"seller-intel-engine/internal/domain"
)

// Default configuration values.
const (
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 2
	DefaultRetryDelay = 1 * time.Second
	DefaultMaxDelay   = 8 * time.Second
)

// HTTPClient implements Adapter against the forecasting service's HTTP API.
// The service wraps a generative model; its prompt and model choice are not
// this client's concern.
type HTTPClient struct {
	endpoint   string
	client     *http.Client
	maxRetries int
	retryDelay time.Duration
	maxDelay   time.Duration
}

// ClientOption configures HTTPClient.
type ClientOption func(*HTTPClient)

// WithTimeout sets the HTTP client timeout. The timeout bounds every
// Predict call; callers never wait longer than this per attempt.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts on transport errors.
func WithMaxRetries(n int) ClientOption {
	return func(c *HTTPClient) {
		c.maxRetries = n
	}
}

// WithRetryDelay sets the initial retry delay.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.retryDelay = d
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.client = client
	}
}

// NewHTTPClient creates a forecasting service client.
func NewHTTPClient(endpoint string, opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		endpoint:   endpoint,
		client:     &http.Client{Timeout: DefaultTimeout},
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
		maxDelay:   DefaultMaxDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// predictRequest is the request body of POST /v1/predict.
type predictRequest struct {
	ProductID    string               `json:"product_id"`
	SalesHistory []domain.SalesRecord `json:"sales_history"`
	LeadTimeDays int                  `json:"lead_time_days"`
	Context      map[string]any       `json:"context,omitempty"`
}

// predictResponse is the response envelope. A response with OK=false is a
// forecaster-side failure and is treated exactly like a transport error.
type predictResponse struct {
	OK         bool               `json:"ok"`
	Prediction *predictionPayload `json:"prediction"`
	Error      string             `json:"error"`
}

// Predict calls the forecasting service. Transport errors are retried with
// exponential backoff; HTTP or forecaster failures are not, since the
// forecaster already failed deterministically on this input.
func (c *HTTPClient) Predict(ctx context.Context, productID string, history []domain.SalesRecord, leadTimeDays int, extra map[string]any) (*domain.StockPrediction, error) {
	body, err := json.Marshal(predictRequest{
		ProductID:    productID,
		SalesHistory: history,
		LeadTimeDays: leadTimeDays,
		Context:      extra,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", ErrPredictFailed, err)
	}

	var lastErr error
	delay := c.retryDelay

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrPredictFailed, ctx.Err())
			case <-time.After(delay):
			}
			delay *= 2
			if delay > c.maxDelay {
				delay = c.maxDelay
			}
		}

		pred, retryable, err := c.doPredict(ctx, body)
		if err == nil {
			return pred, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}

	return nil, lastErr
}

// doPredict performs one request. The bool result reports whether the failure
// is worth retrying.
func (c *HTTPClient) doPredict(ctx context.Context, body []byte) (*domain.StockPrediction, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("%w: build request: %v", ErrPredictFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %v", ErrPredictFailed, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("%w: read response: %v", ErrPredictFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode >= 500, fmt.Errorf("%w: status %d", ErrPredictFailed, resp.StatusCode)
	}

	var envelope predictResponse
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, false, fmt.Errorf("%w: decode response: %v", ErrPredictFailed, err)
	}

	if !envelope.OK {
		return nil, false, fmt.Errorf("%w: %s", ErrPredictFailed, envelope.Error)
	}
	if envelope.Prediction == nil {
		return nil, false, fmt.Errorf("%w: response carries no prediction", ErrPredictFailed)
	}

	return envelope.Prediction.toDomain(), false, nil
}
