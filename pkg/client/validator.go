package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"dexa-swap/pkg/metrics"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// APIError is a non-2xx response from the quoting API
type APIError struct {
	Endpoint   Endpoint
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: API error (status %d): %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: API returned status code %d", e.Endpoint, e.StatusCode)
}

// Retryable reports whether the request may succeed when repeated
func (e *APIError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// ValidatorClient calls the quoting API
type ValidatorClient struct {
	baseURL        string
	httpClient     *http.Client
	maxRetries     int
	initialBackoff time.Duration
	log            zerolog.Logger
}

type Option func(*ValidatorClient)

func WithHTTPClient(h *http.Client) Option {
	return func(c *ValidatorClient) { c.httpClient = h }
}

func WithMaxRetries(n int) Option {
	return func(c *ValidatorClient) { c.maxRetries = n }
}

func WithInitialBackoff(d time.Duration) Option {
	return func(c *ValidatorClient) { c.initialBackoff = d }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *ValidatorClient) { c.log = l }
}

// NewValidatorClient creates a new quoting API client
func NewValidatorClient(baseURL string, opts ...Option) *ValidatorClient {
	c := &ValidatorClient{
		baseURL:        strings.TrimRight(baseURL, "/"),
		httpClient:     &http.Client{Timeout: 10 * time.Second},
		maxRetries:     3,
		initialBackoff: 500 * time.Millisecond,
		log:            zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetQuote requests a quote for a wallet-submitted swap
func (c *ValidatorClient) GetQuote(ctx context.Context, args QueryArgs) (*QuoteResponse, error) {
	return c.Fetch(ctx, EndpointQuote, args)
}

// GetGaslessQuote requests a quote whose gas is paid in a token
func (c *ValidatorClient) GetGaslessQuote(ctx context.Context, args QueryArgs) (*QuoteResponse, error) {
	return c.Fetch(ctx, EndpointGasless, args)
}

// URL builds the request URL of endpoint for args
func (c *ValidatorClient) URL(endpoint Endpoint, args QueryArgs) string {
	return fmt.Sprintf("%s/%s/%s?%s", c.baseURL, strconv.FormatInt(args.ChainID, 10), endpoint, args.Values().Encode())
}

// Fetch performs a GET against endpoint, retrying transport errors and 5xx responses
func (c *ValidatorClient) Fetch(ctx context.Context, endpoint Endpoint, args QueryArgs) (*QuoteResponse, error) {
	reqID := uuid.NewString()
	log := c.log.With().Str("request_id", reqID).Str("endpoint", string(endpoint)).Int64("chain_id", args.ChainID).Logger()
	u := c.URL(endpoint, args)

	var out *QuoteResponse
	op := func() error {
		start := time.Now()
		resp, err := c.do(ctx, endpoint, u)
		metrics.QuoteLatency.WithLabelValues(string(endpoint)).Observe(time.Since(start).Seconds())
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && !apiErr.Retryable() {
				return backoff.Permanent(err)
			}
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		out = resp
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialBackoff
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.maxRetries)), ctx)

	err := backoff.RetryNotify(op, policy, func(err error, wait time.Duration) {
		metrics.QuoteRetriesTotal.WithLabelValues(string(endpoint)).Inc()
		log.Debug().Err(err).Dur("wait", wait).Msg("retrying quote request")
	})
	if err != nil {
		metrics.QuoteRequestsTotal.WithLabelValues(string(endpoint), "error").Inc()
		log.Warn().Err(err).Msg("quote request failed")
		return nil, err
	}

	metrics.QuoteRequestsTotal.WithLabelValues(string(endpoint), "ok").Inc()
	log.Debug().Str("sell_amount", out.SellAmount.String()).Str("buy_amount", out.BuyAmount.String()).Msg("quote received")
	return out, nil
}

func (c *ValidatorClient) do(ctx context.Context, endpoint Endpoint, u string) (*QuoteResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get quote from API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// Check for successful status codes (200-299)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}

	var out QuoteResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to decode quote: %w", err))
	}
	return &out, nil
}

// errorMessage extracts the API's error text from a response body
func errorMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var errorResp map[string]interface{}
	if err := json.Unmarshal(body, &errorResp); err == nil {
		for _, key := range []string{"message", "error", "reason"} {
			if msg, ok := errorResp[key].(string); ok && msg != "" {
				return msg
			}
		}
		if errs, ok := errorResp["errors"]; ok {
			return fmt.Sprintf("%v", errs)
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200] + "..."
	}
	return msg
}
