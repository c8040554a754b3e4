package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Client is an HTTP client with retry and timeout support for Solana RPC
type Client struct {
	httpClient   *http.Client
	baseURL      string
	maxRetries   int
	retryBackoff time.Duration
	logger       *logrus.Logger
}

// ClientConfig holds configuration for the RPC client
type ClientConfig struct {
	BaseURL      string
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
	Logger       *logrus.Logger
}

// NewClient creates a new RPC client with retry support
func NewClient(cfg ClientConfig) *Client {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL:      cfg.BaseURL,
		maxRetries:   cfg.MaxRetries,
		retryBackoff: cfg.RetryBackoff,
		logger:       cfg.Logger,
	}
}

// Call makes a JSON-RPC call with retry logic
func (c *Client) Call(ctx context.Context, method string, params interface{}, result interface{}) error {
	body := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  params,
	}

	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	backoff := c.retryBackoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.WithFields(logrus.Fields{
				"attempt": attempt,
				"backoff": backoff,
				"method":  method,
			}).Debug("retrying RPC call")

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2 // exponential backoff
		}

		resp, err := c.doRequest(ctx, data)
		if err != nil {
			lastErr = err
			continue
		}

		if err := json.Unmarshal(resp, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}

		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *Client) doRequest(ctx context.Context, data []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewBuffer(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	// Handle rate limiting
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("rate limited (429)")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return body, nil
}

// GetMultipleAccounts fetches several accounts in one request so that all of
// them reflect the same slot
func (c *Client) GetMultipleAccounts(ctx context.Context, commitment string, addresses ...string) (*MultipleAccountsResponse, error) {
	params := []interface{}{
		addresses,
		map[string]interface{}{
			"encoding":   "base64",
			"commitment": commitment,
		},
	}

	var result MultipleAccountsResponse
	if err := c.Call(ctx, "getMultipleAccounts", params, &result); err != nil {
		return nil, err
	}
	if result.Error != nil {
		return nil, result.Error
	}
	if result.Result == nil || len(result.Result.Value) != len(addresses) {
		return nil, fmt.Errorf("getMultipleAccounts: malformed response")
	}

	return &result, nil
}

// GetLatestBlockhash fetches the most recent blockhash at the given commitment
func (c *Client) GetLatestBlockhash(ctx context.Context, commitment string) (string, error) {
	params := []interface{}{
		map[string]interface{}{"commitment": commitment},
	}

	var result LatestBlockhashResponse
	if err := c.Call(ctx, "getLatestBlockhash", params, &result); err != nil {
		return "", err
	}
	if result.Error != nil {
		return "", result.Error
	}
	if result.Result == nil {
		return "", fmt.Errorf("getLatestBlockhash: empty result")
	}

	return result.Result.Value.Blockhash, nil
}

// SendTransaction submits a base64-encoded signed transaction
func (c *Client) SendTransaction(ctx context.Context, encodedTx string, opts map[string]interface{}) (string, error) {
	if opts == nil {
		opts = map[string]interface{}{}
	}
	opts["encoding"] = "base64"

	var result SendTransactionResponse
	if err := c.Call(ctx, "sendTransaction", []interface{}{encodedTx, opts}, &result); err != nil {
		return "", err
	}
	if result.Error != nil {
		return "", result.Error
	}

	return result.Result, nil
}

// SimulateTransaction runs a base64-encoded transaction without committing it
func (c *Client) SimulateTransaction(ctx context.Context, encodedTx string, commitment string) (*SimulationValue, error) {
	params := []interface{}{
		encodedTx,
		map[string]interface{}{
			"encoding":   "base64",
			"commitment": commitment,
		},
	}

	var result SimulateTransactionResponse
	if err := c.Call(ctx, "simulateTransaction", params, &result); err != nil {
		return nil, err
	}
	if result.Error != nil {
		return nil, result.Error
	}
	if result.Result == nil {
		return nil, fmt.Errorf("simulateTransaction: empty result")
	}

	return &result.Result.Value, nil
}

// GetSignatureStatus returns the status of a single signature, or nil if the
// cluster has not seen it yet
func (c *Client) GetSignatureStatus(ctx context.Context, signature string) (*SignatureStatus, error) {
	params := []interface{}{
		[]string{signature},
		map[string]interface{}{"searchTransactionHistory": true},
	}

	var result SignatureStatusesResponse
	if err := c.Call(ctx, "getSignatureStatuses", params, &result); err != nil {
		return nil, err
	}
	if result.Error != nil {
		return nil, result.Error
	}
	if result.Result == nil || len(result.Result.Value) == 0 {
		return nil, nil
	}

	return result.Result.Value[0], nil
}
