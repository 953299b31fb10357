// Package providers holds the HTTP clients of the external restaurant and
// hailing services.
package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"catering/internal/core/ports"
)

// DefaultTimeout bounds one HTTP exchange with a provider.
const DefaultTimeout = 10 * time.Second

// Config addresses one provider.
type Config struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// jsonClient exchanges JSON documents with one provider. 4xx answers are
// reported as ports.ErrProviderRejected. A POST that may have reached the
// provider without a usable answer is reported as ports.ErrOutcomeUnknown; only
// failures to connect stay transient for it. GET failures are always transient.
type jsonClient struct {
	name       string
	baseURL    string
	httpClient *http.Client
}

func newJSONClient(name string, cfg Config) jsonClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return jsonClient{
		name:       name,
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c jsonClient) get(ctx context.Context, path string, result any) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

func (c jsonClient) post(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

func (c jsonClient) do(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s marshal: %w", c.name, err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("%s %s %s: %w", c.name, method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("%s %s %s: %w", c.name, method, path, err)
		if isDialError(err) {
			return err
		}
		return unknownOutcome(method, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return unknownOutcome(method, fmt.Errorf("%s read body: %w", c.name, err))
	}
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return fmt.Errorf("%w: %s HTTP %d: %s", ports.ErrProviderRejected, c.name, resp.StatusCode, string(data))
	}
	if resp.StatusCode >= 500 {
		return unknownOutcome(method, fmt.Errorf("%s HTTP %d: %s", c.name, resp.StatusCode, string(data)))
	}
	if result != nil {
		if err = json.Unmarshal(data, result); err != nil {
			return unknownOutcome(method, fmt.Errorf("%s decode: %w", c.name, err))
		}
	}
	return nil
}

func unknownOutcome(method string, err error) error {
	if method == http.MethodGet {
		return err
	}
	return fmt.Errorf("%w: %w", ports.ErrOutcomeUnknown, err)
}

// isDialError reports whether the request failed before a connection existed.
func isDialError(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}
