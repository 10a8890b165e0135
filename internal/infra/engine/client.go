package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	domain "github.com/civicworks/udcpr-compliance/internal/domain/engine"
	"github.com/civicworks/udcpr-compliance/internal/domain/projects"
)

// Client calls the external versioned rule engine over HTTP. Every
// failure mode (dial error, timeout, non-2xx, bad payload) comes back
// wrapped in engine.ErrUnavailable so the caller can collapse them
// uniformly into the fallback path.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient dengan timeout bounded; caller biasanya juga pasang timeout
// di context per request
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// Evaluate POST /evaluate dan pakai response engine apa adanya
func (c *Client) Evaluate(ctx context.Context, in projects.EvaluationInput) (projects.EvaluationResult, error) {
	var out projects.EvaluationResult

	body, err := json.Marshal(in)
	if err != nil {
		return out, fmt.Errorf("%w: encoding input: %v", domain.ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/evaluate", bytes.NewReader(body))
	if err != nil {
		return out, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return out, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return out, fmt.Errorf("%w: engine returned status %d", domain.ErrUnavailable, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("%w: decoding response: %v", domain.ErrUnavailable, err)
	}
	return out, nil
}
