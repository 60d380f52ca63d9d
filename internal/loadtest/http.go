package loadtest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/okian/matchday/internal/adapters/repository"
	"github.com/okian/matchday/internal/domain/types"
)

// ErrUnexpectedStatus is returned when the server answers with a status the
// client does not expect.
var ErrUnexpectedStatus = errors.New("unexpected status")

// Client talks to a running matchday server.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for baseURL with a per-request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Health checks GET /healthz.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/healthz", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: healthz returned %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return nil
}

// Submit posts a plan request. 202 and 200 (duplicate) are both accepted;
// any other status is returned as an error carrying the response body.
func (c *Client) Submit(ctx context.Context, req types.PlanRequest) (types.Submission, int, error) { //nolint:gocritic // hugeParam: request is read-only
	body, err := json.Marshal(req)
	if err != nil {
		return types.Submission{}, 0, fmt.Errorf("marshal request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/plans", body)
	if err != nil {
		return types.Submission{}, 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.Submission{}, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		return types.Submission{}, resp.StatusCode,
			fmt.Errorf("%w: %d: %s", ErrUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var sub types.Submission
	if err := json.Unmarshal(raw, &sub); err != nil {
		return types.Submission{}, resp.StatusCode, fmt.Errorf("decode submission: %w", err)
	}
	return sub, resp.StatusCode, nil
}

// GetPlan fetches GET /plans/{id}.
func (c *Client) GetPlan(ctx context.Context, planID string) (repository.PlanRecord, error) {
	resp, err := c.do(ctx, http.MethodGet, "/plans/"+planID, nil)
	if err != nil {
		return repository.PlanRecord{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return repository.PlanRecord{}, fmt.Errorf("%w: get plan %s returned %d", ErrUnexpectedStatus, planID, resp.StatusCode)
	}

	var rec repository.PlanRecord
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return repository.PlanRecord{}, fmt.Errorf("decode plan: %w", err)
	}
	return rec, nil
}

// WaitPlan polls a plan until it leaves the pending state or ctx ends.
func (c *Client) WaitPlan(ctx context.Context, planID string, interval time.Duration) (repository.PlanRecord, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		rec, err := c.GetPlan(ctx, planID)
		if err != nil {
			return rec, err
		}
		if rec.Status != types.PlanPending {
			return rec, nil
		}

		select {
		case <-ctx.Done():
			return rec, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}
