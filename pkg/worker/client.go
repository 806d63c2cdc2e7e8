package worker

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client talks to the external enrichment worker. The worker is a black
// box: it accepts a job, writes news rows itself, and reports progress
// through the job callback endpoint.
type Client struct {
	baseURL string
	client  *resty.Client
}

// Request identifies what to process. Either CompetitorIDs or OrgID must be
// set; JobID ties the run to its fetch_jobs row.
type Request struct {
	CompetitorIDs []string `json:"competitorIds,omitempty"`
	OrgID         string   `json:"orgId,omitempty"`
	JobID         string   `json:"jobId"`
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  resty.New().SetTimeout(30 * time.Second),
	}
}

// Dispatch submits a run. The worker replies 202 and continues in the
// background; any non-2xx response means the run never started.
func (c *Client) Dispatch(req Request) error {
	resp, err := c.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post(c.baseURL + "/process-onboarding")

	if err != nil {
		return fmt.Errorf("worker dispatch failed: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("worker returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	return nil
}

// Health pings the worker. Used by the dispatcher at startup.
func (c *Client) Health() error {
	resp, err := c.client.R().Get(c.baseURL + "/health")
	if err != nil {
		return fmt.Errorf("worker unreachable: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("worker unhealthy: status %d", resp.StatusCode())
	}
	return nil
}
