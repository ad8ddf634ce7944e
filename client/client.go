// Package client is the field device's HTTP transport to the remote
// survey store.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"github.com/mawuli/field-survey/model"
)

type Client struct {
	baseURL      string
	http         *http.Client
	probeTimeout time.Duration
}

func New(baseURL string, probeTimeout time.Duration) *Client {
	return &Client{
		baseURL:      baseURL,
		http:         &http.Client{},
		probeTimeout: probeTimeout,
	}
}

// Probe checks whether the remote store is reachable and reports itself
// available. Any failure within the timeout reads as unavailable.
func (c *Client) Probe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/sync", nil)
	if err != nil {
		return false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	var body struct {
		Available bool `json:"available"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false
	}
	return body.Available
}

// SyncBatch transmits the whole pending set in one round trip and returns
// the server's reconciliation result.
func (c *Client) SyncBatch(ctx context.Context, surveys []model.Survey) (model.SyncResult, error) {
	payload, err := json.Marshal(surveys)
	if err != nil {
		return model.SyncResult{}, errors.Wrap(err, "sync batch: encode")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sync", bytes.NewReader(payload))
	if err != nil {
		return model.SyncResult{}, errors.Wrap(err, "sync batch: request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return model.SyncResult{}, errors.Wrap(err, "sync batch: transport")
	}
	defer resp.Body.Close()

	var result model.SyncResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return model.SyncResult{}, errors.Wrap(err, "sync batch: decode response")
	}
	return result, nil
}

// ListSurveys fetches the remote records, optionally filtered by status,
// newest first.
func (c *Client) ListSurveys(ctx context.Context, status string) ([]model.Survey, error) {
	u := c.baseURL + "/surveys"
	if status != "" {
		u += "?status=" + url.QueryEscape(status)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "list surveys: request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "list surveys: transport")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("list surveys: status %d", resp.StatusCode)
	}

	var body struct {
		Surveys []model.Survey `json:"surveys"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.Wrap(err, "list surveys: decode response")
	}
	return body.Surveys, nil
}
