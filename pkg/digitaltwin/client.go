// Package digitaltwin is the HTTP client for the external digital-twin
// energy telemetry API. Calls run under the caller's forwarded bearer token.
package digitaltwin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Membership links a participant to their energy community.
type Membership struct {
	CommunityID string `json:"community_id"`
}

// Balance holds aggregate energy figures. Fields the twin has not resolved
// yet come back null and stay nil here.
type Balance struct {
	ProductionKWh      *float64 `json:"production_kwh"`
	ConsumptionKWh     *float64 `json:"consumption_kwh"`
	SelfConsumptionKWh *float64 `json:"self_consumption_kwh"`
}

// TimeseriesRecord is one telemetry sample.
type TimeseriesRecord struct {
	Timestamp          time.Time `json:"timestamp"`
	ProductionKWh      *float64  `json:"production_kwh"`
	ConsumptionKWh     *float64  `json:"consumption_kwh"`
	SelfConsumptionKWh *float64  `json:"self_consumption_kwh"`
}

// Membership resolves the caller's community. A participant unknown to the
// twin is not an error: (nil, nil).
func (c *Client) Membership(ctx context.Context, token, sub string) (*Membership, error) {
	var membership Membership
	found, err := c.get(ctx, token, "/members/"+url.PathEscape(sub), &membership)
	if err != nil || !found {
		return nil, err
	}
	return &membership, nil
}

// MemberBalance fetches the participant's own energy balance.
func (c *Client) MemberBalance(ctx context.Context, token, sub string) (*Balance, error) {
	var balance Balance
	found, err := c.get(ctx, token, "/members/"+url.PathEscape(sub)+"/balance", &balance)
	if err != nil || !found {
		return nil, err
	}
	return &balance, nil
}

// CommunityBalance fetches the community-wide energy balance.
func (c *Client) CommunityBalance(ctx context.Context, token, communityID string) (*Balance, error) {
	var balance Balance
	found, err := c.get(ctx, token, "/communities/"+url.PathEscape(communityID)+"/balance", &balance)
	if err != nil || !found {
		return nil, err
	}
	return &balance, nil
}

// CommunityTimeseries fetches telemetry samples for [from, to].
func (c *Client) CommunityTimeseries(ctx context.Context, token, communityID string, from, to time.Time) ([]TimeseriesRecord, error) {
	path := fmt.Sprintf("/communities/%s/timeseries?from=%s&to=%s",
		url.PathEscape(communityID),
		url.QueryEscape(from.Format(time.RFC3339)),
		url.QueryEscape(to.Format(time.RFC3339)),
	)
	var records []TimeseriesRecord
	if _, err := c.get(ctx, token, path, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// get runs an authorized GET and decodes into out. Returns found=false for a
// 404 so callers can treat missing upstream data as "unknown", not failure.
func (c *Client) get(ctx context.Context, token, path string, out interface{}) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("digital twin request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return false, fmt.Errorf("digital twin returned %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("failed to decode digital twin response: %w", err)
	}
	return true, nil
}
