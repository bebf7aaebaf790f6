package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// CompatibilityScorer returns the compatibility score for a male/female
// roll-number pair. A failed call means "no opinion" for this pass, not a
// score of zero; retries are never performed.
type CompatibilityScorer interface {
	Score(ctx context.Context, maleRoll, femaleRoll string) (float64, error)
}

// ScoreClient calls the external matching API over HTTP.
type ScoreClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewScoreClient(baseURL string) *ScoreClient {
	return &ScoreClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *ScoreClient) Score(ctx context.Context, maleRoll, femaleRoll string) (float64, error) {
	endpoint, err := url.Parse(c.BaseURL + "/score")
	if err != nil {
		return 0, fmt.Errorf("invalid score API URL: %w", err)
	}

	query := endpoint.Query()
	query.Set("maleRollNo", maleRoll)
	query.Set("femaleRollNo", femaleRoll)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build score request: %w", err)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, fmt.Errorf("score request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("score API returned status %d", resp.StatusCode)
	}

	var body struct {
		Score *float64 `json:"score"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("failed to decode score response: %w", err)
	}

	// A response without a score field counts as 0
	if body.Score == nil {
		return 0, nil
	}
	return *body.Score, nil
}
