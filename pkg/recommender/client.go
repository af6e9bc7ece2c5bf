// Package recommender calls the external workflow engine that turns a
// scored trait profile into per-trait strategy text. The whole call is
// best-effort: the questionnaire submission never depends on it.
package recommender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Client talks to the recommendation workflow.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a workflow client. An empty URL disables the client;
// callers must check Enabled before use.
func NewClient(url string) *Client {
	return &Client{url: url, httpClient: &http.Client{}}
}

// Enabled reports whether a workflow URL is configured.
func (c *Client) Enabled() bool { return c.url != "" }

// TraitInput carries one trait's score and derived level.
type TraitInput struct {
	Score *float64 `json:"score"`
	Level *string  `json:"level"`
}

// Request is the workflow payload. Field names match what the workflow
// prompt template expects.
type Request struct {
	StudentID string                `json:"studentId"`
	ProfileID uint                  `json:"perfilId"`
	GroupID   uint                  `json:"grupoId"`
	Traits    map[string]TraitInput `json:"traits"`
}

// TraitRecommendations is one trait's block in the workflow response.
type TraitRecommendations struct {
	Recommendations []string `json:"recommendations"`
}

// Generate calls the workflow and returns the per-trait recommendation
// lists. The workflow may answer with a direct object, a JSON-encoded
// string, or an {"output": "<json>"} wrapper; all three are accepted.
func (c *Client) Generate(ctx context.Context, req *Request) (map[string]TraitRecommendations, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode workflow request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build workflow request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("workflow request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("workflow returned status %d: %s", resp.StatusCode, text)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow response: %w", err)
	}

	return parsePayload(raw)
}

func parsePayload(raw []byte) (map[string]TraitRecommendations, error) {
	payload := raw

	// The current workflow returns its JSON as a string, sometimes under
	// an "output" key. Unwrap until an object remains.
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		payload = []byte(asString)
	} else {
		var wrapped struct {
			Output string `json:"output"`
		}
		if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Output != "" {
			payload = []byte(wrapped.Output)
		}
	}

	var out map[string]TraitRecommendations
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("malformed workflow payload: %w", err)
	}
	return out, nil
}
