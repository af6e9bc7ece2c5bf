// Package predictor calls the external trait-prediction service that
// scores a 30-answer submission along the measured personality
// dimensions.
package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Client talks to the prediction service.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a predictor client for the given endpoint URL.
func NewClient(url string) *Client {
	return &Client{url: url, httpClient: &http.Client{}}
}

// Request is the payload the prediction service expects. The answers
// field keeps the name used by the upstream FastAPI service.
type Request struct {
	Answers         []int  `json:"respuestas"`
	StudentID       string `json:"studentId"`
	QuestionnaireID uint   `json:"questionnaireId"`
}

// Prediction is the service response. Scores the model does not compute
// arrive as null; levels is optional and holds raw strings such as
// "BAJO", "medio" or "alto".
type Prediction struct {
	Extraversion      *float64          `json:"extraversion"`
	Agreeableness     *float64          `json:"agreeableness"`
	Conscientiousness *float64          `json:"conscientiousness"`
	Levels            map[string]string `json:"levels"`
	ModelVersion      string            `json:"model_version"`
}

// Predict submits the ordered answers and returns the scored traits.
func (c *Client) Predict(ctx context.Context, req *Request) (*Prediction, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode predictor request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build predictor request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("predictor request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("predictor returned status %d: %s", resp.StatusCode, text)
	}

	var pred Prediction
	if err := json.NewDecoder(resp.Body).Decode(&pred); err != nil {
		return nil, fmt.Errorf("failed to decode predictor response: %w", err)
	}
	return &pred, nil
}
