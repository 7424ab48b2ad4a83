// Package classifier talks to an external text classifier service that
// returns class probabilities as [p_human, p_ai].
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"scholarcheck/internal/aidetect"
)

type predictRequest struct {
	Text string `json:"text"`
}

type predictResponse struct {
	Probabilities []float64 `json:"probabilities"`
}

// HTTPClassifier posts {"text": ...} to endpoint and reads back probabilities.
type HTTPClassifier struct {
	endpoint string
	client   *http.Client
}

// New returns aidetect.Unavailable when endpoint is empty.
func New(endpoint string, timeout time.Duration) aidetect.Classifier {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return aidetect.Unavailable
	}
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &HTTPClassifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClassifier) Available() bool { return true }

func (c *HTTPClassifier) PredictAI(ctx context.Context, text string) (float64, error) {
	payload, err := json.Marshal(predictRequest{Text: text})
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	_ = resp.Body.Close()
	if err != nil {
		return 0, fmt.Errorf("read classifier response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("classifier status %d", resp.StatusCode)
	}
	var parsed predictResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("decode classifier response: %w", err)
	}
	if len(parsed.Probabilities) != 2 {
		return 0, fmt.Errorf("classifier returned %d probabilities, want 2", len(parsed.Probabilities))
	}
	return parsed.Probabilities[1], nil
}
