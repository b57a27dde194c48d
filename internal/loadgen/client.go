package loadgen

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/okian/pathwise/internal/domain/model"
)

// Prediction is the subset of the predict response the load run inspects.
type Prediction struct {
	Success bool   `json:"success"`
	Label   string `json:"label"`
}

// client posts predictions to the service.
type client struct {
	http    *http.Client
	baseURL string
}

func newClient(baseURL string, timeout time.Duration) *client {
	return &client{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// health reports the status code of GET /health.
func (c *client) health(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

// predict submits one metric vector. It returns the HTTP status, and the
// decoded body on 200.
func (c *client) predict(ctx context.Context, m model.MetricVector) (int, Prediction, error) {
	body, err := json.Marshal(m)
	if err != nil {
		return 0, Prediction{}, fmt.Errorf("marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict-difficulty", bytes.NewReader(body))
	if err != nil {
		return 0, Prediction{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, Prediction{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, Prediction{}, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, Prediction{}, nil
	}
	var p Prediction
	if err := json.Unmarshal(data, &p); err != nil {
		return resp.StatusCode, Prediction{}, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, p, nil
}
