package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/hemalink/hemalink-backend/internal/config"
)

// ErrPredictionFailed covers every collaborator failure mode: transport
// errors, non-200 statuses, and unparseable or empty responses. Handlers
// map it to 502.
var ErrPredictionFailed = errors.New("prediction service failed")

// Client calls the external image classification service.
type Client struct {
	url        string
	httpClient *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		url: cfg.PredictorURL,
		httpClient: &http.Client{
			Timeout: cfg.PredictorTimeout,
		},
	}
}

type predictResponse struct {
	Class string `json:"class"`
}

// Predict submits the image and returns the classification label. The
// request is bounded by the client timeout so a hung collaborator cannot
// stall the handler indefinitely.
func (c *Client) Predict(ctx context.Context, filename string, image []byte) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return "", fmt.Errorf("failed to write image payload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &body)
	if err != nil {
		return "", fmt.Errorf("failed to build prediction request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("prediction request failed", "url", c.url, "error", err)
		return "", ErrPredictionFailed
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Error("prediction service returned non-200", "url", c.url, "status", resp.StatusCode)
		return "", ErrPredictionFailed
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", ErrPredictionFailed
	}

	var parsed predictResponse
	if err := json.Unmarshal(raw, &parsed); err != nil || parsed.Class == "" {
		slog.Error("prediction response unparseable", "url", c.url)
		return "", ErrPredictionFailed
	}

	return parsed.Class, nil
}
