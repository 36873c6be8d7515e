package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pbaille/biomixer/internal/domain"
	"github.com/pbaille/biomixer/internal/gateway"
)

// Client calls a running server's synthesize endpoint
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the server at baseURL
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Synthesize posts mechanisms and settings and returns the raw reply text.
// Failures come back as *gateway.Error carrying the server's message.
func (c *Client) Synthesize(ctx context.Context, mechanisms []domain.MechanismEntry, settings domain.Settings) (string, error) {
	jsonBody, err := json.Marshal(gateway.Request{
		Mechanisms:   mechanisms,
		Model:        settings.Model,
		SystemPrompt: settings.SystemPrompt,
	})
	if err != nil {
		return "", clientError(fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/synthesize", bytes.NewReader(jsonBody))
	if err != nil {
		return "", clientError(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", clientError(fmt.Errorf("http request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", clientError(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		msg := gateway.MsgSynthesisFailed
		var errResp ErrorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			msg = errResp.Error
		}
		return "", &gateway.Error{
			Kind:    gateway.KindFromStatus(resp.StatusCode),
			Status:  resp.StatusCode,
			Message: msg,
		}
	}

	var out SynthesizeResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", clientError(fmt.Errorf("unmarshal response: %w", err))
	}
	return out.Result, nil
}

func clientError(err error) *gateway.Error {
	return &gateway.Error{
		Kind:    gateway.KindTransport,
		Status:  http.StatusInternalServerError,
		Message: gateway.MsgSynthesisFailed,
		Err:     err,
	}
}
