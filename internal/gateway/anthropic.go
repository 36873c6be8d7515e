package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pbaille/biomixer/internal/domain"
	"github.com/pbaille/biomixer/internal/prompt"
)

const (
	DefaultBaseURL        = "https://api.anthropic.com"
	DefaultAPIVersion     = "2023-06-01"
	DefaultMaxTokens      = 20000
	DefaultThinkingBudget = 12000
	DefaultTimeout        = 5 * time.Minute
)

// EmptyReply is returned in place of an upstream answer with no text
const EmptyReply = "Synthesis failed — try again."

// Config holds upstream connection settings
type Config struct {
	APIKey         string
	BaseURL        string
	APIVersion     string
	DefaultModel   string
	MaxTokens      int
	ThinkingBudget int
	Timeout        time.Duration
}

// DefaultConfig returns the settings used by the hosted service
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:         apiKey,
		BaseURL:        DefaultBaseURL,
		APIVersion:     DefaultAPIVersion,
		DefaultModel:   domain.DefaultModel,
		MaxTokens:      DefaultMaxTokens,
		ThinkingBudget: DefaultThinkingBudget,
		Timeout:        DefaultTimeout,
	}
}

// Request is the payload accepted by the synthesize endpoint
type Request struct {
	Mechanisms   []domain.MechanismEntry `json:"mechanisms"`
	Model        string                  `json:"model,omitempty"`
	SystemPrompt string                  `json:"systemPrompt,omitempty"`
}

// Gateway forwards synthesis prompts to the Anthropic messages API
type Gateway struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger
}

// New creates a Gateway. A nil logger disables logging.
func New(cfg Config, logger *zap.Logger) *Gateway {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = domain.DefaultModel
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.ThinkingBudget == 0 {
		cfg.ThinkingBudget = DefaultThinkingBudget
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Gateway{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Synthesize validates req, builds its prompt and returns the model's reply text.
// Every failure is an *Error.
func (g *Gateway) Synthesize(ctx context.Context, req Request) (string, error) {
	if len(req.Mechanisms) < 2 {
		return "", &Error{Kind: KindValidation, Status: http.StatusBadRequest, Message: MsgTooFewMechanisms}
	}
	if g.cfg.APIKey == "" {
		g.logger.Error("synthesis rejected: no API key configured")
		return "", &Error{Kind: KindConfiguration, Status: http.StatusInternalServerError, Message: MsgNoAPIKey}
	}

	model := req.Model
	if model == "" {
		model = g.cfg.DefaultModel
	}

	return g.callAPI(ctx, model, prompt.Build(req.Mechanisms, req.SystemPrompt))
}

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	Thinking  apiThinking  `json:"thinking"`
	Messages  []apiMessage `json:"messages"`
}

type apiThinking struct {
	Type         string `json:"type"`
	BudgetTokens int    `json:"budget_tokens"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type apiErrorResponse struct {
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (g *Gateway) callAPI(ctx context.Context, model, content string) (string, error) {
	reqBody := apiRequest{
		Model:     model,
		MaxTokens: g.cfg.MaxTokens,
		Thinking: apiThinking{
			Type:         "enabled",
			BudgetTokens: g.cfg.ThinkingBudget,
		},
		Messages: []apiMessage{
			{Role: "user", Content: content},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", transportError(fmt.Errorf("marshal request: %w", err))
	}

	url := strings.TrimSuffix(g.cfg.BaseURL, "/") + "/v1/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", transportError(fmt.Errorf("create request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", g.cfg.APIKey)
	req.Header.Set("anthropic-version", g.cfg.APIVersion)

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Warn("upstream request failed", zap.String("model", model), zap.Error(err))
		return "", transportError(fmt.Errorf("http request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", transportError(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := MsgUpstreamFailed
		var apiErr apiErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		g.logger.Warn("upstream returned error",
			zap.String("model", model),
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg))
		return "", &Error{
			Kind:    KindUpstream,
			Status:  resp.StatusCode,
			Message: msg,
		}
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", transportError(fmt.Errorf("unmarshal response: %w", err))
	}

	var sb strings.Builder
	for _, c := range apiResp.Content {
		sb.WriteString(c.Text)
	}

	g.logger.Debug("upstream reply",
		zap.String("model", model),
		zap.Int("chars", sb.Len()),
		zap.Duration("elapsed", time.Since(start)))

	if sb.Len() == 0 {
		return EmptyReply, nil
	}
	return sb.String(), nil
}

func transportError(err error) *Error {
	return &Error{
		Kind:    KindTransport,
		Status:  http.StatusInternalServerError,
		Message: MsgSynthesisFailed,
		Err:     err,
	}
}
