package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbaille/biomixer/internal/domain"
)

func twoMechanisms() []domain.MechanismEntry {
	return []domain.MechanismEntry{
		{ID: "a", Name: "Venom Synthesis", Mech: "toxins", Tags: []string{"toxin"}},
		{ID: "b", Name: "Bioluminescence", Mech: "light", Tags: []string{"light"}},
	}
}

func newTestGateway(t *testing.T, apiKey string, h http.HandlerFunc) (*Gateway, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg := DefaultConfig(apiKey)
	cfg.BaseURL = srv.URL
	return New(cfg, nil), &calls
}

func TestSynthesizeSendsExpectedRequest(t *testing.T) {
	var got apiRequest
	g, _ := newTestGateway(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":[{"type":"thinking","thinking":"..."},{"type":"text","text":"NAME: X\n"},{"type":"text","text":"BODY: y"}]}`))
	})

	text, err := g.Synthesize(context.Background(), Request{Mechanisms: twoMechanisms()})
	require.NoError(t, err)

	assert.Equal(t, "NAME: X\nBODY: y", text)
	assert.Equal(t, domain.DefaultModel, got.Model)
	assert.Equal(t, 20000, got.MaxTokens)
	assert.Equal(t, "enabled", got.Thinking.Type)
	assert.Equal(t, 12000, got.Thinking.BudgetTokens)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Contains(t, got.Messages[0].Content, "Venom Synthesis")
	assert.Contains(t, got.Messages[0].Content, "You are given 2 real biological mechanisms")
}

func TestSynthesizeUsesRequestedModelAndTemplate(t *testing.T) {
	var got apiRequest
	g, _ := newTestGateway(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"content":[{"text":"ok"}]}`))
	})

	_, err := g.Synthesize(context.Background(), Request{
		Mechanisms:   twoMechanisms(),
		Model:        "claude-opus-4-6",
		SystemPrompt: "count=${mechanisms.length}",
	})
	require.NoError(t, err)
	assert.Equal(t, "claude-opus-4-6", got.Model)
	assert.Equal(t, "count=2", got.Messages[0].Content)
}

func TestSynthesizeValidation(t *testing.T) {
	g, calls := newTestGateway(t, "secret", func(w http.ResponseWriter, r *http.Request) {})

	_, err := g.Synthesize(context.Background(), Request{Mechanisms: twoMechanisms()[:1]})

	var gerr *Error
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, KindValidation, gerr.Kind)
	assert.Equal(t, http.StatusBadRequest, gerr.Status)
	assert.Equal(t, MsgTooFewMechanisms, gerr.Message)
	assert.Zero(t, calls.Load())
}

func TestSynthesizeMissingAPIKey(t *testing.T) {
	g, calls := newTestGateway(t, "", func(w http.ResponseWriter, r *http.Request) {})

	_, err := g.Synthesize(context.Background(), Request{Mechanisms: twoMechanisms()})

	var gerr *Error
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, KindConfiguration, gerr.Kind)
	assert.Equal(t, http.StatusInternalServerError, StatusOf(err))
	assert.Equal(t, MsgNoAPIKey, MessageOf(err))
	assert.Zero(t, calls.Load())
}

func TestSynthesizeUpstreamError(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"with message", `{"type":"error","error":{"type":"rate_limit_error","message":"rate limited"}}`, "rate limited"},
		{"without message", `{"type":"error"}`, MsgUpstreamFailed},
		{"not json", `<html>bad gateway</html>`, MsgUpstreamFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := newTestGateway(t, "secret", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(tt.body))
			})

			_, err := g.Synthesize(context.Background(), Request{Mechanisms: twoMechanisms()})

			var gerr *Error
			require.True(t, errors.As(err, &gerr))
			assert.Equal(t, KindUpstream, gerr.Kind)
			assert.Equal(t, http.StatusTooManyRequests, StatusOf(err))
			assert.Equal(t, tt.wantMsg, MessageOf(err))
			assert.True(t, gerr.Kind.Retryable())
		})
	}
}

func TestSynthesizeEmptyReplyFallsBack(t *testing.T) {
	for _, body := range []string{`{"content":[]}`, `{}`, `{"content":[{"type":"thinking"}]}`} {
		g, _ := newTestGateway(t, "secret", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		})

		text, err := g.Synthesize(context.Background(), Request{Mechanisms: twoMechanisms()})
		require.NoError(t, err, body)
		assert.Equal(t, EmptyReply, text, body)
	}
}

func TestSynthesizeTransportFaults(t *testing.T) {
	t.Run("malformed body", func(t *testing.T) {
		g, _ := newTestGateway(t, "secret", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"content":`))
		})
		_, err := g.Synthesize(context.Background(), Request{Mechanisms: twoMechanisms()})

		var gerr *Error
		require.True(t, errors.As(err, &gerr))
		assert.Equal(t, KindTransport, gerr.Kind)
		assert.Equal(t, MsgSynthesisFailed, MessageOf(err))
	})

	t.Run("connection refused", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		cfg := DefaultConfig("secret")
		cfg.BaseURL = url
		_, err := New(cfg, nil).Synthesize(context.Background(), Request{Mechanisms: twoMechanisms()})

		var gerr *Error
		require.True(t, errors.As(err, &gerr))
		assert.Equal(t, KindTransport, gerr.Kind)
		assert.Equal(t, http.StatusInternalServerError, StatusOf(err))
		assert.Error(t, errors.Unwrap(err))
	})
}

func TestMessageOfPlainError(t *testing.T) {
	assert.Equal(t, "boom", MessageOf(errors.New("boom")))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("boom")))
}
