// internal/common/genai/client_test.go
package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"validation-workers/internal/common/config"
	"validation-workers/internal/common/logger"
)

func completionBody(content string) string {
	b, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	})
	return string(b)
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	return NewClient(config.GenAIConfig{
		BaseURL:    baseURL,
		APIKey:     "test-key",
		Model:      "test-model",
		MaxTokens:  256,
		MaxRetries: 2,
	}, logger.NewTestLogger(t))
}

func testRequest() Request {
	return Request{
		Messages: []Message{
			{Role: "system", Content: "You score startup ideas."},
			{Role: "user", Content: "Score this one."},
		},
		Temperature: 0.7,
	}
}

func TestGenerate(t *testing.T) {
	var captured chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(completionBody(`{"confidence": "high"}`)))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	text, err := client.Generate(context.Background(), testRequest())
	assert.NoError(t, err)
	assert.Equal(t, `{"confidence": "high"}`, text)

	assert.Equal(t, "test-model", captured.Model)
	assert.Equal(t, 0.7, captured.Temperature)
	assert.Equal(t, 256, captured.MaxTokens)
	assert.Len(t, captured.Messages, 2)
}

func TestGenerate_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(completionBody("recovered")))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	text, err := client.Generate(context.Background(), testRequest())
	assert.NoError(t, err)
	assert.Equal(t, "recovered", text)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGenerate_ExhaustedRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.Generate(context.Background(), testRequest())
	assert.ErrorIs(t, err, ErrFailed)
}

func TestGenerate_ContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(completionBody("too late")))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Generate(ctx, testRequest())
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestGenerate_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": {"message": "rate limited", "type": "rate_limit"}}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.Generate(context.Background(), testRequest())
	assert.ErrorIs(t, err, ErrFailed)
	assert.ErrorContains(t, err, "rate limited")
}

func TestGenerate_EmptyCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.Generate(context.Background(), testRequest())
	assert.ErrorIs(t, err, ErrFailed)
}

func TestGenerate_RequestOverrides(t *testing.T) {
	var captured chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&captured)
		w.Write([]byte(completionBody("ok")))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	req := testRequest()
	req.Model = "bigger-model"
	req.MaxTokens = 4096
	_, err := client.Generate(context.Background(), req)
	assert.NoError(t, err)
	assert.Equal(t, "bigger-model", captured.Model)
	assert.Equal(t, 4096, captured.MaxTokens)
}

func TestAvailable(t *testing.T) {
	client := NewClient(config.GenAIConfig{}, logger.NewNoOpLogger())
	assert.ErrorIs(t, client.Available(), ErrUnavailable)

	client = NewClient(config.GenAIConfig{BaseURL: "http://localhost"}, logger.NewNoOpLogger())
	assert.ErrorIs(t, client.Available(), ErrUnavailable)

	client = NewClient(config.GenAIConfig{BaseURL: "http://localhost", APIKey: "k"}, logger.NewNoOpLogger())
	assert.NoError(t, client.Available())
}

func TestGenerate_UnavailableWithoutConfig(t *testing.T) {
	client := NewClient(config.GenAIConfig{}, logger.NewNoOpLogger())
	_, err := client.Generate(context.Background(), testRequest())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestTemperatureAccessors(t *testing.T) {
	client := NewClient(config.GenAIConfig{
		ScoringTemperature:  0.3,
		CreativeTemperature: 0.9,
	}, logger.NewNoOpLogger())
	assert.Equal(t, 0.3, client.ScoringTemperature())
	assert.Equal(t, 0.9, client.CreativeTemperature())
}
