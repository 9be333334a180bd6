package textgen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestClient(url string, timeout time.Duration) *Client {
	return NewClient(Config{
		APIKey:  "test-key",
		BaseURL: url,
		Timeout: timeout,
	})
}

func TestClient_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req generateRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Len(t, req.Contents, 1)
		assert.Equal(t, 0.7, req.GenerationConfig.Temperature)
		assert.Equal(t, 150, req.GenerationConfig.MaxOutputTokens)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": "hello back"}}}},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL, time.Second)
	reply, err := client.Complete(context.Background(), "hello", Options{Temperature: 0.7, MaxTokens: 150})

	assert.NoError(t, err)
	assert.Equal(t, "hello back", reply)
}

func TestClient_Complete_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		{
			name: "Non-2xx status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			check: func(t *testing.T, err error) {
				assert.Error(t, err)
				assert.NotErrorIs(t, err, ErrTimeout)
			},
		},
		{
			name: "Malformed JSON body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("{not json"))
			},
			check: func(t *testing.T, err error) {
				assert.Error(t, err)
			},
		},
		{
			name: "No candidates in response",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"candidates":[]}`))
			},
			check: func(t *testing.T, err error) {
				assert.Error(t, err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := newTestClient(server.URL, time.Second)
			_, err := client.Complete(context.Background(), "hi", Options{})
			tt.check(t, err)
		})
	}
}

func TestClient_Complete_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := newTestClient(server.URL, 20*time.Millisecond)
	_, err := client.Complete(context.Background(), "hi", Options{})

	assert.ErrorIs(t, err, ErrTimeout)
}

func TestClient_Complete_EmptyPrompt(t *testing.T) {
	client := newTestClient("http://unused", time.Second)
	_, err := client.Complete(context.Background(), "", Options{})
	assert.ErrorIs(t, err, ErrEmptyPrompt)
}
