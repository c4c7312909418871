package service_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"

	"github.com/jjtjtyt6644/studify/internal/service"
	"github.com/jjtjtyt6644/studify/pkg/entity"
)

type capturedChatRequest struct {
	Model       string               `json:"model"`
	Messages    []entity.ChatMessage `json:"messages"`
	Temperature float64              `json:"temperature"`
	MaxTokens   int                  `json:"max_tokens"`
}

func TestSendMessage(t *testing.T) {
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		var captured capturedChatRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&captured)
			assert.NoError(t, err)
			w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Photosynthesis converts light into energy."}}]}`))
		}))
		defer server.Close()
		s := service.NewChatService(server.URL, "test-key")
		history := []entity.ChatMessage{
			{Role: "user", Content: "hi"},
			{Role: "assistant", Content: "hello"},
		}
		reply := s.SendMessage(ctx, history, "explain photosynthesis")
		assert.Equal(t, "assistant", reply.Role)
		assert.Equal(t, "Photosynthesis converts light into energy.", reply.Content)

		assert.Equal(t, "llama-3.3-70b-versatile", captured.Model)
		assert.Equal(t, 1024, captured.MaxTokens)
		assert.Equal(t, 4, len(captured.Messages))
		assert.Equal(t, "system", captured.Messages[0].Role)
		assert.Equal(t, "explain photosynthesis", captured.Messages[3].Content)
	})
	t.Run("api failure degrades to fallback", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()
		s := service.NewChatService(server.URL, "test-key")
		reply := s.SendMessage(ctx, nil, "anyone there?")
		assert.Equal(t, "assistant", reply.Role)
		assert.Contains(t, reply.Content, "Sorry, I encountered an error")
	})
	t.Run("empty choices degrade to fallback", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices":[]}`))
		}))
		defer server.Close()
		s := service.NewChatService(server.URL, "test-key")
		reply := s.SendMessage(ctx, nil, "hello")
		assert.Contains(t, reply.Content, "Sorry, I encountered an error")
	})
	t.Run("unreachable endpoint degrades to fallback", func(t *testing.T) {
		s := service.NewChatService("http://127.0.0.1:1", "test-key")
		reply := s.SendMessage(ctx, nil, "hello")
		assert.Contains(t, reply.Content, "Sorry, I encountered an error")
	})
}
