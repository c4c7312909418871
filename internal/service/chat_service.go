package service

import (
	"bytes"
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"

	"github.com/jjtjtyt6644/studify/pkg/entity"
)

const (
	chatModel       = "llama-3.3-70b-versatile"
	chatTemperature = 0.7
	chatMaxTokens   = 1024

	systemPrompt = "You are a helpful study assistant. Help students with their homework, " +
		"explain concepts, and provide study tips. Keep responses concise and clear."

	fallbackReply = "Sorry, I encountered an error. Please make sure your API key is configured correctly."
)

type chatRequest struct {
	Model       string               `json:"model"`
	Messages    []entity.ChatMessage `json:"messages"`
	Temperature float64              `json:"temperature"`
	MaxTokens   int                  `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message entity.ChatMessage `json:"message"`
	} `json:"choices"`
}

// ChatService forwards the conversation to an OpenAI-compatible
// chat-completions endpoint. One request per message, no streaming, no
// retries; every failure becomes a single fallback assistant message.
type ChatService struct {
	client *http.Client
	apiURL string
	apiKey string
}

func NewChatService(apiURL, apiKey string) *ChatService {
	if apiURL == "" {
		log.Fatal("provided empty chat api url")
	}
	return &ChatService{
		client: &http.Client{Timeout: 30 * time.Second},
		apiURL: apiURL,
		apiKey: apiKey,
	}
}

func (cs *ChatService) SendMessage(ctx context.Context, history []entity.ChatMessage, text string) entity.ChatMessage {
	reply, err := cs.complete(ctx, history, text)
	if err != nil {
		slog.Error("chat completion failed", slog.String("error", err.Error()))
		return entity.ChatMessage{Role: "assistant", Content: fallbackReply}
	}
	return reply
}

func (cs *ChatService) complete(ctx context.Context, history []entity.ChatMessage, text string) (entity.ChatMessage, error) {
	messages := make([]entity.ChatMessage, 0, len(history)+2)
	messages = append(messages, entity.ChatMessage{Role: "system", Content: systemPrompt})
	messages = append(messages, history...)
	messages = append(messages, entity.ChatMessage{Role: "user", Content: text})

	body, err := sonic.ConfigDefault.Marshal(chatRequest{
		Model:       chatModel,
		Messages:    messages,
		Temperature: chatTemperature,
		MaxTokens:   chatMaxTokens,
	})
	if err != nil {
		return entity.ChatMessage{}, errors.New("marshalling chat request error: " + err.Error())
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cs.apiURL, bytes.NewReader(body))
	if err != nil {
		return entity.ChatMessage{}, errors.New("building chat request error: " + err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cs.apiKey)

	resp, err := cs.client.Do(req)
	if err != nil {
		return entity.ChatMessage{}, errors.New("chat api request error: " + err.Error())
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return entity.ChatMessage{}, errors.New("chat api returned status " + resp.Status)
	}
	var parsed chatResponse
	err = sonic.ConfigDefault.NewDecoder(resp.Body).Decode(&parsed)
	if err != nil {
		return entity.ChatMessage{}, errors.New("decoding chat response error: " + err.Error())
	}
	if len(parsed.Choices) == 0 {
		return entity.ChatMessage{}, errors.New("chat api returned no choices")
	}
	return parsed.Choices[0].Message, nil
}
