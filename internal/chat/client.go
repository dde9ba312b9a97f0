// Package chat relays free-text questions about a workout or exercise to
// an OpenAI-compatible chat-completion provider.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind selects the system prompt for the question's subject.
type Kind string

const (
	KindWorkout  Kind = "treino"
	KindExercise Kind = "exercicio"
)

// FallbackAnswer is shown whenever the relay fails; the conversation
// continues normally afterwards.
const FallbackAnswer = "Desculpe, não consegui processar sua pergunta."

// ErrRelayUnavailable wraps transport and non-2xx failures from the
// provider.
var ErrRelayUnavailable = errors.New("chat relay unavailable")

// Config holds provider settings.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Client is a synchronous request/response relay: one question, one
// answer, no streaming.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient constructs a Client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
	}
}

type completionRequest struct {
	Model       string              `json:"model"`
	Messages    []completionMessage `json:"messages"`
	Temperature float64             `json:"temperature"`
	MaxTokens   int                 `json:"max_tokens"`
}

type completionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionResponse struct {
	Choices []struct {
		Message completionMessage `json:"message"`
	} `json:"choices"`
}

// Ask sends one question with the serialized subject snapshot as grounding
// context and returns the provider's answer.
func (c *Client) Ask(ctx context.Context, question, contextText string, kind Kind) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model: c.cfg.Model,
		Messages: []completionMessage{
			{Role: "system", Content: systemPrompt(kind, contextText)},
			{Role: "user", Content: question},
		},
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRelayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d", ErrRelayUnavailable, resp.StatusCode)
	}

	var decoded completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRelayUnavailable, err)
	}
	if len(decoded.Choices) == 0 || decoded.Choices[0].Message.Content == "" {
		return FallbackAnswer, nil
	}
	return decoded.Choices[0].Message.Content, nil
}

func systemPrompt(kind Kind, contextText string) string {
	if kind == KindExercise {
		return fmt.Sprintf(`Você é um assistente especializado em exercícios de academia. Responda perguntas sobre o exercício fornecido de forma clara, objetiva e útil. Use apenas as informações fornecidas sobre o exercício. Se não souber algo, seja honesto.

Informações do Exercício:
%s

Responda de forma amigável e profissional, sempre em português brasileiro.`, contextText)
	}
	return fmt.Sprintf(`Você é um assistente especializado em treinos de academia. Responda perguntas sobre o treino fornecido de forma clara, objetiva e útil. Use apenas as informações fornecidas sobre o treino e exercícios. Se não souber algo, seja honesto.

Informações do Treino:
%s

Responda de forma amigável e profissional, sempre em português brasileiro.`, contextText)
}
