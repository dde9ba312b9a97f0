package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAskSendsQuestionAndContext(t *testing.T) {
	var captured completionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "Faça 3 séries."}},
			},
		})
	}))
	defer server.Close()

	client := NewClient(Config{
		BaseURL:     server.URL,
		APIKey:      "test-key",
		Model:       "llama-3.1-8b-instant",
		Temperature: 0.7,
		MaxTokens:   1000,
	})

	answer, err := client.Ask(context.Background(), "Quantas séries?", "Treino: A", KindWorkout)
	require.NoError(t, err)
	require.Equal(t, "Faça 3 séries.", answer)

	require.Equal(t, "llama-3.1-8b-instant", captured.Model)
	require.Len(t, captured.Messages, 2)
	require.Equal(t, "system", captured.Messages[0].Role)
	require.Contains(t, captured.Messages[0].Content, "Treino: A")
	require.Contains(t, captured.Messages[0].Content, "treinos de academia")
	require.Equal(t, "Quantas séries?", captured.Messages[1].Content)
}

func TestAskExercisePrompt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req completionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Contains(t, req.Messages[0].Content, "exercícios de academia")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "ok"}},
			},
		})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	_, err := client.Ask(context.Background(), "Como executar?", "Exercício: Supino", KindExercise)
	require.NoError(t, err)
}

func TestAskNon2xxIsRelayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	_, err := client.Ask(context.Background(), "?", "ctx", KindWorkout)
	require.ErrorIs(t, err, ErrRelayUnavailable)
}

func TestAskEmptyChoicesFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	answer, err := client.Ask(context.Background(), "?", "ctx", KindWorkout)
	require.NoError(t, err)
	require.Equal(t, FallbackAnswer, answer)
}

func TestAskConnectionRefusedIsRelayError(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:1"})
	_, err := client.Ask(context.Background(), "?", "ctx", KindWorkout)
	require.ErrorIs(t, err, ErrRelayUnavailable)
}
