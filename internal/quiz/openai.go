package quiz

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-4o-mini"
)

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model    string          `json:"model"`
	Messages []openAIMessage `json:"messages"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// OpenAIProvider talks to any OpenAI-compatible chat-completions endpoint.
// With BaseURL pointed at a local server (Ollama, LM Studio, llama.cpp) it
// works without an API key.
type OpenAIProvider struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewOpenAIProvider(baseURL, apiKey, model string) *OpenAIProvider {
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIProvider{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  http.DefaultClient,
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Draft(ctx context.Context, req Request) ([]Draft, error) {
	body, err := json.Marshal(openAIRequest{
		Model: p.model,
		Messages: []openAIMessage{
			{Role: "system", Content: draftSystemPrompt},
			{Role: "user", Content: buildDraftPrompt(req)},
		},
	})
	if err != nil {
		return nil, providerErr(p.Name(), fmt.Errorf("marshaling request: %w", err))
	}

	log.Printf("quiz draft provider=openai base=%s model=%s items=%d", p.baseURL, p.model, len(req.Items))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, providerErr(p.Name(), err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, providerErr(p.Name(), err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, providerErr(p.Name(), fmt.Errorf("reading response: %w", err))
	}

	var parsed openAIResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, providerErr(p.Name(), fmt.Errorf("parsing response: %w", err))
	}
	if parsed.Error != nil {
		return nil, providerErr(p.Name(), fmt.Errorf("api error: %s", parsed.Error.Message))
	}
	if len(parsed.Choices) == 0 {
		return nil, providerErr(p.Name(), fmt.Errorf("no choices in response (status %d)", resp.StatusCode))
	}

	drafts, err := parseDrafts(parsed.Choices[0].Message.Content)
	if err != nil {
		return nil, providerErr(p.Name(), err)
	}
	return drafts, nil
}
