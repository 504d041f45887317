package summarize

import (
	"context"
	"fmt"

	"github.com/aktagon/llmkit/anthropic"
	"github.com/aktagon/llmkit/anthropic/types"
)

// Anthropic implements Summarizer against the Anthropic API.
type Anthropic struct {
	apiKey   string
	settings types.RequestSettings
}

// NewAnthropic creates an Anthropic summarizer. An empty API key yields a
// permanently unavailable capability rather than an error: the journey
// pipeline runs fine on fallback summaries alone.
func NewAnthropic(apiKey, model string, maxTokens int, temperature float64) *Anthropic {
	return &Anthropic{
		apiKey: apiKey,
		settings: types.RequestSettings{
			Model:       model,
			MaxTokens:   maxTokens,
			Temperature: temperature,
		},
	}
}

// Availability reports whether the API can be called.
func (a *Anthropic) Availability() Availability {
	if a.apiKey == "" {
		return Unavailable
	}
	return Available
}

// NewSession creates a session bound to the given system prompt.
func (a *Anthropic) NewSession(_ context.Context, systemPrompt string) (Session, error) {
	if a.Availability() != Available {
		return nil, fmt.Errorf("summarizer unavailable: no API key configured")
	}
	return &anthropicSession{
		apiKey:       a.apiKey,
		settings:     a.settings,
		systemPrompt: systemPrompt,
	}, nil
}

type anthropicSession struct {
	apiKey       string
	settings     types.RequestSettings
	systemPrompt string
}

// Summarize sends the prompt and returns the model's text response.
func (s *anthropicSession) Summarize(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	response, err := anthropic.PromptWithSettings(s.systemPrompt, prompt, "", s.apiKey, s.settings)
	if err != nil {
		return "", fmt.Errorf("summarize request: %w", err)
	}
	if len(response.Content) == 0 {
		return "", fmt.Errorf("summarize request: empty response")
	}
	return response.Content[0].Text, nil
}

// Disabled is a Summarizer that is never available. Used when the config
// turns summarization off entirely.
type Disabled struct{}

// Availability always reports Unavailable.
func (Disabled) Availability() Availability { return Unavailable }

// NewSession always fails.
func (Disabled) NewSession(context.Context, string) (Session, error) {
	return nil, fmt.Errorf("summarizer disabled")
}
