package agent

import (
	"context"
	"fmt"
	"strings"

	"quark/config"
	"quark/model"
)

// improvedMarker separates the reflection's verdict from the rewritten
// answer in the model's reply.
const improvedMarker = "Improved Response:"

// Reflector runs one extra model pass over the final answer and, when the
// model offers a better version, substitutes it. It never makes the answer
// worse on failure: any error returns the original text.
type Reflector struct {
	Provider model.Provider

	// Temperature defaults to 0.7; reflection benefits from some variety.
	Temperature float64
	MaxTokens   int
	Disabled    bool
}

// NewReflector creates a reflector with the default temperature.
func NewReflector(provider model.Provider) *Reflector {
	return &Reflector{
		Provider:    provider,
		Temperature: 0.7,
	}
}

// Reflect evaluates response against the original query and returns either
// an improved version or the response unchanged.
func (r *Reflector) Reflect(ctx context.Context, query, response string) string {
	if r == nil || r.Disabled || r.Provider == nil {
		return response
	}

	prompt := buildReflectionPrompt(query, response)
	reflected, err := r.Provider.Chat(ctx,
		[]model.Message{{Role: "user", Content: prompt}},
		model.ChatOptions{Temperature: r.temperature(), MaxTokens: r.MaxTokens},
	)
	if err != nil {
		if config.Debug && config.DebugLog != nil {
			config.DebugLog.Printf("[Reflector] reflection failed, keeping original: %v", err)
		}
		return response
	}

	improved := extractImprovedResponse(reflected)
	if improved == "" {
		return response
	}
	return improved
}

func (r *Reflector) temperature() float64 {
	if r.Temperature == 0 {
		return 0.7
	}
	return r.Temperature
}

func buildReflectionPrompt(query, response string) string {
	return fmt.Sprintf(strings.Join([]string{
		"Evaluate the following response to the user's request.",
		"",
		"Request:",
		"%s",
		"",
		"Response:",
		"%s",
		"",
		"If the response is accurate and complete, repeat it unchanged under the heading \"Improved Response:\".",
		"If it can be improved, write the better version under the heading \"Improved Response:\".",
	}, "\n"), query, response)
}

// extractImprovedResponse pulls the text after the improved-response heading.
// When the model skipped the heading, the whole reply is used.
func extractImprovedResponse(reflected string) string {
	if idx := strings.Index(reflected, improvedMarker); idx >= 0 {
		return strings.TrimSpace(reflected[idx+len(improvedMarker):])
	}
	return strings.TrimSpace(reflected)
}
