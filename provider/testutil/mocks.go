// Package testutil provides mock providers and fixtures for tests.
package testutil

import (
	"context"
	"fmt"

	"quark/model"
	"quark/ollama"
)

// ScriptedProvider implements model.Provider by replaying a fixed list of
// responses, one per Chat call. When the script runs out it keeps returning
// the last entry. It records every Chat call for assertions.
type ScriptedProvider struct {
	Responses []string
	Calls     [][]model.Message

	currentModel string
}

// NewScriptedProvider creates a provider that replays responses in order.
func NewScriptedProvider(responses ...string) *ScriptedProvider {
	return &ScriptedProvider{
		Responses:    responses,
		currentModel: "scripted-model",
	}
}

// CallCount returns how many times Chat was invoked.
func (s *ScriptedProvider) CallCount() int {
	return len(s.Calls)
}

func (s *ScriptedProvider) Chat(ctx context.Context, messages []model.Message, opts model.ChatOptions) (string, error) {
	idx := len(s.Calls)
	s.Calls = append(s.Calls, append([]model.Message(nil), messages...))

	if len(s.Responses) == 0 {
		return "", fmt.Errorf("scripted provider has no responses")
	}
	if idx >= len(s.Responses) {
		idx = len(s.Responses) - 1
	}
	return s.Responses[idx], nil
}

func (s *ScriptedProvider) ListModels(ctx context.Context) ([]ollama.ModelInfo, error) {
	return []ollama.ModelInfo{
		{Name: "mock-model-1", InternalName: "mock-model-1", Size: 1000, Provider: "mock"},
		{Name: "mock-model-2", InternalName: "mock-model-2", Size: 2000, Provider: "mock"},
	}, nil
}

func (s *ScriptedProvider) GetModel() string           { return s.currentModel }
func (s *ScriptedProvider) GetDisplayName() string     { return s.currentModel }
func (s *ScriptedProvider) SetModel(m string)          { s.currentModel = m }
func (s *ScriptedProvider) Ping(context.Context) error { return nil }

// FlakyProvider fails the first FailCount Chat calls with Err, then delegates
// to the embedded provider. Used for retry tests.
type FlakyProvider struct {
	*ScriptedProvider
	FailCount int
	Err       error

	attempts int
}

// NewFlakyProvider creates a provider that fails failCount times before
// answering with response.
func NewFlakyProvider(failCount int, err error, response string) *FlakyProvider {
	return &FlakyProvider{
		ScriptedProvider: NewScriptedProvider(response),
		FailCount:        failCount,
		Err:              err,
	}
}

// Attempts returns how many Chat calls were made, including failed ones.
func (f *FlakyProvider) Attempts() int {
	return f.attempts
}

func (f *FlakyProvider) Chat(ctx context.Context, messages []model.Message, opts model.ChatOptions) (string, error) {
	f.attempts++
	if f.attempts <= f.FailCount {
		return "", f.Err
	}
	return f.ScriptedProvider.Chat(ctx, messages, opts)
}
