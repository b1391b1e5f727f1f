package provider

import (
	"testing"

	"github.com/ollama/ollama/api"

	"quark/model"
	"quark/provider/testutil"
)

func TestConvertToOllamaMessages(t *testing.T) {
	messages := testutil.TestMessages()
	converted := ConvertToOllamaMessages(messages)

	if len(converted) != len(messages) {
		t.Fatalf("converted %d messages, want %d", len(converted), len(messages))
	}
	for i, msg := range converted {
		if msg.Role != messages[i].Role {
			t.Errorf("message %d role = %q, want %q", i, msg.Role, messages[i].Role)
		}
		if msg.Content != messages[i].Content {
			t.Errorf("message %d content = %q, want %q", i, msg.Content, messages[i].Content)
		}
	}
}

func TestConvertFromOllamaMessages(t *testing.T) {
	ollamaMessages := []api.Message{
		{Role: "assistant", Content: "Response text"},
		{Role: "user", Content: "Follow-up"},
	}
	converted := ConvertFromOllamaMessages(ollamaMessages)

	if len(converted) != 2 {
		t.Fatalf("converted %d messages, want 2", len(converted))
	}
	if converted[0].Role != "assistant" || converted[0].Content != "Response text" {
		t.Errorf("unexpected first message: %+v", converted[0])
	}
	if !converted[0].Timestamp.IsZero() {
		t.Error("timestamp should be zero for converted messages")
	}
}

func TestConvertToOpenAIMessagesRoleMapping(t *testing.T) {
	messages := []model.Message{
		{Role: "system", Content: "You are helpful."},
		{Role: "user", Content: "Hi"},
		{Role: "assistant", Content: "Hello"},
		{Role: "tool", Content: "result"},
	}
	converted := ConvertToOpenAIMessages(messages)

	if len(converted) != 4 {
		t.Fatalf("converted %d messages, want 4", len(converted))
	}
	if converted[0].OfSystem == nil {
		t.Error("system message not mapped to system union member")
	}
	if converted[1].OfUser == nil {
		t.Error("user message not mapped to user union member")
	}
	if converted[2].OfAssistant == nil {
		t.Error("assistant message not mapped to assistant union member")
	}
	// Unknown roles fall back to user
	if converted[3].OfUser == nil {
		t.Error("tool message should fall back to user union member")
	}
}

func TestConvertToAnthropicMessagesSplitsSystem(t *testing.T) {
	messages := []model.Message{
		{Role: "system", Content: "Be terse."},
		{Role: "user", Content: "Hi"},
		{Role: "assistant", Content: "Hello"},
	}
	anthropicMsgs, systemBlocks := convertToAnthropicMessages(messages)

	if len(systemBlocks) != 1 {
		t.Fatalf("got %d system blocks, want 1", len(systemBlocks))
	}
	if systemBlocks[0].Text != "Be terse." {
		t.Errorf("system block = %q", systemBlocks[0].Text)
	}
	if len(anthropicMsgs) != 2 {
		t.Errorf("got %d conversation messages, want 2", len(anthropicMsgs))
	}
}
