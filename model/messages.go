package model

import (
	"quark/ollama"
	"quark/storage"
)

// AgentDoneMsg carries the agent's final text back to the update loop.
type AgentDoneMsg struct {
	Response string
}

// ToolEventMsg is one agent tool notification, delivered via WaitForToolEvent.
type ToolEventMsg struct {
	Event ToolEvent
}

type MarkdownRenderedMsg struct {
	MessageIndex int
	Rendered     string
}

type ModelsListMsg struct {
	Models       []ollama.ModelInfo
	Err          error
	ShowSelector bool
}

type SessionsListMsg struct {
	Sessions []storage.SessionMetadata
	Err      error
}

type SessionLoadedMsg struct {
	Session *storage.Session
	Err     error
}

type SessionSavedMsg struct {
	Err error
}

type SessionRenamedMsg struct {
	Err error
}

type SessionExportedMsg struct {
	Path      string
	Err       error
	Cancelled bool
}

type SessionImportedMsg struct {
	Session   *storage.Session
	Err       error
	Cancelled bool
}
