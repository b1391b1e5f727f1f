package model

import (
	"context"
	"time"

	"quark/config"
	"quark/ollama"
	"quark/storage"
	"quark/tools"
)

// QueryRunner is the agent loop as seen from the application model. It is an
// interface here so the model package does not have to import the agent
// package (which imports model for Provider and Message).
type QueryRunner interface {
	Run(ctx context.Context, query string) string
}

// ToolEvent is a tool-execution notification surfaced to the UI. Phase is
// "status" before the handler runs and "end" after.
type ToolEvent struct {
	Phase  string
	Tool   string
	Args   map[string]any
	Result string
}

// Model holds the core application data and business logic state
type Model struct {
	// Core dependencies
	Config         *config.Config
	Provider       Provider
	Providers      map[string]Provider
	SessionStorage *storage.SessionStorage
	SearchIndex    *storage.SearchIndex
	Memory         *storage.Memory
	ToolLog        *storage.ToolRunLog
	Registry       *tools.Registry
	Runner         QueryRunner

	// ToolEvents carries agent tool notifications into the update loop.
	ToolEvents chan ToolEvent

	// Application data
	Messages       []Message
	CurrentSession *storage.Session

	// Model list cache per provider
	ModelCache  map[string][]ollama.ModelInfo
	CacheExpiry map[string]time.Time

	// Runtime state (not UI)
	Busy               bool
	SessionDirty       bool
	NeedsInitialRender bool
	Quitting           bool

	// Application metadata
	Version string
	License string
}

// NewModel creates a new Model with the given configuration
func NewModel(cfg *config.Config, providers map[string]Provider, active Provider, sessionStorage *storage.SessionStorage, lastSession *storage.Session, searchIndex *storage.SearchIndex, memory *storage.Memory, toolLog *storage.ToolRunLog, registry *tools.Registry, version, license string) *Model {
	// Restore model selection from the last session if available
	if active != nil && lastSession != nil && lastSession.Model != "" {
		active.SetModel(lastSession.Model)
	}

	var messages []Message
	needsRender := false
	if lastSession != nil {
		for _, sMsg := range lastSession.Messages {
			messages = append(messages, Message{
				Role:      sMsg.Role,
				Content:   sMsg.Content,
				Rendered:  sMsg.Rendered,
				Timestamp: sMsg.Timestamp,
			})
		}
		needsRender = len(messages) > 0
	}

	return &Model{
		Config:             cfg,
		Provider:           active,
		Providers:          providers,
		SessionStorage:     sessionStorage,
		SearchIndex:        searchIndex,
		Memory:             memory,
		ToolLog:            toolLog,
		Registry:           registry,
		ToolEvents:         make(chan ToolEvent, 16),
		Messages:           messages,
		CurrentSession:     lastSession,
		ModelCache:         make(map[string][]ollama.ModelInfo),
		CacheExpiry:        make(map[string]time.Time),
		NeedsInitialRender: needsRender,
		Version:            version,
		License:            license,
	}
}
