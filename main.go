package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"quark/agent"
	"quark/config"
	appmodel "quark/model"
	"quark/provider"
	"quark/storage"
	"quark/tools"
	"quark/ui"
)

const (
	Version = "v0.1.0"
	License = "Apache-2.0"
)

func main() {
	// Validate environment variables first
	if config.HasAnyEnvVar() && !config.HasAllEnvVars() {
		missingVar := config.GetMissingEnvVar()
		errorMsg := fmt.Sprintf("Missing environment variable: %s\n\n"+
			"When using environment variables, all 3 must be set:\n"+
			"QUARK_PROVIDER, QUARK_MODEL, QUARK_DATA_DIR\n\n"+
			"Set the missing variable(s) before launching quark.",
			missingVar)

		runErrorModal("Configuration Error", errorMsg)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize debug logging after config is loaded
	config.InitDebugLog(cfg.DataDir())

	// Clean up old tmp dir in cache directory (crash recovery)
	if err := config.CleanupTempDir(); err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("Warning: failed to cleanup old temp directory: %v", err)
	}

	if err := config.CreateTempDir(); err != nil {
		fmt.Printf("Failed to create temp directory: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := config.CleanupTempDir(); err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("Warning: failed to cleanup temp directory on exit: %v", err)
		}
	}()

	sessionStorage, err := storage.NewSessionStorage(cfg.DataDir())
	if err != nil {
		fmt.Printf("Failed to initialize session storage: %v\n", err)
		os.Exit(1)
	}

	// Single-instance enforcement: two instances would fight over session
	// files and the tool-run database
	isLocked, runningPID, err := sessionStorage.CheckInstanceLock()
	if err != nil {
		fmt.Printf("Failed to check instance lock: %v\n", err)
		os.Exit(1)
	}
	if isLocked {
		errorMsg := fmt.Sprintf(
			"Another quark instance is already running (PID %d).\n\n"+
				"Only one instance can run per data directory.\n"+
				"Close the other instance first.",
			runningPID)

		runErrorModal("quark Already Running", errorMsg)
		os.Exit(0)
	}

	if err := sessionStorage.LockInstance(); err != nil {
		fmt.Printf("Failed to lock instance: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := sessionStorage.UnlockInstance(); err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("Warning: failed to unlock instance: %v", err)
		}
	}()

	// Load last session with lock check
	var lastSession *storage.Session
	if lastSessionID, err := sessionStorage.LoadCurrentSessionID(); err == nil {
		locked, lockErr := sessionStorage.CheckSessionLock(lastSessionID)
		if lockErr == nil && !locked {
			lastSession, _ = sessionStorage.Load(lastSessionID)
		}
	}

	// Built-in tool registry
	registry := tools.Default()
	if err := tools.RegisterBuiltins(registry, tools.BuiltinOptions{SearchAPIKey: cfg.Agent.SearchAPIKey}); err != nil {
		fmt.Printf("Failed to register tools: %v\n", err)
		os.Exit(1)
	}

	searchIndex := storage.NewSearchIndex(sessionStorage)

	memory, err := storage.NewMemory(cfg.DataDir())
	if err != nil {
		fmt.Printf("Failed to load memory: %v\n", err)
		os.Exit(1)
	}

	toolLog, err := storage.NewToolRunLog(cfg.DataDir())
	if err != nil {
		fmt.Printf("Failed to open tool run log: %v\n", err)
		os.Exit(1)
	}
	defer toolLog.Close()

	// Initialize ALL providers (Ollama + cloud) with retry wrapping
	allProviders := provider.InitializeProviders(cfg)

	// Priority: session's provider, configured default, ollama fallback
	sessionProvider := cfg.DefaultProvider
	if lastSession != nil && lastSession.Provider != "" {
		sessionProvider = lastSession.Provider
	}
	active := allProviders[sessionProvider]
	if active == nil {
		active = allProviders[cfg.DefaultProvider]
	}
	if active == nil {
		active = allProviders["ollama"]
	}
	if active == nil {
		fmt.Println("No providers available. Check your configuration.")
		os.Exit(1)
	}

	dataModel := appmodel.NewModel(cfg, allProviders, active, sessionStorage, lastSession, searchIndex, memory, toolLog, registry, Version, License)

	// The agent runner builds a fresh loop per query so provider and session
	// switches take effect immediately
	dataModel.Runner = &agentRunner{m: dataModel}

	if lastSession == nil {
		session, err := dataModel.CreateAndSaveNewSession("New Session", cfg.DefaultSystemPrompt)
		if err != nil {
			fmt.Printf("Failed to create session: %v\n", err)
			os.Exit(1)
		}
		dataModel.CurrentSession = session
	} else {
		_ = sessionStorage.LockSession(lastSession.ID)
	}

	app := ui.NewAppView(dataModel)
	defer func() {
		_ = app.UnlockCurrentDataDir()
	}()

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running quark: %v\n", err)
		os.Exit(1)
	}
}

func runErrorModal(title, message string) {
	p := tea.NewProgram(ui.NewErrorModal(title, message), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}

// agentRunner adapts the agent loop to the model's QueryRunner interface.
// Each Run builds a fresh agent from current state: active provider, session
// system prompt, remembered context and prior conversation.
type agentRunner struct {
	m *appmodel.Model
}

func (r *agentRunner) Run(ctx context.Context, query string) string {
	cfg := r.m.Config

	var reflector *agent.Reflector
	if cfg.Agent.ReflectionEnabled {
		reflector = agent.NewReflector(r.m.Provider)
		if cfg.Agent.ReflectionTemperature > 0 {
			reflector.Temperature = cfg.Agent.ReflectionTemperature
		}
		if cfg.Agent.ReflectionMaxTokens > 0 {
			reflector.MaxTokens = cfg.Agent.ReflectionMaxTokens
		}
	}

	sessionID := ""
	if r.m.CurrentSession != nil {
		sessionID = r.m.CurrentSession.ID
	}

	ag := agent.New(r.m.Provider, agent.Options{
		SystemPrompt:  r.buildSystemPrompt(),
		MaxIterations: cfg.MaxIterations(),
		Registry:      r.m.Registry,
		Reflector:     reflector,
		Observer:      r.observer(sessionID),
	})
	ag.SetHistory(r.history())

	return ag.Run(ctx, query)
}

// buildSystemPrompt layers tool instructions, the session prompt and
// remembered context.
func (r *agentRunner) buildSystemPrompt() string {
	parts := []string{tools.Instructions(r.m.Registry.Specs())}

	prompt := r.m.Config.DefaultSystemPrompt
	if r.m.CurrentSession != nil && r.m.CurrentSession.SystemPrompt != "" {
		prompt = r.m.CurrentSession.SystemPrompt
	}
	if prompt != "" {
		parts = append(parts, prompt)
	}

	if r.m.Memory != nil {
		if ctx := r.m.Memory.Context(); ctx != "" {
			parts = append(parts, ctx)
		}
	}

	return strings.Join(parts, "\n\n")
}

// history converts the conversation so far, excluding the user turn being
// answered and transient system messages.
func (r *agentRunner) history() []appmodel.Message {
	msgs := r.m.Messages
	// The query itself was just appended by the UI; drop it and the waiting
	// placeholder from the seeded history
	var out []appmodel.Message
	for _, m := range msgs {
		if m.Role == "user" || m.Role == "assistant" {
			out = append(out, m)
		}
	}
	if n := len(out); n > 0 && out[n-1].Role == "user" {
		out = out[:n-1]
	}
	return out
}

// observer forwards tool events into the UI channel and records them in the
// tool-run log.
func (r *agentRunner) observer(sessionID string) agent.Observer {
	return func(ev agent.Event) {
		// Non-blocking send: the UI may be busy, and a dropped status
		// update is harmless
		select {
		case r.m.ToolEvents <- appmodel.ToolEvent{Phase: ev.Kind, Tool: ev.Tool, Args: ev.Args, Result: ev.Result}:
		default:
		}

		if ev.Kind != "end" || r.m.ToolLog == nil {
			return
		}

		args, err := json.Marshal(ev.Args)
		if err != nil {
			args = []byte("{}")
		}
		status := storage.ToolRunStatusOK
		if strings.HasPrefix(ev.Result, `{"error"`) {
			status = storage.ToolRunStatusError
		}
		if err := r.m.ToolLog.Record(storage.ToolRun{
			SessionID: sessionID,
			Tool:      ev.Tool,
			Args:      string(args),
			Result:    ev.Result,
			Status:    status,
		}); err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[main] Tool run log write failed: %v", err)
		}
	}
}
