package ui

import (
	"context"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"quark/config"
	"quark/provider"
	"quark/storage"
)

// waitingPlaceholder is the transient system message shown while the agent
// works on a query.
const waitingPlaceholder = "Waiting for response..."

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

		headerHeight := 2
		footerHeight := a.textarea.Height() + 2
		a.viewport.Width = msg.Width
		a.viewport.Height = msg.Height - headerHeight - footerHeight
		a.textarea.SetWidth(msg.Width)

		if !a.ready {
			a.ready = true
			a.updateViewportContent(true)
			// Session messages loaded from disk still need markdown rendering
			if a.dataModel.NeedsInitialRender {
				a.dataModel.NeedsInitialRender = false
				for i, m := range a.dataModel.Messages {
					if m.Role == "assistant" && m.Rendered == "" {
						cmds = append(cmds, a.renderMarkdownAsync(i, m.Content))
					}
				}
			}
		} else {
			a.updateViewportContent(false)
		}
		return a, tea.Batch(cmds...)

	case spinner.TickMsg:
		// Stop ticking once nothing is animating
		if !a.waiting && a.executingTool == "" {
			return a, nil
		}
		var cmd tea.Cmd
		a.loadingSpinner, cmd = a.loadingSpinner.Update(msg)
		if a.waiting {
			a.updateViewportContent(false)
		}
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)

	case agentDoneMsg:
		return a.handleAgentDone(msg)

	case toolEventMsg:
		switch msg.Event.Phase {
		case "status":
			a.executingTool = msg.Event.Tool
		case "end":
			a.executingTool = ""
		}
		// Keep listening for the next event
		return a, a.dataModel.WaitForToolEvent()

	case markdownRenderedMsg:
		if msg.MessageIndex >= 0 && msg.MessageIndex < len(a.dataModel.Messages) {
			a.dataModel.Messages[msg.MessageIndex].Rendered = msg.Rendered
			a.updateViewportContent(true)
		}
		return a, nil

	case modelsListMsg:
		if msg.Err != nil {
			if msg.ShowSelector {
				a.showError("Model List Failed", msg.Err.Error())
			}
			return a, nil
		}
		a.modelList = msg.Models
		if msg.ShowSelector {
			a.showModelSelector = true
			a.selectedModelIdx = 0
		}
		return a, nil

	case sessionsListMsg:
		if msg.Err != nil {
			a.showError("Session List Failed", msg.Err.Error())
			return a, nil
		}
		a.sessionList = msg.Sessions
		if a.selectedSessionIdx >= len(a.sessionList) {
			a.selectedSessionIdx = 0
		}
		return a, nil

	case sessionLoadedMsg:
		if msg.Err != nil {
			if msg.Err.Error() == "session_locked" {
				a.showError("Session Locked", "That session is open in another running instance.")
			} else {
				a.showError("Load Failed", msg.Err.Error())
			}
			return a, nil
		}
		if msg.Session != nil {
			// Release the previous session's lock
			if a.dataModel.CurrentSession != nil && a.dataModel.CurrentSession.ID != msg.Session.ID {
				_ = a.dataModel.SessionStorage.UnlockSession(a.dataModel.CurrentSession.ID)
			}
			a.setCurrentSession(msg.Session)
			a.showSessionManager = false
			a.updateViewportContent(true)
			_ = a.dataModel.SessionStorage.SaveCurrentSessionID(msg.Session.ID)
			for i, m := range a.dataModel.Messages {
				if m.Role == "assistant" && m.Rendered == "" {
					cmds = append(cmds, a.renderMarkdownAsync(i, m.Content))
				}
			}
		}
		return a, tea.Batch(cmds...)

	case sessionSavedMsg:
		if msg.Err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[UI] Session save failed: %v", msg.Err)
		}
		return a, nil

	case sessionRenamedMsg:
		if msg.Err != nil {
			a.showError("Rename Failed", msg.Err.Error())
		}
		return a, nil

	case sessionExportedMsg:
		if msg.Cancelled {
			return a, nil
		}
		if msg.Err != nil {
			a.showError("Export Failed", msg.Err.Error())
			return a, nil
		}
		a.showInfo("Session Exported", "Saved to:\n"+msg.Path)
		return a, nil

	case sessionImportedMsg:
		if msg.Cancelled {
			return a, nil
		}
		if msg.Err != nil {
			a.showError("Import Failed", msg.Err.Error())
			return a, nil
		}
		return a, a.dataModel.FetchSessionList()

	case provider.PingProviderMsg:
		if msg.Valid {
			a.showInfo("Provider OK", "Provider "+msg.ProviderID+" is reachable.")
		} else {
			a.showError("Provider Unreachable", msg.Err.Error())
		}
		return a, nil
	}

	// Forward remaining messages to the focused component
	var cmd tea.Cmd
	if a.anyModalOpen() {
		return a, nil
	}
	a.textarea, cmd = a.textarea.Update(msg)
	cmds = append(cmds, cmd)
	a.viewport, cmd = a.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

func (a AppView) anyModalOpen() bool {
	return a.showHelp || a.showInfoModal || a.showModelSelector ||
		a.showSessionManager || a.showGlobalSearch
}

func (a AppView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Modal keys take priority over the chat surface
	if a.showInfoModal {
		if msg.String() == "esc" || msg.String() == "enter" {
			a.showInfoModal = false
		}
		return a, nil
	}
	if a.showHelp {
		if msg.String() == "esc" || msg.String() == "alt+h" {
			a.showHelp = false
		}
		return a, nil
	}
	if a.showModelSelector {
		return a.handleModelSelectorKey(msg)
	}
	if a.showSessionManager {
		return a.handleSessionManagerKey(msg)
	}
	if a.showGlobalSearch {
		return a.handleGlobalSearchKey(msg)
	}

	switch msg.String() {
	case "alt+q", "ctrl+c":
		return a.quit()

	case "esc":
		// Esc cancels an in-flight query
		if a.waiting && a.runCancel != nil {
			a.runCancel()
		}
		return a, nil

	case "alt+h":
		a.showHelp = true
		return a, nil

	case "alt+m":
		if len(a.modelList) > 0 {
			a.showModelSelector = true
			a.selectedModelIdx = 0
			return a, nil
		}
		return a, a.dataModel.FetchAllModels(true)

	case "alt+s":
		a.showSessionManager = true
		a.selectedSessionIdx = 0
		return a, a.dataModel.FetchSessionList()

	case "alt+f":
		a.showGlobalSearch = true
		a.globalSearchInput.SetValue("")
		a.globalSearchInput.Focus()
		a.globalSearchResults = nil
		a.selectedGlobalIdx = 0
		return a, nil

	case "alt+y":
		a.yankLastResponse()
		return a, nil

	case "enter":
		return a.sendMessage()

	case "pgup":
		a.viewport.HalfViewUp()
		return a, nil
	case "pgdown":
		a.viewport.HalfViewDown()
		return a, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	cmds = append(cmds, cmd)
	a.viewport, cmd = a.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

func (a AppView) quit() (tea.Model, tea.Cmd) {
	if a.runCancel != nil {
		a.runCancel()
	}
	if a.dataModel.CurrentSession != nil {
		_ = a.dataModel.SessionStorage.UnlockSession(a.dataModel.CurrentSession.ID)
	}
	a.dataModel.Quitting = true
	return a, tea.Quit
}

func (a AppView) sendMessage() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(a.textarea.Value())
	if input == "" {
		return a, nil
	}
	if a.waiting {
		return a, nil
	}

	// Slash commands are handled locally, never sent to the model
	if strings.HasPrefix(input, "/") {
		return a.handleSlashCommand(input)
	}

	if ok, reason := a.dataModel.CanSendMessage(); !ok {
		a.showError("Cannot Send", reason)
		return a, nil
	}

	a.textarea.Reset()

	a.dataModel.Messages = append(a.dataModel.Messages,
		Message{Role: "user", Content: input, Rendered: input, Timestamp: time.Now()},
		Message{Role: "system", Content: waitingPlaceholder, Rendered: waitingPlaceholder, Timestamp: time.Now()},
	)
	a.waiting = true
	a.dataModel.Busy = true
	a.updateViewportContent(true)

	ctx, cancel := context.WithCancel(context.Background())
	a.runCancel = cancel

	return a, tea.Batch(
		a.loadingSpinner.Tick,
		a.dataModel.RunQuery(ctx, input),
	)
}

func (a AppView) handleAgentDone(msg agentDoneMsg) (tea.Model, tea.Cmd) {
	a.waiting = false
	a.dataModel.Busy = false
	a.executingTool = ""
	if a.runCancel != nil {
		a.runCancel()
		a.runCancel = nil
	}

	// Drop the waiting placeholder
	if n := len(a.dataModel.Messages); n > 0 && a.dataModel.Messages[n-1].Content == waitingPlaceholder {
		a.dataModel.Messages = a.dataModel.Messages[:n-1]
	}

	a.dataModel.Messages = append(a.dataModel.Messages, Message{
		Role:      "assistant",
		Content:   msg.Response,
		Rendered:  msg.Response,
		Timestamp: time.Now(),
	})
	a.updateViewportContent(true)

	idx := len(a.dataModel.Messages) - 1
	return a, tea.Batch(
		a.renderMarkdownAsync(idx, msg.Response),
		a.dataModel.AutoSaveSession(),
	)
}

func (a *AppView) handleSlashCommand(input string) (tea.Model, tea.Cmd) {
	a.textarea.Reset()

	cmd := strings.Fields(input)[0]
	switch cmd {
	case "/help":
		a.showHelp = true
		return *a, nil

	case "/tools":
		names := a.dataModel.Registry.Names()
		a.showInfo("Available Tools", strings.Join(names, "\n"))
		return *a, nil

	case "/clear":
		a.dataModel.Messages = nil
		a.updateViewportContent(true)
		return *a, a.dataModel.SaveCurrentSession()

	case "/sessions":
		a.showSessionManager = true
		a.selectedSessionIdx = 0
		return *a, a.dataModel.FetchSessionList()

	case "/new":
		session, err := a.dataModel.CreateAndSaveNewSession("New Session", a.dataModel.Config.DefaultSystemPrompt)
		if err != nil {
			a.showError("New Session Failed", err.Error())
			return *a, nil
		}
		a.setCurrentSession(session)
		a.dataModel.Messages = nil
		a.updateViewportContent(true)
		return *a, nil

	case "/ping":
		return *a, a.pingActiveProvider()

	case "/quit":
		return a.quit()

	default:
		a.showError("Unknown Command", "Commands: /help /tools /clear /sessions /new /ping /quit")
		return *a, nil
	}
}

// pingActiveProvider validates connectivity for the session's provider using
// the same credential resolution as startup.
func (a *AppView) pingActiveProvider() tea.Cmd {
	cfg := a.dataModel.Config

	id := "ollama"
	if a.dataModel.CurrentSession != nil && a.dataModel.CurrentSession.Provider != "" {
		id = a.dataModel.CurrentSession.Provider
	}

	baseURL := cfg.OllamaURL()
	apiKey := ""
	for _, pc := range cfg.Providers {
		if pc.ID == id {
			baseURL = pc.BaseURL
			apiKey = pc.APIKey
			break
		}
	}
	if apiKey == "" && cfg.CredentialStore != nil {
		apiKey = cfg.CredentialStore.Get(id)
	}
	if apiKey == "" {
		apiKey = cfg.APIKey()
	}

	return provider.PingProvider(id, baseURL, apiKey)
}

func (a *AppView) yankLastResponse() {
	for i := len(a.dataModel.Messages) - 1; i >= 0; i-- {
		if a.dataModel.Messages[i].Role == "assistant" {
			if err := clipboard.WriteAll(a.dataModel.Messages[i].Content); err != nil && config.DebugLog != nil {
				config.DebugLog.Printf("[UI] Clipboard write failed: %v", err)
			}
			return
		}
	}
}

func (a AppView) handleModelSelectorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.modelFilterMode {
		switch msg.String() {
		case "esc":
			a.modelFilterMode = false
			a.modelFilterInput.Blur()
			a.filteredModelList = nil
			return a, nil
		case "enter":
			a.modelFilterMode = false
			a.modelFilterInput.Blur()
			return a, nil
		default:
			var cmd tea.Cmd
			a.modelFilterInput, cmd = a.modelFilterInput.Update(msg)
			a.filteredModelList = filterModels(a.modelList, a.modelFilterInput.Value())
			a.selectedModelIdx = 0
			return a, cmd
		}
	}

	list := a.getModelList()
	switch msg.String() {
	case "esc":
		a.closeAllModals()
		return a, nil
	case "j", "down":
		if a.selectedModelIdx < len(list)-1 {
			a.selectedModelIdx++
		}
		return a, nil
	case "k", "up":
		if a.selectedModelIdx > 0 {
			a.selectedModelIdx--
		}
		return a, nil
	case "/":
		a.modelFilterMode = true
		a.modelFilterInput.SetValue("")
		a.modelFilterInput.Focus()
		return a, nil
	case "enter":
		if a.selectedModelIdx < len(list) {
			selected := list[a.selectedModelIdx]
			a.closeAllModals()
			return a, a.dataModel.SwitchModel(selected)
		}
		return a, nil
	}
	return a, nil
}

func (a AppView) handleSessionManagerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Delete confirmation has its own keys
	if a.confirmDeleteSession != nil {
		switch msg.String() {
		case "y", "enter":
			id := a.confirmDeleteSession.ID
			a.confirmDeleteSession = nil
			if err := a.dataModel.SessionStorage.Delete(id); err != nil {
				a.showError("Delete Failed", err.Error())
				return a, nil
			}
			return a, a.dataModel.FetchSessionList()
		default:
			a.confirmDeleteSession = nil
			return a, nil
		}
	}

	if a.sessionRenameMode {
		switch msg.String() {
		case "esc":
			a.sessionRenameMode = false
			a.sessionRenameInput.Blur()
			return a, nil
		case "enter":
			list := a.getSessionList()
			newName := strings.TrimSpace(a.sessionRenameInput.Value())
			a.sessionRenameMode = false
			a.sessionRenameInput.Blur()
			if newName != "" && a.selectedSessionIdx < len(list) {
				return a, a.dataModel.RenameSessionCmd(list[a.selectedSessionIdx].ID, newName)
			}
			return a, nil
		default:
			var cmd tea.Cmd
			a.sessionRenameInput, cmd = a.sessionRenameInput.Update(msg)
			return a, cmd
		}
	}

	if a.sessionImportMode {
		switch msg.String() {
		case "esc":
			a.sessionImportMode = false
			a.sessionImportInput.Blur()
			return a, nil
		case "enter":
			path := strings.TrimSpace(a.sessionImportInput.Value())
			a.sessionImportMode = false
			a.sessionImportInput.Blur()
			if path == "" {
				return a, nil
			}
			return a, a.dataModel.ImportSessionCmd(context.Background(), path)
		default:
			var cmd tea.Cmd
			a.sessionImportInput, cmd = a.sessionImportInput.Update(msg)
			return a, cmd
		}
	}

	if a.sessionFilterMode {
		switch msg.String() {
		case "esc":
			a.sessionFilterMode = false
			a.sessionFilterInput.Blur()
			a.filteredSessionList = nil
			return a, nil
		case "enter":
			a.sessionFilterMode = false
			a.sessionFilterInput.Blur()
			return a, nil
		default:
			var cmd tea.Cmd
			a.sessionFilterInput, cmd = a.sessionFilterInput.Update(msg)
			a.filteredSessionList = storage.FilterSessionNames(a.sessionList, a.sessionFilterInput.Value())
			a.selectedSessionIdx = 0
			return a, cmd
		}
	}

	list := a.getSessionList()
	switch msg.String() {
	case "esc":
		a.closeAllModals()
		return a, nil
	case "j", "down":
		if a.selectedSessionIdx < len(list)-1 {
			a.selectedSessionIdx++
		}
		return a, nil
	case "k", "up":
		if a.selectedSessionIdx > 0 {
			a.selectedSessionIdx--
		}
		return a, nil
	case "/":
		a.sessionFilterMode = true
		a.sessionFilterInput.SetValue("")
		a.sessionFilterInput.Focus()
		return a, nil
	case "r":
		if a.selectedSessionIdx < len(list) {
			a.sessionRenameMode = true
			a.sessionRenameInput.SetValue(list[a.selectedSessionIdx].Name)
			a.sessionRenameInput.Focus()
		}
		return a, nil
	case "d":
		if a.selectedSessionIdx < len(list) {
			selected := list[a.selectedSessionIdx]
			a.confirmDeleteSession = &selected
		}
		return a, nil
	case "e":
		if a.selectedSessionIdx < len(list) {
			selected := list[a.selectedSessionIdx]
			path := storage.GenerateExportPath(selected.Name)
			return a, a.dataModel.ExportSessionCmd(context.Background(), selected.ID, path)
		}
		return a, nil
	case "i":
		a.sessionImportMode = true
		a.sessionImportInput.SetValue("")
		a.sessionImportInput.Focus()
		return a, nil
	case "n":
		session, err := a.dataModel.CreateAndSaveNewSession("New Session", a.dataModel.Config.DefaultSystemPrompt)
		if err != nil {
			a.showError("New Session Failed", err.Error())
			return a, nil
		}
		a.setCurrentSession(session)
		a.closeAllModals()
		a.updateViewportContent(true)
		return a, nil
	case "enter":
		if a.selectedSessionIdx < len(list) {
			return a, a.dataModel.LoadSession(list[a.selectedSessionIdx].ID)
		}
		return a, nil
	}
	return a, nil
}

func (a AppView) handleGlobalSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.closeAllModals()
		return a, nil
	case "down":
		if a.selectedGlobalIdx < len(a.globalSearchResults)-1 {
			a.selectedGlobalIdx++
		}
		return a, nil
	case "up":
		if a.selectedGlobalIdx > 0 {
			a.selectedGlobalIdx--
		}
		return a, nil
	case "enter":
		if a.selectedGlobalIdx < len(a.globalSearchResults) {
			match := a.globalSearchResults[a.selectedGlobalIdx]
			a.closeAllModals()
			return a, a.dataModel.LoadSession(match.SessionID)
		}
		return a, nil
	default:
		var cmd tea.Cmd
		a.globalSearchInput, cmd = a.globalSearchInput.Update(msg)
		query := a.globalSearchInput.Value()
		if query != "" && a.dataModel.SearchIndex != nil {
			results, err := a.dataModel.SearchIndex.SearchAllSessions(query)
			if err == nil {
				a.globalSearchResults = results
				a.selectedGlobalIdx = 0
			}
		} else {
			a.globalSearchResults = nil
		}
		return a, cmd
	}
}
