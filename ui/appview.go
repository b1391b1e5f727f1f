package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	appmodel "quark/model"
	"quark/ollama"
	"quark/storage"
)

type AppView struct {
	// Reference to core data model
	dataModel *appmodel.Model

	// UI Components
	viewport viewport.Model
	textarea textarea.Model

	// Window state
	width  int
	height int
	ready  bool

	// Agent activity state
	waiting       bool
	runCancel     context.CancelFunc
	executingTool string
	loadingSpinner spinner.Model

	showHelp bool

	// Model selector
	showModelSelector bool
	modelList         []ollama.ModelInfo
	selectedModelIdx  int
	modelFilterMode   bool
	modelFilterInput  textinput.Model
	filteredModelList []ollama.ModelInfo

	// Session manager
	showSessionManager   bool
	sessionList          []storage.SessionMetadata
	selectedSessionIdx   int
	sessionRenameMode    bool
	sessionRenameInput   textinput.Model
	sessionFilterMode    bool
	sessionFilterInput   textinput.Model
	sessionImportMode    bool
	sessionImportInput   textinput.Model
	filteredSessionList  []storage.SessionMetadata
	confirmDeleteSession *storage.SessionMetadata

	// Cross-session search
	showGlobalSearch    bool
	globalSearchInput   textinput.Model
	globalSearchResults []storage.SessionMessageMatch
	selectedGlobalIdx   int

	// Error/info modal
	showInfoModal  bool
	infoModalTitle string
	infoModalMsg   string
	infoModalType  ModalType
}

func NewAppView(dataModel *appmodel.Model) AppView {
	ta := textarea.New()
	ta.Placeholder = "Type your message, or /help for commands..."
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(80)

	// Alt+Enter for newline; plain Enter sends (handled in Update)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))

	// Dynamic prompt: "> " for first line, "| " for continuation lines
	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	vp := viewport.New(0, 0)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(accentColor)

	sessionFilterInput := textinput.New()
	sessionFilterInput.Prompt = "Filter: "
	sessionFilterInput.CharLimit = 64

	sessionRenameInput := textinput.New()
	sessionRenameInput.Prompt = ""
	sessionRenameInput.CharLimit = 64

	modelFilterInput := textinput.New()
	modelFilterInput.Prompt = "Filter: "
	modelFilterInput.CharLimit = 64

	sessionImportInput := textinput.New()
	sessionImportInput.Prompt = "Import path: "
	sessionImportInput.CharLimit = 256

	globalSearchInput := textinput.New()
	globalSearchInput.Prompt = "Search all: "
	globalSearchInput.CharLimit = 100

	return AppView{
		dataModel:          dataModel,
		textarea:           ta,
		viewport:           vp,
		loadingSpinner:     sp,
		sessionFilterInput: sessionFilterInput,
		sessionRenameInput: sessionRenameInput,
		sessionImportInput: sessionImportInput,
		modelFilterInput:   modelFilterInput,
		globalSearchInput:  globalSearchInput,
	}
}

func (a AppView) Init() tea.Cmd {
	// Markdown rendering waits for the first WindowSizeMsg so the width is known
	return tea.Batch(
		textarea.Blink,
		a.dataModel.FetchAllModels(false),
		a.dataModel.WaitForToolEvent(),
	)
}

func (a AppView) View() string {
	if !a.ready {
		return "Loading quark..."
	}

	// Modal rendering order, top layer first
	if a.showInfoModal {
		lines := wrapModalLines(a.infoModalMsg, 56)
		return RenderThreeSectionModal(a.infoModalTitle, lines, FormatFooter("Esc", "Close"), a.infoModalType, 64, a.width, a.height)
	}
	if a.showHelp {
		return renderHelpModal(a.width, a.height)
	}
	if a.showModelSelector {
		return renderModelSelector(a.getModelList(), a.selectedModelIdx, a.dataModel.Provider.GetModel(), a.modelFilterMode, a.modelFilterInput, a.width, a.height)
	}
	if a.showSessionManager {
		currentSessionID := ""
		if a.dataModel.CurrentSession != nil {
			currentSessionID = a.dataModel.CurrentSession.ID
		}
		return renderSessionManager(a.getSessionList(), a.selectedSessionIdx, currentSessionID, a.sessionRenameMode, a.sessionRenameInput, a.sessionFilterMode, a.sessionFilterInput, a.sessionImportMode, a.sessionImportInput, a.confirmDeleteSession, a.width, a.height)
	}
	if a.showGlobalSearch {
		return renderGlobalSearch(a.globalSearchInput, a.globalSearchResults, a.selectedGlobalIdx, a.width, a.height)
	}

	// Title bar - "quark - Model - Session Name"
	appText := AssistantStyle.Render("quark")
	modelText := TitleStyle.Render(fmt.Sprintf(" - %s", a.dataModel.Provider.GetDisplayName()))
	sessionName := "New Session"
	if a.dataModel.CurrentSession != nil && a.dataModel.CurrentSession.Name != "" {
		sessionName = a.dataModel.CurrentSession.Name
	}
	sessionText := UserStyle.Render(fmt.Sprintf(" - %s", sessionName))

	title := appText + modelText + sessionText

	// Tool activity indicator while the agent runs a tool
	if a.executingTool != "" {
		title += ToolStyle.Render(fmt.Sprintf(" | tool: %s %s", a.executingTool, a.loadingSpinner.View()))
	}

	statusBar := StatusStyle.Render(fmt.Sprintf(
		"Alt+Q %s  Alt+S %s  Alt+M %s  Alt+F %s  Alt+Y %s  Alt+H %s  Alt+Enter %s  Enter %s",
		statusKey("Quit"),
		statusKey("Sessions"),
		statusKey("Models"),
		statusKey("Search"),
		statusKey("Copy"),
		statusKey("Help"),
		statusKey("New Line"),
		statusKey("Send"),
	))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		a.viewport.View(),
		a.textarea.View(),
		statusBar,
	)
}

func statusKey(desc string) string {
	return lipgloss.NewStyle().Foreground(successColor).Bold(true).Render(desc)
}

func (a AppView) getSessionList() []storage.SessionMetadata {
	if a.sessionFilterMode && a.sessionFilterInput.Value() != "" {
		return a.filteredSessionList
	}
	return a.sessionList
}

func (a AppView) getModelList() []ollama.ModelInfo {
	if a.modelFilterMode && len(a.filteredModelList) > 0 {
		return a.filteredModelList
	}
	return a.modelList
}

// setCurrentSession switches the active session and rebuilds the message list.
func (a *AppView) setCurrentSession(session *storage.Session) {
	a.dataModel.CurrentSession = session

	a.dataModel.Messages = nil
	for _, sMsg := range session.Messages {
		a.dataModel.Messages = append(a.dataModel.Messages, Message{
			Role:      sMsg.Role,
			Content:   sMsg.Content,
			Rendered:  sMsg.Rendered,
			Timestamp: sMsg.Timestamp,
		})
	}

	if session.Model != "" && a.dataModel.Provider != nil {
		a.dataModel.Provider.SetModel(session.Model)
	}
}

func (a *AppView) closeAllModals() {
	a.showInfoModal = false
	a.showHelp = false
	a.showSessionManager = false
	a.showModelSelector = false
	a.showGlobalSearch = false

	a.sessionRenameMode = false
	a.sessionFilterMode = false
	a.sessionImportMode = false
	a.confirmDeleteSession = nil
	a.modelFilterMode = false

	for _, input := range []*textinput.Model{
		&a.sessionRenameInput,
		&a.sessionFilterInput,
		&a.sessionImportInput,
		&a.modelFilterInput,
		&a.globalSearchInput,
	} {
		if input.Focused() {
			input.Blur()
		}
	}
}

func (a *AppView) showError(title, msg string) {
	a.showInfoModal = true
	a.infoModalTitle = title
	a.infoModalMsg = msg
	a.infoModalType = ModalTypeError
}

func (a *AppView) showInfo(title, msg string) {
	a.showInfoModal = true
	a.infoModalTitle = title
	a.infoModalMsg = msg
	a.infoModalType = ModalTypeInfo
}

// UnlockCurrentDataDir releases the instance lock on exit. Safe to call with
// nil storage.
func (a *AppView) UnlockCurrentDataDir() error {
	if a.dataModel == nil || a.dataModel.SessionStorage == nil {
		return nil
	}
	return a.dataModel.SessionStorage.UnlockInstance()
}
