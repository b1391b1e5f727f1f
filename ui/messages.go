package ui

import (
	"quark/model"
)

// Message type alias so rendering code can work with the model's type directly
type Message = model.Message

// Message aliases for types defined in the model package
type agentDoneMsg = model.AgentDoneMsg
type toolEventMsg = model.ToolEventMsg
type markdownRenderedMsg = model.MarkdownRenderedMsg
type modelsListMsg = model.ModelsListMsg
type sessionsListMsg = model.SessionsListMsg
type sessionLoadedMsg = model.SessionLoadedMsg
type sessionSavedMsg = model.SessionSavedMsg
type sessionRenamedMsg = model.SessionRenamedMsg
type sessionExportedMsg = model.SessionExportedMsg
type sessionImportedMsg = model.SessionImportedMsg
