package schema

import (
	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Assistant describes a remote assistant configuration
type Assistant struct {
	ID           string          `json:"id"`
	Name         string          `json:"name,omitempty"`
	Description  string          `json:"description,omitempty"`
	Model        string          `json:"model"`
	Instructions string          `json:"instructions,omitempty"`
	Tools        []AssistantTool `json:"tools,omitempty"`
}

// AssistantTool is a capability enabled on an assistant
type AssistantTool struct {
	Type string `json:"type"`
}

////////////////////////////////////////////////////////////////////////////////
// CONSTANTS

// Assistant tool types
const (
	ToolFileSearch      = "file_search"
	ToolCodeInterpreter = "code_interpreter"
)

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (a Assistant) String() string {
	return types.Stringify(a)
}
