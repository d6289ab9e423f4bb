package main

import (
	"fmt"

	// Packages
	schema "github.com/thesubgraph/go-askstack/pkg/schema"
	table "github.com/thesubgraph/go-askstack/pkg/ui/table"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type AssistantCommands struct {
	List   ListAssistantsCmd  `cmd:"" help:"List remote assistants"`
	Create CreateAssistantCmd `cmd:"" help:"Create a remote assistant"`
}

type ListAssistantsCmd struct{}

type CreateAssistantCmd struct {
	Name         string `arg:"" help:"Assistant name"`
	Model        string `name:"model" help:"Model name" default:"gpt-4o"`
	Description  string `name:"description" help:"Assistant description" optional:""`
	Instructions string `name:"instructions" help:"System instructions" optional:""`
	FileSearch   bool   `name:"file-search" help:"Enable document search" default:"true"`
}

// assistantTable renders assistants as a terminal table
type assistantTable []*schema.Assistant

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *ListAssistantsCmd) Run(globals *Globals) error {
	client, err := globals.client()
	if err != nil {
		return err
	}
	assistants, err := client.ListAssistants(globals.ctx)
	if err != nil {
		return err
	}
	fmt.Println(table.Render(assistantTable(assistants)))
	return nil
}

func (cmd *CreateAssistantCmd) Run(globals *Globals) error {
	client, err := globals.client()
	if err != nil {
		return err
	}

	var tools []schema.AssistantTool
	if cmd.FileSearch {
		tools = append(tools, schema.AssistantTool{Type: schema.ToolFileSearch})
	}
	assistant, err := client.CreateAssistant(globals.ctx, schema.Assistant{
		Name:         cmd.Name,
		Model:        cmd.Model,
		Description:  cmd.Description,
		Instructions: cmd.Instructions,
		Tools:        tools,
	})
	if err != nil {
		return err
	}
	fmt.Println("Created", assistant.ID)
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// TABLE DATA

func (a assistantTable) Header() []string {
	return []string{"ID", "Name", "Model", "Description"}
}

func (a assistantTable) Len() int {
	return len(a)
}

func (a assistantTable) Row(i int) []any {
	assistant := a[i]
	return []any{
		assistant.ID,
		table.Bold{Value: assistant.Name},
		assistant.Model,
		table.Truncate(assistant.Description, 48),
	}
}
