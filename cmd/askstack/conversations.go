package main

import (
	"fmt"

	// Packages
	schema "github.com/thesubgraph/go-askstack/pkg/schema"
	table "github.com/thesubgraph/go-askstack/pkg/ui/table"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type ConversationCommands struct {
	List    ListConversationsCmd  `cmd:"" help:"List conversations"`
	History HistoryCmd            `cmd:"" help:"Show the messages of a conversation"`
	Rename  RenameConversationCmd `cmd:"" help:"Rename a conversation"`
	Delete  DeleteConversationCmd `cmd:"" help:"Delete a conversation and its messages"`
}

type ListConversationsCmd struct{}

type HistoryCmd struct {
	Conversation string `arg:"" help:"Conversation id"`
}

type RenameConversationCmd struct {
	Conversation string `arg:"" help:"Conversation id"`
	Title        string `arg:"" help:"New title"`
}

type DeleteConversationCmd struct {
	Conversation string `arg:"" help:"Conversation id"`
}

// conversationTable renders conversations as a terminal table
type conversationTable []*schema.Conversation

// messageTable renders messages as a terminal table
type messageTable []*schema.ChatMessage

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *ListConversationsCmd) Run(globals *Globals) error {
	service, err := globals.service()
	if err != nil {
		return err
	}
	conversations, err := service.Conversations(globals.ctx)
	if err != nil {
		return err
	}
	fmt.Println(table.Render(conversationTable(conversations)))
	return nil
}

func (cmd *HistoryCmd) Run(globals *Globals) error {
	service, err := globals.service()
	if err != nil {
		return err
	}
	messages, err := service.Messages(globals.ctx, cmd.Conversation)
	if err != nil {
		return err
	}
	fmt.Println(table.Render(messageTable(messages)))
	return nil
}

func (cmd *RenameConversationCmd) Run(globals *Globals) error {
	service, err := globals.service()
	if err != nil {
		return err
	}
	return service.RenameConversation(globals.ctx, cmd.Conversation, cmd.Title)
}

func (cmd *DeleteConversationCmd) Run(globals *Globals) error {
	service, err := globals.service()
	if err != nil {
		return err
	}
	return service.DeleteConversation(globals.ctx, cmd.Conversation)
}

///////////////////////////////////////////////////////////////////////////////
// TABLE DATA

func (c conversationTable) Header() []string {
	return []string{"ID", "Title", "Updated", "Last Message"}
}

func (c conversationTable) Len() int {
	return len(c)
}

func (c conversationTable) Row(i int) []any {
	conversation := c[i]
	return []any{
		conversation.ID,
		table.Bold{Value: conversation.Title},
		conversation.Updated,
		table.Truncate(conversation.LastMessage, 48),
	}
}

func (m messageTable) Header() []string {
	return []string{"Role", "Time", "Status", "Content"}
}

func (m messageTable) Len() int {
	return len(m)
}

func (m messageTable) Row(i int) []any {
	message := m[i]
	return []any{
		table.Bold{Value: message.Role},
		message.Timestamp,
		string(message.Status),
		table.Truncate(message.Content, 72),
	}
}
