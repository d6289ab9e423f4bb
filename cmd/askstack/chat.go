package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	// Packages
	lipgloss "github.com/charmbracelet/lipgloss"
	chat "github.com/thesubgraph/go-askstack/pkg/chat"
	opt "github.com/thesubgraph/go-askstack/pkg/opt"
	stream "github.com/thesubgraph/go-askstack/pkg/stream"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type ChatCmd struct {
	Assistant    string `name:"assistant" help:"Assistant id (overrides the stored default)" optional:""`
	Conversation string `name:"conversation" help:"Resume an existing conversation" optional:""`
	Title        string `name:"title" help:"Title for a new conversation" default:"New Conversation"`
	NoSmooth     bool   `name:"nosmooth" help:"Disable word-by-word pacing"`
}

///////////////////////////////////////////////////////////////////////////////
// STYLES

var (
	promptStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	replyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	statusStyle   = lipgloss.NewStyle().Faint(true)
	problemStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	citationStyle = lipgloss.NewStyle().Faint(true).Italic(true)
)

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *ChatCmd) Run(globals *Globals) error {
	service, err := globals.service()
	if err != nil {
		return err
	}

	// Resolve or create the conversation
	conversationId := cmd.Conversation
	if conversationId == "" {
		assistantId, err := globals.assistantId(cmd.Assistant)
		if err != nil {
			return err
		}
		conversation, err := service.NewConversation(globals.ctx, assistantId, cmd.Title)
		if err != nil {
			return err
		}
		conversationId = conversation.ID
		fmt.Println(statusStyle.Render("conversation " + conversationId))
	}

	// Ctrl-C cancels the in-flight reply instead of the program; quit with
	// /quit or end-of-input
	signal.Reset(syscall.SIGINT)
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print(promptStyle.Render("you> "))
		line, err := reader.ReadString('\n')
		if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return err
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if input == "/quit" || input == "/exit" {
			return nil
		}

		// Discard any interrupt raised while idle
		select {
		case <-interrupt:
		default:
		}

		var options []opt.Opt
		if cmd.NoSmooth {
			options = append(options, chat.WithSmoothTyping(false))
		}
		messageId, events, err := service.SendMessage(globals.ctx, conversationId, input, options...)
		if err != nil {
			fmt.Println(problemStyle.Render(err.Error()))
			continue
		}

		finished := make(chan struct{})
		go func() {
			select {
			case <-interrupt:
				service.Cancel(messageId)
			case <-finished:
			}
		}()
		cmd.render(events)
		close(finished)
	}
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// render prints the event stream for one reply
func (cmd *ChatCmd) render(events <-chan stream.Event) {
	replying := false
	for evt := range events {
		switch evt := evt.(type) {
		case stream.RunQueued:
			fmt.Println(statusStyle.Render("queued"))
		case stream.RunInProgress:
			fmt.Println(statusStyle.Render("searching documents..."))
		case stream.MessageDelta:
			replying = true
			fmt.Print(replyStyle.Render(evt.Text))
		case stream.MessageCompleted:
			if len(evt.Citations) > 0 {
				fmt.Println()
				for _, citation := range evt.Citations {
					fmt.Println(citationStyle.Render("  [" + citation.SourceID + "] " + citation.Quote))
				}
				replying = false
			}
		case stream.RunRequiresAction:
			fmt.Println(problemStyle.Render("this assistant requested a tool interaction, which is not supported"))
		case stream.RunFailed:
			fmt.Println(problemStyle.Render("run failed: " + evt.Reason))
		case stream.Error:
			fmt.Println(problemStyle.Render("error: " + evt.Description))
		}
	}
	if replying {
		fmt.Println()
	}
}
