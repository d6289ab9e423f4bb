package main

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	// Packages
	schema "github.com/thesubgraph/go-askstack/pkg/schema"
	term "golang.org/x/term"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type KeyCommands struct {
	Set    KeySetCmd    `cmd:"" help:"Store the API key, sealed with the passphrase"`
	Show   KeyShowCmd   `cmd:"" help:"Show the stored API key, partially masked"`
	Delete KeyDeleteCmd `cmd:"" help:"Remove the stored API key"`
}

type KeySetCmd struct {
	Assistant string `name:"assistant" help:"Default assistant id to use with this key" optional:""`
}

type KeyShowCmd struct{}

type KeyDeleteCmd struct{}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *KeySetCmd) Run(globals *Globals) error {
	credentials, err := globals.credentialStore()
	if err != nil {
		return err
	}

	// The key is read from the terminal without echo
	fmt.Fprint(os.Stderr, "API key: ")
	secret, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}

	if err := credentials.SetCredential(globals.ctx, schema.Credential{
		APIKey:             strings.TrimSpace(string(secret)),
		DefaultAssistantID: cmd.Assistant,
	}); err != nil {
		return err
	}
	fmt.Println("Key stored")
	return nil
}

func (cmd *KeyShowCmd) Run(globals *Globals) error {
	credential, err := globals.credential()
	if err != nil {
		return err
	}
	fmt.Println("API key:", mask(credential.APIKey))
	if credential.DefaultAssistantID != "" {
		fmt.Println("Default assistant:", credential.DefaultAssistantID)
	}
	return nil
}

func (cmd *KeyDeleteCmd) Run(globals *Globals) error {
	credentials, err := globals.credentialStore()
	if err != nil {
		return err
	}
	if err := credentials.DeleteCredential(globals.ctx); err != nil {
		return err
	}
	fmt.Println("Key removed")
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// mask hides the middle of a key, keeping enough to recognise it
func mask(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
