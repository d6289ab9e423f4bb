package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	// Packages
	kong "github.com/alecthomas/kong"
	client "github.com/mutablelogic/go-client"
	askstack "github.com/thesubgraph/go-askstack"
	assistant "github.com/thesubgraph/go-askstack/pkg/assistant"
	chat "github.com/thesubgraph/go-askstack/pkg/chat"
	opt "github.com/thesubgraph/go-askstack/pkg/opt"
	schema "github.com/thesubgraph/go-askstack/pkg/schema"
	store "github.com/thesubgraph/go-askstack/pkg/store"
	term "golang.org/x/term"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type Globals struct {
	// Debugging
	Debug   bool `name:"debug" help:"Enable debug output"`
	Verbose bool `name:"verbose" help:"Enable verbose output"`

	// Storage
	Dir        string `name:"dir" env:"ASKSTACK_DIR" help:"Data directory (defaults to the user config dir)"`
	Passphrase string `name:"passphrase" env:"ASKSTACK_PASSPHRASE" help:"Passphrase for the credential store"`

	// Offline development
	Mock bool `name:"mock" help:"Use canned replies instead of the remote service"`

	// Context
	ctx    context.Context
	config *Config
}

type CLI struct {
	Globals

	// Credential management
	Key KeyCommands `cmd:"" help:"Manage the stored API key"`

	// Remote assistants
	Assistants AssistantCommands `cmd:"" help:"Manage remote assistants"`

	// Local conversations
	Conversations ConversationCommands `cmd:"" help:"Manage conversations"`

	// Chat
	Chat ChatCmd `cmd:"" help:"Start an interactive chat session"`

	// Version
	Version VersionCmd `cmd:"" help:"Print version information"`
}

////////////////////////////////////////////////////////////////////////////////
// MAIN

func main() {
	// Create a cli parser
	cli := CLI{}
	cmd := kong.Parse(&cli,
		kong.Name(execName()),
		kong.Description("Ask questions against a document-backed assistant"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{},
	)

	// Create a context which cancels on interrupt
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	cli.Globals.ctx = ctx

	// Resolve the data directory and configuration
	if cli.Dir == "" {
		dir, err := defaultDir()
		cmd.FatalIfErrorf(err)
		cli.Dir = dir
	}
	config, err := LoadConfig(cli.Dir)
	cmd.FatalIfErrorf(err)
	cli.Globals.config = config

	// Run the command
	if err := cmd.Run(&cli.Globals); err != nil {
		cmd.FatalIfErrorf(err)
		return
	}
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func execName() string {
	// The name of the executable
	name, err := os.Executable()
	if err != nil {
		panic(err)
	} else {
		return filepath.Base(name)
	}
}

// defaultDir returns the per-user data directory
func defaultDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "askstack"), nil
}

// passphrase returns the credential passphrase, prompting on the terminal
// when it was not supplied by flag or environment
func (g *Globals) passphrase() (string, error) {
	if g.Passphrase != "" {
		return g.Passphrase, nil
	}
	fmt.Fprint(os.Stderr, "Passphrase: ")
	secret, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	g.Passphrase = string(secret)
	return g.Passphrase, nil
}

// credentialStore opens the sealed credential store
func (g *Globals) credentialStore() (schema.CredentialStore, error) {
	passphrase, err := g.passphrase()
	if err != nil {
		return nil, err
	}
	return store.NewFileCredentialStore(passphrase, g.Dir)
}

// credential returns the stored credential
func (g *Globals) credential() (*schema.Credential, error) {
	credentials, err := g.credentialStore()
	if err != nil {
		return nil, err
	}
	credential, err := credentials.GetCredential(g.ctx)
	if err != nil {
		return nil, askstack.ErrNotFound.With("no API key stored, run the key set command first")
	}
	return credential, nil
}

// client returns an assistant client authenticated with the stored key
func (g *Globals) client() (*assistant.Client, error) {
	credential, err := g.credential()
	if err != nil {
		return nil, err
	}
	opts := []client.ClientOpt{}
	if g.Debug {
		opts = append(opts, client.OptTrace(os.Stderr, g.Verbose))
	}
	return assistant.New(credential.APIKey, opts...)
}

// service wires the chat service over the file-backed store
func (g *Globals) service() (*chat.Service, error) {
	chatStore, err := store.NewFileChatStore(filepath.Join(g.Dir, "conversations"))
	if err != nil {
		return nil, err
	}

	options := []opt.Opt{
		chat.WithSmoothTyping(g.config.SmoothTyping),
		chat.WithTypingSpeed(g.config.TypingSpeed),
	}
	if g.Mock || g.config.MockStreaming {
		options = append(options, chat.WithMockStreaming(true))
		return chat.New(nil, chatStore, options...)
	}

	transport, err := g.client()
	if err != nil {
		return nil, err
	}
	return chat.New(transport, chatStore, options...)
}

// assistantId resolves the assistant to use: flag value, then the stored
// credential default, then the config default
func (g *Globals) assistantId(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if g.config.DefaultAssistant != "" {
		return g.config.DefaultAssistant, nil
	}
	if g.Mock || g.config.MockStreaming {
		return "", nil
	}
	credential, err := g.credential()
	if err != nil {
		return "", err
	}
	if credential.DefaultAssistantID == "" {
		return "", askstack.ErrBadParameter.With("no assistant configured, pass --assistant or set a default")
	}
	return credential.DefaultAssistantID, nil
}
