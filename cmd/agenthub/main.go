// Command agenthub is a terminal chat client for an agenthub server.
//
// Usage:
//
//	AGENTHUB_API_KEY=ah-... agenthub [flags]
//
// Flags:
//
//	-url string            Server base URL (overrides config file and env)
//	-api-key string        API key (overrides config file and env)
//	-model string          Model ID sent with each request
//	-agent string          Agent ID sent with each request
//	-conversation string   Conversation ID to resume
//	-config string         Path to config file (default: .agenthub/config.yaml)
//	-add-resources string  Glob of local files to upload before starting
//	-list-agents           List available agents and exit
//	-debug string          Path to a debug log file
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/Chugyy/agenthub"
	"github.com/Chugyy/agenthub/config"
	"github.com/Chugyy/agenthub/history"
	"github.com/Chugyy/agenthub/hub"
	"github.com/Chugyy/agenthub/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "agenthub: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Parse flags.
	var (
		baseURL        = flag.String("url", "", "Server base URL (overrides config file and env)")
		apiKey         = flag.String("api-key", "", "API key (overrides config file and env)")
		model          = flag.String("model", "", "Model ID sent with each request")
		agentID        = flag.String("agent", "", "Agent ID sent with each request")
		conversationID = flag.String("conversation", "", `Conversation ID to resume ("last" resumes the previous one)`)
		configPath     = flag.String("config", config.DefaultPath, "Path to config file")
		addResources   = flag.String("add-resources", "", "Glob of local files to upload before starting")
		listAgents     = flag.Bool("list-agents", false, "List available agents and exit")
		debugLog       = flag.String("debug", "", "Path to a debug log file")
	)
	flag.Parse()

	// Handle OS signals for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Resolution order: flags > env > config file. Load handles env.
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}
	if *apiKey != "" {
		cfg.APIKey = *apiKey
	}
	if *model != "" {
		cfg.Model = *model
	}
	if *agentID != "" {
		cfg.AgentID = *agentID
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if *conversationID == "last" {
		id, err := history.Load(history.DefaultPath)
		if err != nil {
			return err
		}
		*conversationID = id
	}

	// Logs go to a file: the TUI owns the terminal.
	clientOpts := []hub.Option{}
	if *debugLog != "" {
		f, err := os.OpenFile(*debugLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open debug log: %w", err)
		}
		defer f.Close()
		clientOpts = append(clientOpts, hub.WithLogger(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	}

	client := hub.New(cfg.BaseURL, cfg.APIKey, clientOpts...)

	if *listAgents {
		return printAgents(ctx, client)
	}

	if *addResources != "" {
		if err := uploadResources(ctx, client, *addResources); err != nil {
			return err
		}
	}

	var ctrlOpts []hub.ControllerOption
	if cfg.InactivityTimeout > 0 {
		ctrlOpts = append(ctrlOpts, hub.WithInactivityTimeout(cfg.InactivityTimeout))
	}
	controller := hub.NewController(client, ctrlOpts...)

	hooks := tui.Hooks{
		Chat: func(ctx context.Context, message string, onEvent func(agenthub.Event)) error {
			req := agenthub.ChatRequest{
				ConversationID: *conversationID,
				Message:        message,
				Model:          cfg.Model,
				AgentID:        cfg.AgentID,
				APIKeyID:       cfg.APIKeyID,
			}
			if id := controller.ConversationID(); id != "" {
				req.ConversationID = id
			}
			return controller.Start(ctx, req, agenthub.Handler{
				OnChunk:              func(text string) { onEvent(agenthub.EventChunk{Content: text}) },
				OnSources:            func(s []agenthub.Source) { onEvent(agenthub.EventSources{Sources: s}) },
				OnValidationRequired: func(id string) { onEvent(agenthub.EventValidationRequired{ValidationID: id}) },
				OnRefetchMessages:    func() { onEvent(agenthub.EventToolCallUpdated{}) },
				OnError:              func(msg string) { onEvent(agenthub.EventError{Message: msg}) },
				OnDone:               func() { onEvent(agenthub.EventDone{}) },
			})
		},
		Decide: func(ctx context.Context, validationID string, decision agenthub.ValidationDecision) error {
			return client.DecideValidation(ctx, validationID, decision, "")
		},
		Stop: controller.Stop,
	}

	m := tui.New(hooks, agenthub.DefaultTheme())
	if err := tui.Run(ctx, m); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}

	// Remember the conversation for "-conversation last".
	if id := controller.ConversationID(); id != "" {
		if err := history.Save(history.DefaultPath, id); err != nil {
			fmt.Fprintf(os.Stderr, "save history: %v\n", err)
		}
	}
	return nil
}

func printAgents(ctx context.Context, client *hub.Client) error {
	agents, err := client.ListAgents(ctx)
	if err != nil {
		return err
	}
	for _, a := range agents {
		fmt.Printf("%s\t%s\n", a.ID, a.Name)
	}
	return nil
}

func uploadResources(ctx context.Context, client *hub.Client, pattern string) error {
	paths, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return fmt.Errorf("bad resource glob %q: %w", pattern, err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no files match %q", pattern)
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return err
		}
		if info.IsDir() {
			continue
		}
		f, err := os.Open(p)
		if err != nil {
			return err
		}
		res, err := client.UploadResource(ctx, filepath.Base(p), f)
		f.Close()
		if err != nil {
			return fmt.Errorf("upload %s: %w", p, err)
		}
		fmt.Fprintf(os.Stderr, "uploaded %s (%s)\n", p, res.ID)
	}
	return nil
}
