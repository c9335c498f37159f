package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	nexus "github.com/Desarso/nexus"
	"github.com/Desarso/nexus/credentials"
	"github.com/Desarso/nexus/server"
	"github.com/Desarso/nexus/sessions"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	cfg    *nexus.Config
	logger zerolog.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "nexus [request]",
		Short: "Hospital System Nexus coordinator",
		Long: `Nexus routes hospital staff requests to the medical records, billing,
patient management and scheduling sub-agents through Gemini function calling.

Examples:
  nexus "show the medical records for Budi Santoso"
  nexus chat
  nexus serve --port 8080
  nexus config set-key`,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = nexus.LoadConfig()
			if err != nil {
				return err
			}

			level, err := zerolog.ParseLevel(cfg.LogLevel)
			if err != nil {
				level = zerolog.InfoLevel
			}
			logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).
				With().
				Timestamp().
				Logger()
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runAsk(cmd.Context(), strings.Join(args, " "))
		},
	}

	rootCmd.AddCommand(chatCmd())
	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(configCmd())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context())
		},
	}
}

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask [request]",
		Short: "Send a single request",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd.Context(), strings.Join(args, " "))
		},
	}
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP and websocket server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port > 0 {
				cfg.ServerPort = port
			}
			return runServer(cmd.Context())
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default: SERVER_PORT or 8080)")
	return cmd
}

func newApp() (*nexus.App, error) {
	return nexus.NewApp(cfg, logger)
}

// progressObserver prints the sub-agent indicator while a turn runs.
func progressObserver() sessions.Observer {
	return sessions.ObserverFunc(func(e sessions.Event) {
		if e.Type == sessions.EventToolStart {
			fmt.Printf("\rContacting %s...\n", e.Label)
		}
	})
}

func runTurn(ctx context.Context, session *sessions.Session, input string) (string, error) {
	turnCtx, cancel := context.WithCancel(ctx)
	if cfg.TurnTimeout > 0 {
		turnCtx, cancel = context.WithTimeout(ctx, cfg.TurnTimeout)
	}
	defer cancel()
	return session.SendTurn(turnCtx, input, progressObserver())
}

func runChat(ctx context.Context) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	session, _ := app.Sessions.GetOrCreate(uuid.NewString())

	fmt.Println("Hospital System Nexus")
	fmt.Println("=====================")
	for _, m := range session.Messages() {
		fmt.Printf("Nexus: %s\n", m.Text)
	}
	fmt.Println()
	fmt.Println("Type 'reset' to start over, 'exit' or 'quit' to end the session.")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("You: ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return nil
		}

		input = strings.TrimSpace(input)
		switch input {
		case "":
			continue
		case "exit", "quit":
			fmt.Println("Goodbye!")
			return nil
		case "reset", "clear":
			session.Reset()
			fmt.Println("Conversation cleared.")
			continue
		}

		fmt.Print("Thinking...")
		reply, err := runTurn(ctx, session, input)
		fmt.Print("\r")
		if err != nil {
			logger.Debug().Err(err).Msg("turn failed")
			fmt.Printf("%s\n\n", sessions.ApologyText)
			var agentErr *sessions.AgentError
			if errors.As(err, &agentErr) && agentErr.Fatal {
				fmt.Println("No Gemini API key configured. Set GEMINI_API_KEY or run 'nexus config set-key'.")
			}
			if ctx.Err() != nil {
				return nil
			}
			continue
		}
		fmt.Printf("Nexus: %s\n\n", reply)
	}
}

func runAsk(ctx context.Context, request string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	session, _ := app.Sessions.GetOrCreate(uuid.NewString())
	reply, err := runTurn(ctx, session, request)
	if err != nil {
		return err
	}
	fmt.Println(reply)
	return nil
}

func runServer(ctx context.Context) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.StartCleanup(); err != nil {
		return err
	}
	return server.New(app).ListenAndServe(ctx)
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the Gemini API key stored in the OS keychain",
		Long: `Manage the Gemini API key stored in your OS keychain.

GEMINI_API_KEY and API_KEY take precedence over the stored key.

Examples:
  nexus config set-key      # Prompt for the key and store it
  nexus config show         # Show where the key comes from
  nexus config clear-key    # Remove the stored key`,
	}

	cmd.AddCommand(configSetKeyCmd())
	cmd.AddCommand(configShowCmd())
	cmd.AddCommand(configClearKeyCmd())
	return cmd
}

func configSetKeyCmd() *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "set-key",
		Short: "Store the Gemini API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			if key == "" {
				fmt.Print("Gemini API Key: ")
				input, err := readPassword()
				if err != nil {
					return fmt.Errorf("failed to read key: %w", err)
				}
				key = strings.TrimSpace(input)
			}
			if key == "" {
				return fmt.Errorf("no key given")
			}
			if err := credentials.Set(credentials.KeyGemini, key); err != nil {
				return fmt.Errorf("failed to store key: %w", err)
			}
			fmt.Println("Gemini API key stored in OS keychain.")
			return nil
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "Gemini API key")
	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show where the Gemini API key comes from",
		RunE: func(cmd *cobra.Command, args []string) error {
			source := "not set"
			switch {
			case cfg.GeminiAPIKey != "":
				source = "GEMINI_API_KEY"
			case cfg.APIKey != "":
				source = "API_KEY"
			case credentials.IsConfigured(credentials.KeyGemini):
				source = "OS keychain"
			}
			fmt.Printf("Gemini API key: %s\n", source)
			fmt.Printf("Model:          %s\n", cfg.ModelName)
			fmt.Printf("Store:          %s\n", cfg.StoreType)
			return nil
		},
	}
}

func configClearKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-key",
		Short: "Remove the stored Gemini API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := credentials.Delete(credentials.KeyGemini); err != nil {
				return fmt.Errorf("failed to clear key: %w", err)
			}
			fmt.Println("Gemini API key removed from keychain.")
			return nil
		},
	}
}

func readPassword() (string, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		bytes, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		return string(bytes), err
	}
	reader := bufio.NewReader(os.Stdin)
	return reader.ReadString('\n')
}
