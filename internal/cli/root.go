// Package cli implements the helios CLI commands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/helios/internal/chat"
	"github.com/rcliao/helios/internal/config"
	"github.com/rcliao/helios/internal/docs"
	"github.com/rcliao/helios/internal/jira"
	"github.com/rcliao/helios/internal/llm"
	"github.com/rcliao/helios/internal/logging"
	"github.com/rcliao/helios/internal/project"
)

var (
	configPath string
	envFile    string
	formatFlag string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "helios",
	Short: "Ask questions about Jira projects",
	Long:  "Helios answers questions about a Jira project from its issues, meeting notes in Google Docs and, optionally, a language model.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (default: $HELIOS_CONFIG)")
	RootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file loaded before reading the environment")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
}

func loadConfig() (*config.Config, error) {
	if err := config.LoadEnvFile(envFile); err != nil {
		return nil, err
	}
	path := configPath
	if path == "" {
		path = os.Getenv("HELIOS_CONFIG")
	}
	return config.Load(path)
}

// app bundles what the commands need.
type app struct {
	cfg     *config.Config
	log     *logging.Logger
	jira    *jira.Client
	fetcher *project.Fetcher
	engine  *chat.Engine
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logging.NewLogger(cfg.Env)

	client := jira.NewClient(jira.Config{
		BaseURL:  cfg.Jira.BaseURL,
		Email:    cfg.Jira.Email,
		APIToken: cfg.Jira.APIToken,
	})
	fetcher := project.NewFetcher(client,
		project.WithMaxResults(cfg.Jira.MaxResults),
		project.WithFetchLogger(log.With("component", "fetcher")))

	provider, err := llm.New(cfg.LLMSettings())
	if err != nil {
		return nil, err
	}
	if !llm.Available(provider) {
		log.Info("no language model configured, answers are data-only")
	}

	opts := []chat.Option{
		chat.WithLLM(provider),
		chat.WithLogger(log.With("component", "chat")),
		chat.WithProjectValidation(true),
	}
	if finder, err := newFinder(ctx, cfg, log); err != nil {
		log.Warn("meeting notes disabled", "err", err)
	} else {
		opts = append(opts, chat.WithNotes(finder))
	}

	return &app{
		cfg:     cfg,
		log:     log,
		jira:    client,
		fetcher: fetcher,
		engine:  chat.NewEngine(fetcher, opts...),
	}, nil
}

func newFinder(ctx context.Context, cfg *config.Config, log *logging.Logger) (*docs.Finder, error) {
	httpClient, err := docs.Client(ctx, cfg.Drive.CredentialsFile, cfg.Drive.TokenFile)
	if err != nil {
		return nil, err
	}
	reader, err := docs.NewDriveReader(ctx, httpClient)
	if err != nil {
		return nil, err
	}
	return docs.NewFinder(reader, log.With("component", "docs")), nil
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
