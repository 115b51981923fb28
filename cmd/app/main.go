package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/jonathanyeong/inkwell/internal"
	"github.com/jonathanyeong/inkwell/internal/apperr"
	"github.com/jonathanyeong/inkwell/internal/inbox"
	"github.com/jonathanyeong/inkwell/internal/index"
	"github.com/jonathanyeong/inkwell/internal/mcpserver"
	"github.com/jonathanyeong/inkwell/internal/review"
	"github.com/jonathanyeong/inkwell/internal/sm2"
	"github.com/jonathanyeong/inkwell/internal/storage"
	pkgconfig "github.com/jonathanyeong/inkwell/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(configPath, cfg); err != nil {
		if !errors.Is(err, pkgconfig.ErrMissing) {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// newStore builds the inbox store from config, creating the inbox
// directory when missing.
func newStore(cfg *internal.Config) (*inbox.Store, storage.Provider, error) {
	if err := os.MkdirAll(cfg.Inbox.Path, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create inbox dir: %w", err)
	}
	provider, err := storage.NewFS(cfg.Inbox.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("init storage: %w", err)
	}
	return inbox.NewStore(provider, cfg.Inbox.DailyLimit), provider, nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func runAdd(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, _, err := newStore(cfg)
	if err != nil {
		return err
	}

	content := strings.Join(cmd.Args().Slice(), " ")
	if strings.TrimSpace(content) == "" {
		data, err := readAll(os.Stdin)
		if err != nil {
			return err
		}
		content = data
	}
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("nothing to add: pass the entry text as an argument or on stdin")
	}

	rec, err := store.Create(content)
	if err != nil {
		return err
	}
	fmt.Printf("created %s\n", rec.Path)
	return nil
}

func readAll(f *os.File) (string, error) {
	var sb strings.Builder
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		sb.WriteString(scanner.Text())
		sb.WriteByte('\n')
	}
	return sb.String(), scanner.Err()
}

func runReview(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, _, err := newStore(cfg)
	if err != nil {
		return err
	}

	session := review.New(store)
	if err := session.Start(); err != nil {
		if errors.Is(err, apperr.ErrNothingDue) {
			fmt.Println("nothing due for review today")
			return nil
		}
		return err
	}

	in := bufio.NewScanner(os.Stdin)
	for session.State() == review.Presenting {
		rec, prog, err := session.Current()
		if err != nil {
			return err
		}

		fmt.Printf("\n[%d/%d] %s\n\n%s\n\n", prog.Current, prog.Total, rec.Path, rec.Content)
		fmt.Print("rate (f)ruitful / (s)kip / (u)nfruitful / (a)rchive / (q)uit: ")

		if !in.Scan() {
			break
		}
		choice := strings.ToLower(strings.TrimSpace(in.Text()))

		var rating sm2.Rating
		switch choice {
		case "f", "fruitful":
			rating = sm2.Fruitful
		case "s", "skip":
			rating = sm2.Skip
		case "u", "unfruitful":
			rating = sm2.Unfruitful
		case "a", "archive":
			if err := session.SubmitArchive(); err != nil {
				fmt.Printf("archive failed: %v\n", err)
			}
			continue
		case "q", "quit":
			session.Stop()
			fmt.Println("review stopped")
			return nil
		default:
			fmt.Printf("unknown choice %q\n", choice)
			continue
		}

		if err := session.SubmitRating(rating); err != nil {
			fmt.Printf("rating failed: %v\n", err)
		}
	}

	if session.State() == review.Completed {
		fmt.Println("\nreview complete")
	}
	return in.Err()
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, provider, err := newStore(cfg)
	if err != nil {
		return err
	}

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	// The MCP client owns stdout, so logs go to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	if err := index.Sync(db, provider, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	return mcpserver.New(store, db).ServeStdio()
}

func main() {
	cmd := &cli.Command{
		Name:  "inkwell",
		Usage: "Spaced-repetition inbox for resurfacing writing ideas on an SM-2 schedule",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP API server with file watching and live events",
				Action: runServe,
			},
			{
				Name:      "add",
				Usage:     "Add a new entry from arguments or stdin",
				ArgsUsage: "[text]",
				Action:    runAdd,
			},
			{
				Name:   "review",
				Usage:  "Run an interactive review session in the terminal",
				Action: runReview,
			},
			{
				Name:   "mcp",
				Usage:  "Serve inbox tools over the Model Context Protocol on stdio",
				Action: runMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
