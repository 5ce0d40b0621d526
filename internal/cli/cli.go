package cli

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/settatam/shop-sub011/internal/api"
	"github.com/settatam/shop-sub011/internal/assist"
	"github.com/settatam/shop-sub011/internal/config"
	"github.com/settatam/shop-sub011/internal/llm"
	"github.com/settatam/shop-sub011/internal/store"

	"go.uber.org/zap"
)

// Parse reads flags and the optional positional query into Options. It is
// called before the dependency graph is built so flag overrides can shape
// the loaded configuration.
func Parse(args []string) (Options, error) {
	var opts Options
	var timeoutSeconds int

	fs := flag.NewFlagSet("shop-ai", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [query]\n", fs.Name())
		fs.PrintDefaults()
	}

	fs.Int64Var(&opts.StoreID, "store-id", 0, "Store to act as (DEFAULT_STORE_ID)")
	fs.StringVar(&opts.DBPath, "db", "", "SQLite database path (DB_PATH)")
	fs.BoolVar(&opts.JSON, "json", false, "Output JSON format")
	fs.BoolVar(&opts.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&opts.LogFile, "log-file", "", "Log file path")
	fs.IntVar(&timeoutSeconds, "timeout", 0, "Per-query timeout in seconds")
	fs.BoolVar(&opts.Serve, "serve", false, "Run the HTTP API instead of the CLI")
	fs.StringVar(&opts.Addr, "addr", "", "HTTP listen address (ADDR)")
	fs.BoolVar(&opts.SeedDemo, "seed-demo", false, "Seed demo stores and exit")
	fs.StringVar(&opts.Provider, "provider", "", "AI provider: openrouter, openai or anthropic")
	fs.StringVar(&opts.Model, "model", "", "AI model override")
	fs.StringVar(&opts.APIKey, "api-key", "", "API key for the active provider")

	if err := fs.Parse(args); err != nil {
		return Options{}, err
	}

	if timeoutSeconds > 0 {
		opts.Timeout = time.Duration(timeoutSeconds) * time.Second
	}

	rest := fs.Args()
	if len(rest) > 1 {
		return Options{}, fmt.Errorf("only one query argument is supported")
	}
	if len(rest) == 1 {
		opts.Query = strings.TrimSpace(rest[0])
	}

	return opts, nil
}

type Runner struct {
	opts      Options
	cfg       config.Config
	logger    *zap.Logger
	st        *store.Store
	assistant *assist.Assistant
	server    *api.Server
}

func NewRunner(opts Options, cfg config.Config, logger *zap.Logger, st *store.Store, assistant *assist.Assistant, server *api.Server) *Runner {
	return &Runner{
		opts:      opts,
		cfg:       cfg,
		logger:    logger.Named("cli"),
		st:        st,
		assistant: assistant,
		server:    server,
	}
}

// Execute routes to seeding, the HTTP server, a one-shot query or the REPL.
func (r *Runner) Execute(ctx context.Context) error {
	if r.opts.SeedDemo {
		return r.runSeed(ctx)
	}
	if r.opts.Serve {
		return r.server.ListenAndServe(ctx, r.cfg.Addr)
	}
	if r.opts.Query != "" {
		return r.handleQuery(ctx, r.opts.Query, nil)
	}
	return r.runREPL(ctx)
}

// storeID resolves the tenant for this session. Options.Apply already
// folded the -store-id flag into the config default.
func (r *Runner) storeID() int64 {
	if r.cfg.DefaultStoreID > 0 {
		return r.cfg.DefaultStoreID
	}
	return 1
}

func (r *Runner) runSeed(ctx context.Context) error {
	id, err := r.st.SeedDemo(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Seeded demo data into %s; primary store id is %d.\n", r.cfg.DBPath, id)
	return nil
}

func (r *Runner) runREPL(ctx context.Context) error {
	storeID := r.storeID()
	info, err := r.st.GetStore(ctx, storeID)
	if err != nil {
		return err
	}

	reader := bufio.NewScanner(os.Stdin)
	history := assist.NewHistory(0, 0, r.logger)
	fmt.Fprintf(os.Stdout, "%s assistant (store %d). Type 'exit' to quit, /clear or /history for the session.\n", info.Name, storeID)

	for {
		fmt.Fprint(os.Stdout, "> ")
		if !reader.Scan() {
			return reader.Err()
		}

		line := strings.TrimSpace(reader.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "/clear":
			history.Clear()
			fmt.Fprintln(os.Stdout, "History cleared.")
			continue
		case "/history":
			printHistory(os.Stdout, history)
			continue
		case "exit", "quit":
			return nil
		}

		if err := r.handleQuery(ctx, line, history); err != nil {
			return err
		}
	}
}

func (r *Runner) handleQuery(ctx context.Context, query string, history *assist.History) error {
	r.logger.Info("query received",
		zap.String("query", query),
		zap.Int64("store_id", r.storeID()),
		zap.Bool("json", r.opts.JSON),
		zap.Bool("interactive", history != nil),
	)

	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	answer, err := r.assistant.Ask(ctx, r.storeID(), query, history)
	if err != nil {
		return err
	}
	return writeAnswer(os.Stdout, r.opts, answer)
}

func printHistory(w io.Writer, history *assist.History) {
	messages := history.Messages()
	if len(messages) == 0 {
		fmt.Fprintln(w, "History is empty.")
		return
	}
	fmt.Fprintf(w, "History (%d messages, ~%d tokens):\n", len(messages), history.TokenCount())
	for i, msg := range messages {
		preview := messagePreview(msg)
		if preview == "" {
			preview = "(empty)"
		}
		fmt.Fprintf(w, "%d) %s: %s\n", i+1, msg.Role, preview)
	}
}

func messagePreview(msg llm.Message) string {
	text := strings.TrimSpace(msg.Content)
	if text == "" && len(msg.ToolCalls) > 0 {
		names := make([]string, 0, len(msg.ToolCalls))
		for _, call := range msg.ToolCalls {
			names = append(names, call.Name)
		}
		text = "(tool call: " + strings.Join(names, ", ") + ")"
	}
	if text == "" {
		return ""
	}
	const maxLen = 120
	if len(text) <= maxLen {
		return text
	}
	return text[:maxLen] + "..."
}
