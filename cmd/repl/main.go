// REPL binary for exploring a SQLite database and building queries.
//
// Configuration comes from flags, LITEQUERY_* env vars (a .env file is
// loaded first) and an optional config file:
//
//	LITEQUERY_FILENAME=app.db
//	LITEQUERY_EMULATE_BIGINT_AUTOINCREMENT=true
//	LITEQUERY_LOG_LEVEL=debug
//
// Usage:
//
//	go run ./cmd/repl --db app.db
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bawdo/litequery/connection"
	"github.com/bawdo/litequery/internal/config"
)

const prompt = "litequery> "

var (
	errorColor  = color.New(color.FgRed, color.Bold)
	noticeColor = color.New(color.FgCyan)
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		_, _ = errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile       string
		dbPath        string
		emulateBigInt bool
	)

	cmd := &cobra.Command{
		Use:   "litequery",
		Short: "Interactive SQLite shell",
		Long: `litequery - interactive SQLite shell

Runs SQL against a SQLite database and builds SELECT queries from the
tables it finds, with optional soft-delete filtering.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("db") {
				cfg.Filename = dbPath
			}
			if cmd.Flags().Changed("emulate-bigint") {
				cfg.EmulateBigIntAutoIncrement = emulateBigInt
			}

			conn := connection.New(cfg.ConnectionOptions(cfg.Logger(cmd.ErrOrStderr()))...)
			if err := conn.Start(cmd.Context()); err != nil {
				return err
			}
			defer func() { _ = conn.Stop() }()

			return run(cmd.Context(), conn, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&cfgFile, "config", "", "config file (yaml, toml or json)")
	cmd.Flags().StringVar(&dbPath, "db", "", "database file (default :memory:)")
	cmd.Flags().BoolVar(&emulateBigInt, "emulate-bigint", false, "emulate BIGINT auto-increment on the client")
	return cmd
}

func run(ctx context.Context, conn *connection.Connection, out io.Writer) error {
	sess := NewSession(ctx, conn, out)

	rl, err := readline.NewFromConfig(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyPath(),
		HistoryLimit:    500,
		AutoComplete:    &replCompleter{sess: sess},
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("readline init: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = noticeColor.Fprintf(out, "litequery on %s, type 'help' for commands, 'exit' to quit\n\n", conn.Filename())

	for {
		line, err := rl.ReadLine()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		if lower == "exit" || lower == "quit" {
			break
		}
		if err := sess.Execute(line); err != nil {
			_, _ = errorColor.Fprintf(os.Stderr, "  Error: %v\n", err)
		}
	}
	_, _ = fmt.Fprintln(out)
	return nil
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".litequery_history")
}
