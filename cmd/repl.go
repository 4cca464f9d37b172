package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/autoeda-cli/internal/session"
	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

// runREPL starts the interactive loop on the terminal.
func runREPL(cmd *cobra.Command) error {
	driver, logger, err := newDriver()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if cfg.HistoryFile != "" {
		_ = os.MkdirAll(filepath.Dir(cfg.HistoryFile), 0o755)
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          session.Prompt,
		HistoryFile:     cfg.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return fmt.Errorf("init readline: %w", err)
	}
	defer rl.Close()

	return driver.Loop(cmd.Context(), rl, rl.Stdout())
}
