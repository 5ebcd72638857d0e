package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/mantisos/aios/internal/ctxlog"
)

const prompt = "aios> "

// Run drives the interactive read-eval-print loop until the user exits.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.HealthcheckPort > 0 {
		a.startHealthcheckServer(a.config.HealthcheckPort)
	}

	a.printBanner()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     a.config.HistoryFile,
		InterruptPrompt: "^C",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize line editor: %w", err)
	}
	defer rl.Close()

	// Destructive commands confirm through the same line editor.
	a.confirm = func(q string) bool {
		rl.SetPrompt(q + " [y/N]: ")
		defer rl.SetPrompt(prompt)
		line, err := rl.Readline()
		if err != nil {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		}
		return false
	}

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				break
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		if a.shell.Dispatch(ctx, line) {
			break
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// RunScript executes commands from a reader, one per line, without any
// interactivity. Confirmation prompts are denied. It drives piped input and
// tests.
func (a *App) RunScript(ctx context.Context, in io.Reader) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if a.shell.Dispatch(ctx, scanner.Text()) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read script input: %w", err)
	}
	return nil
}

func (a *App) printBanner() {
	color.New(color.FgCyan, color.Bold).Fprintln(a.outW, "AiOS kernel shell")
	fmt.Fprintf(a.outW, "session %s\n", a.sessionID)
	fmt.Fprintln(a.outW, "Type 'help' for a list of commands.")
}
