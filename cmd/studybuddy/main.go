// Command studybuddy is an interactive terminal client for the study-buddy tutor.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"study-buddy/internal/adapter/backend"
	"study-buddy/internal/adapter/tokenstore"
	"study-buddy/internal/config"
	"study-buddy/internal/logger"
	"study-buddy/internal/service"
	"syscall"

	"github.com/fatih/color"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		color.Red("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Log lines would garble the prompt.
	if cfg.Logger.File == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.Logger.File = filepath.Join(home, ".studybuddy", "studybuddy.log")
		}
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		color.Red("Failed to initialize logger: %v", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tokens, err := tokenstore.New(ctx, cfg)
	if err != nil {
		color.Red("Failed to open the %s token store: %v", cfg.Session.Store, err)
		os.Exit(1)
	}

	ws := service.NewWorkspace(cfg, backend.NewClient(cfg.Backend), tokens)
	cli := newShell(ws, os.Stdout)

	color.Cyan("Study Buddy (%s). Type 'help' for commands.", cfg.Backend.BaseURL)
	restored, err := ws.Start(ctx)
	switch {
	case err != nil:
		cli.fail(err)
	case restored:
		color.Green("Welcome back.")
		cli.printDocuments()
	default:
		fmt.Println("Log in with 'login <email> <password>' or create an account with 'register'.")
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(cli.prompt())
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if quit := cli.run(ctx, line); quit {
			break
		}
		if ctx.Err() != nil {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Get().Error("Failed to read input", zap.Error(err))
	}
	fmt.Println("Bye.")
}
