// newsdesk TUI - A terminal client for the news assistant.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/newsdesk-tui/internal/api"
	"github.com/jeranaias/newsdesk-tui/internal/config"
	"github.com/jeranaias/newsdesk-tui/internal/session"
	"github.com/jeranaias/newsdesk-tui/internal/storage"
	"github.com/jeranaias/newsdesk-tui/internal/ui"
	"github.com/jeranaias/newsdesk-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "version") {
		fmt.Printf("newsdesk %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration at startup; seed the file on first run so users
	// have something to edit.
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if _, err := os.Stat(config.DefaultPath()); os.IsNotExist(err) {
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to write default config: %w", err)
		}
	}

	// Optional debug log for update-loop tracing
	if os.Getenv("NEWSDESK_DEBUG") != "" {
		f, err := tea.LogToFile("newsdesk-debug.log", "newsdesk")
		if err != nil {
			return fmt.Errorf("failed to open debug log: %w", err)
		}
		defer f.Close()
	}

	// Open durable client state (persisted session id)
	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	// Wire the backend client and session manager
	client := api.NewClient(cfg.Server.BaseURL).
		WithTimeout(cfg.RequestTimeout()).
		WithMaxRetries(cfg.Server.MaxRetries)
	mgr := session.NewManager(client, store)

	// Build and run the interface
	theme := styles.NewTheme()
	m := ui.New(cfg, client, mgr, theme)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run newsdesk: %w", err)
	}
	return nil
}
