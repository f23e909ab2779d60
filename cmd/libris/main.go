package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"libris/internal/api"
	"libris/internal/busy"
	"libris/internal/config"
	"libris/internal/logging"
	"libris/internal/service"
	"libris/internal/session"
	"libris/internal/toast"
	"libris/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Parse()

	if showVersion {
		fmt.Printf("libris %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.Setup(cfg.Logging.File, cfg.Logging.Level)
	if err != nil {
		// Fall back to a null logger if file logging fails
		logger = logging.Null()
	}
	slog.SetDefault(logger)

	logger.Info("starting libris", "version", Version, "server", cfg.Server.URL)

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("libris needs an interactive terminal")
	}

	sessions, err := session.Open(config.DataDir(), logger)
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}
	defer sessions.Close()
	sessions.Restore()

	counter := &busy.Counter{}
	toasts := toast.NewQueue()

	httpClient := &http.Client{Timeout: 30 * time.Second}
	client := api.New(cfg.Server.URL, httpClient, sessions, counter, toasts, sessions, logger)

	deps := tui.Deps{
		Config:   cfg,
		Session:  sessions,
		Toasts:   toasts,
		Busy:     counter,
		Auth:     service.NewAuthService(client, sessions, logger),
		Catalog:  service.NewCatalogService(client, logger),
		Loans:    service.NewLoanService(client, logger),
		Accounts: service.NewAccountService(client, logger),
	}

	program := tea.NewProgram(tui.NewModel(deps), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}
