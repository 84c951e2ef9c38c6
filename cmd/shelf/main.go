package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mmcdole/shelf/internal/adapter"
	"github.com/mmcdole/shelf/internal/library"
	"github.com/mmcdole/shelf/internal/search"
	"github.com/mmcdole/shelf/internal/store"
	"github.com/mmcdole/shelf/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app bundles the wired services a command runs against
type app struct {
	cfg     *adapter.Config
	logger  *slog.Logger
	lib     *library.Service
	queries *library.Queries
	search  *search.Service
	sort    search.SortField
}

// openApp loads configuration, opens the store and loads library state
func openApp(ctx context.Context, configFile string) (*app, error) {
	cfg, err := adapter.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// Setup logger
	logger, err := adapter.SetupLogger(&cfg.Logging, "version", Version, "driver", cfg.Storage.Driver)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)

	sortField, err := search.ParseSortField(cfg.UI.DefaultSort)
	if err != nil {
		logger.Warn("ignoring ui.default_sort", "value", cfg.UI.DefaultSort, "error", err)
		sortField = search.SortTitle
	}

	st, err := store.Open(cfg.Storage.Driver, cfg.Storage.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Storage.Driver, err)
	}

	lib := library.New(st,
		library.WithLogger(logger),
		library.WithLoanPeriod(cfg.LoanPeriod()),
		library.WithAdminCredentials(cfg.Admin.Username, cfg.Admin.Password),
	)
	if err := lib.Load(ctx); err != nil {
		_ = lib.Close()
		return nil, fmt.Errorf("failed to load library: %w", err)
	}

	queries := library.NewQueries(lib)
	return &app{
		cfg:     cfg,
		logger:  logger,
		lib:     lib,
		queries: queries,
		search:  search.NewService(queries, logger),
		sort:    sortField,
	}, nil
}

func (a *app) Close() error {
	return a.lib.Close()
}

func runTUI(cmd *cobra.Command, configFile string) error {
	a, err := openApp(cmd.Context(), configFile)
	if err != nil {
		return err
	}
	defer a.Close()

	a.logger.Info("starting shelf")

	model := tui.NewModel(a.queries, a.lib, a.search, a.sort, a.logger)

	// Run the TUI
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
	)

	a.logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		a.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	a.logger.Info("shutting down")
	return nil
}
