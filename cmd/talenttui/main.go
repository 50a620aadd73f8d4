// Command talenttui browses the registered tables in a terminal.
//
//	talenttui              pick a table from the menu
//	talenttui candidates   open one table directly
//
// Logs go to TUI_LOG_FILE (default talenttui.log) since the terminal is
// taken by the viewer.
package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/JonMunkholm/talentdesk/internal/config"
	"github.com/JonMunkholm/talentdesk/internal/core"
	"github.com/JonMunkholm/talentdesk/internal/core/tables" // Register all tables
	"github.com/JonMunkholm/talentdesk/internal/logging"
	"github.com/JonMunkholm/talentdesk/internal/table"
	"github.com/JonMunkholm/talentdesk/internal/tui"
)

func main() {
	_ = godotenv.Overload()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logPath := os.Getenv("TUI_LOG_FILE")
	if logPath == "" {
		logPath = "talenttui.log"
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logging.SetupWriter(logFile, cfg.Logging.Level, cfg.Logging.Format)

	if cfg.UsesPostgres() {
		pool, err := connect(cfg.Database)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: connect to database: %v\n", err)
			os.Exit(1)
		}
		defer pool.Close()
		core.UseSources(tables.PostgresSources(pool, cfg.Data.CacheTTL))
	}
	if cfg.UsesCSV() {
		core.UseSources(tables.CSVSources(cfg.Data.CSVDir, cfg.Data.CacheTTL))
	}

	opts := tui.Options{
		PageSize:    cfg.Table.DefaultPageSize,
		MaxRows:     cfg.Table.MaxRows,
		SelectScope: table.SelectScope(cfg.Table.SelectScope),
	}
	model := tui.New(tui.BuildMenu(opts))

	if len(os.Args) > 1 {
		def, ok := core.Get(os.Args[1])
		if !ok {
			fmt.Fprintf(os.Stderr, "error: unknown table %q\n", os.Args[1])
			os.Exit(1)
		}
		msg := tui.LoadTable(def, opts)()
		if e, ok := msg.(tui.ErrMsg); ok {
			slog.Error("open table failed", "table", def.Info.Key, "error", e.Err)
			fmt.Fprintln(os.Stderr, "error:", core.FormatUserError(e.Err))
			os.Exit(1)
		}
		next, _ := model.Update(msg)
		model = next.(tui.Model)
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
