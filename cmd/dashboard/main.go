package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Lixing-Zhang/food-dashboard/internal/config"
	"github.com/Lixing-Zhang/food-dashboard/internal/dashboard"
	"github.com/Lixing-Zhang/food-dashboard/internal/foodapi"
	"github.com/Lixing-Zhang/food-dashboard/internal/models"
	"github.com/Lixing-Zhang/food-dashboard/internal/tui"
	"github.com/Lixing-Zhang/food-dashboard/pkg/logger"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI, so logs go to a file
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	log := logger.NewWithWriter(cfg.LogLevel, logFile)
	slog.SetDefault(log)

	client, err := foodapi.New(cfg.API.BaseURL,
		foodapi.WithTimeout(time.Duration(cfg.API.Timeout)*time.Second),
		foodapi.WithAPIKey(cfg.API.APIKey),
		foodapi.WithLogger(log),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create API client: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctrl := dashboard.New(client, log)
	log.Info("starting dashboard", "api", cfg.API.BaseURL, "live_reload", cfg.API.LiveReload)

	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		if err := printFoods(ctx, ctrl, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load foods: %v\n", err)
			os.Exit(1)
		}
		return
	}

	var opts []tui.Option
	if cfg.API.LiveReload {
		opts = append(opts, tui.WithLiveReload(client))
	}

	p := tea.NewProgram(tui.New(ctx, ctrl, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		log.Error("dashboard exited", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// printFoods loads the collection once and writes it as a borderless table,
// so the output stays easy to grep and cut in scripts
func printFoods(ctx context.Context, ctrl *dashboard.Controller, w io.Writer) error {
	if err := ctrl.Load(ctx); err != nil {
		return err
	}

	foods := ctrl.Snapshot().Foods
	rows := make([][]string, 0, len(foods))
	for _, f := range foods {
		rows = append(rows, []string{strconv.FormatInt(f.ID, 10), f.Name, f.Price.StringFixed(2), availability(f)})
	}

	cell := lipgloss.NewStyle().PaddingRight(2)
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderHeader(false).
		StyleFunc(func(row, col int) lipgloss.Style { return cell }).
		Headers("ID", "NAME", "PRICE", "AVAILABLE").
		Rows(rows...)

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func availability(f models.Food) string {
	if f.Available {
		return "yes"
	}
	return "no"
}
