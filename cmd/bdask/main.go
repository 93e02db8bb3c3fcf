// BdAsk terminal client
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/bdask/bdask/internal/client"
	"github.com/bdask/bdask/internal/config"
	"github.com/bdask/bdask/internal/middleware"
	"github.com/bdask/bdask/internal/weather"
	"github.com/spf13/cobra"
)

type app struct {
	cfg     *config.Client
	backend *client.Client
	weather *weather.Client
	logger  *slog.Logger
}

func main() {
	var (
		configPath string
		verbose    bool
		a          app
	)

	rootCmd := &cobra.Command{
		Use:           "bdask",
		Short:         "BdAsk - বাংলাদেশের AI সহকারী",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			a.logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(a.logger)

			cfg, err := config.LoadClient(configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg

			opts := []client.Option{}
			if id, err := loadClientID(); err != nil {
				a.logger.Warn("Failed to load client ID", "error", err)
			} else {
				opts = append(opts, client.WithClientID(id))
			}
			a.backend = client.New(cfg.Backend.URL, cfg.Backend.Timeout, opts...)
			a.weather = weather.NewClient(cfg.Weather.BaseURL, cfg.Weather.Timeout)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath(), "path to YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		newChatCmd(&a),
		newSessionsCmd(&a),
		newWeatherCmd(&a),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func newSessionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List chat sessions, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sessions, err := a.backend.ListSessions(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list sessions: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(sessions) == 0 {
				fmt.Fprintln(out, "কোনো কথোপকথন নেই")
				return nil
			}
			for i, s := range sessions {
				fmt.Fprintf(out, "%2d. %s  (%s)\n", i+1, s.Title, s.UpdatedAt.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func newWeatherCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "weather [query]",
		Short: "Show current weather for a Bangladeshi city",
		Example: `  bdask weather সিলেটের আবহাওয়া
  bdask weather chittagong`,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			w, err := a.weather.ForQuery(cmd.Context(), query)
			if err != nil {
				return fmt.Errorf("failed to fetch weather: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), weather.FormatReport(w))
			return nil
		},
	}
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "bdask", "config.yaml")
}

// loadClientID returns the anonymous client ID stored next to the config,
// creating one on first use.
func loadClientID() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, "bdask", "client_id")

	data, err := os.ReadFile(path)
	if err == nil {
		if id := strings.TrimSpace(string(data)); middleware.IsValidClientID(id) {
			return id, nil
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	id, err := middleware.NewClientID()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(id+"\n"), 0o600); err != nil {
		return "", err
	}
	return id, nil
}
