/*
main.go - Application entry point

PURPOSE:
  Command line for the work-time engine: runs the HTTP API and offers
  admin commands that work directly on the database.

COMMANDS:
  serve              Start the HTTP server (graceful shutdown on SIGINT/SIGTERM)
  holidays import    Import a holiday file (.json or text format)
  calendar           Print the workable days of an interval
  time-summary       Print the annual work-time balance of a user

CONFIGURATION:
  --config points to an optional YAML/JSON/TOML file. Every key can be
  overridden with WORKTIME_* variables, e.g. WORKTIME_SERVER_PORT=3000 or
  WORKTIME_DATABASE_PATH=":memory:". A .env file in the working directory
  is read first.

EXAMPLES:
  worktime serve --config=worktime.yaml
  worktime holidays import --file=holidays-2024.txt
  worktime calendar --start=2024-03-01 --end=2024-03-31
  worktime time-summary --user=user-001 --year=2024

SEE ALSO:
  - config/config.go: Configuration keys and defaults
  - api/server.go: Router configuration
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/worktime-engine/api"
	"github.com/warp/worktime-engine/config"
	"github.com/warp/worktime-engine/factory"
	"github.com/warp/worktime-engine/generic"
	"github.com/warp/worktime-engine/holidays"
	"github.com/warp/worktime-engine/logging"
	"github.com/warp/worktime-engine/store/sqlite"
)

var (
	configPath string
	cfg        *config.Config
	logger     *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "worktime",
		Short:         "Work-time and vacation accounting engine",
		Long:          "Calendar-aware accounting of logged activities, yearly role caps and vacation entitlement",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			logger, err = logging.New(cfg.Log)
			if err != nil {
				return err
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(holidaysCmd())
	rootCmd.AddCommand(calendarCmd())
	rootCmd.AddCommand(timeSummaryCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := sqlite.New(cfg.Database.Path)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer store.Close()

			if cfg.Holidays.File != "" {
				n, err := holidays.NewImporter(store, logger).ImportFile(cmd.Context(), cfg.Holidays.File)
				if err != nil {
					logger.Warn("Failed to import holidays on startup",
						zap.String("file", cfg.Holidays.File), zap.Error(err))
				} else {
					logger.Info("Holidays loaded", zap.String("file", cfg.Holidays.File), zap.Int("count", n))
				}
			}

			agreements, err := factory.NewAgreementFactory(cfg.Vacation.Agreement)
			if err != nil {
				return err
			}

			handler := api.NewHandler(store, agreements, generic.SystemClock{}, logger)
			server := &http.Server{
				Addr:         cfg.Addr(),
				Handler:      api.NewRouter(handler),
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 15 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Server starting", zap.String("addr", server.Addr), zap.String("db", cfg.Database.Path))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			case <-quit:
			}

			logger.Info("Shutting down server")
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("server forced to shutdown: %w", err)
			}
			logger.Info("Server stopped")
			return nil
		},
	}
}

func holidaysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "Manage public holidays",
	}

	var file string
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import a holiday file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				file = cfg.Holidays.File
			}
			if file == "" {
				return errors.New("--file is required")
			}

			store, err := sqlite.New(cfg.Database.Path)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer store.Close()

			n, err := holidays.NewImporter(store, logger).ImportFile(cmd.Context(), file)
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d holidays from %s\n", n, file)
			return nil
		},
	}
	importCmd.Flags().StringVarP(&file, "file", "f", "", "Holiday file (.json or text)")

	cmd.AddCommand(importCmd)
	return cmd
}

func calendarCmd() *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Print the workable days of an interval",
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := generic.ParseDate(start)
			if err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			to, err := generic.ParseDate(end)
			if err != nil {
				return fmt.Errorf("--end: %w", err)
			}

			store, err := sqlite.New(cfg.Database.Path)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer store.Close()

			cal, err := generic.NewCalendarFactory(store).Build(cmd.Context(), generic.NewDateInterval(from, to))
			if err != nil {
				return err
			}

			fmt.Printf("%s .. %s: %d days, %d workable\n", start, end, len(cal.AllDays), len(cal.WorkableDays))
			for _, h := range cal.Holidays {
				fmt.Printf("  holiday  %s  %s\n", generic.FormatDate(h.Date), h.Description)
			}
			for _, d := range cal.WorkableDays {
				fmt.Printf("  workable %s  %s\n", generic.FormatDate(d), d.Weekday())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "First date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Last date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func timeSummaryCmd() *cobra.Command {
	var (
		userID string
		year   int
	)

	cmd := &cobra.Command{
		Use:   "time-summary",
		Short: "Print the annual work-time balance of a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if year == 0 {
				year = time.Now().Year()
			}

			store, err := sqlite.New(cfg.Database.Path)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer store.Close()

			agreements, err := factory.NewAgreementFactory(cfg.Vacation.Agreement)
			if err != nil {
				return err
			}
			handler := api.NewHandler(store, agreements, generic.SystemClock{}, logger)

			summary, err := handler.Summaries.UserTimeSummary(cmd.Context(), userID, year)
			if err != nil {
				return err
			}

			fmt.Printf("Time summary %s %d\n", userID, year)
			fmt.Println("═══════════════════════════════════════════════════════")
			fmt.Printf("  %-5s %10s %10s %12s %10s\n", "month", "workable", "worked", "recommended", "balance")
			for _, m := range summary.Months {
				fmt.Printf("  %-5s %10s %10s %12s %10s\n",
					m.Month.String()[:3], m.Workable, m.Worked, m.Recommended, m.Balance)
			}
			fmt.Println("───────────────────────────────────────────────────────")
			fmt.Printf("  Worked:                 %sh\n", summary.Annual.Worked)
			fmt.Printf("  Target:                 %sh\n", summary.Annual.Target)
			fmt.Printf("  Not requested vacation: %sh\n", summary.Annual.NotRequestedVacation)
			fmt.Printf("  Balance:                %sh\n", summary.Annual.Balance)
			fmt.Printf("  Previous year balance:  %sh\n", summary.Previous.Balance)
			return nil
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "", "User id")
	cmd.Flags().IntVarP(&year, "year", "y", 0, "Year (default: current year)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
