package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/clil-studio/internal/auth"
	"github.com/ziadkadry99/clil-studio/internal/server"
)

var (
	serverPort      int
	serverAllowAll  bool
	shutdownTimeout = 10 * time.Second
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP API used by the web editor",
	Long: `Starts the clilstudio HTTP server: generation routes, Google sign-in,
and the per-user lesson library.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = serverPort
		}
		if cmd.Flags().Changed("allow-all-origins") {
			cfg.Server.AllowAll = serverAllowAll
		}
		if err := cfg.ValidateServer(); err != nil {
			return fmt.Errorf("invalid server config: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, err := createServiceFromConfig(cfg)
		if err != nil {
			return err
		}

		store, closeLib, err := openLibrary(ctx, cfg)
		if err != nil {
			return fmt.Errorf("opening library: %w", err)
		}
		defer func() {
			if err := closeLib(); err != nil {
				appLog.Error("closing library", "error", err)
			}
		}()

		issuer, err := auth.NewIssuer(cfg.Server.JWTSecret, time.Duration(cfg.Server.TokenTTLHours)*time.Hour)
		if err != nil {
			return fmt.Errorf("creating token issuer: %w", err)
		}

		srv := server.New(server.Config{
			Port:     cfg.Server.Port,
			AllowAll: cfg.Server.AllowAll,
		}, server.Deps{
			Generation: svc,
			Library:    store,
			Issuer:     issuer,
			Log:        appLog,
		})

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				appLog.Error("shutdown", "error", err)
			}
		}()

		fmt.Fprintf(os.Stderr, "clilstudio server %s starting on port %d\n", Version, cfg.Server.Port)
		fmt.Fprintf(os.Stderr, "  Provider: %s (%s)\n", cfg.Provider, cfg.Model)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", cfg.DatabasePath())
		if cfg.MaxCostUSD > 0 {
			fmt.Fprintf(os.Stderr, "  Budget:   $%.2f\n", cfg.MaxCostUSD)
		}

		return srv.Start()
	},
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 0, "port to listen on (overrides server.port)")
	serverCmd.Flags().BoolVar(&serverAllowAll, "allow-all-origins", false, "allow CORS requests from any origin")
	rootCmd.AddCommand(serverCmd)
}
