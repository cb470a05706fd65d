package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/FlowFeed/feed-client/internal/api"
	"github.com/FlowFeed/feed-client/internal/config"
	"github.com/FlowFeed/feed-client/internal/credstore"
	"github.com/FlowFeed/feed-client/internal/session"
	"github.com/FlowFeed/feed-client/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var ephemeral bool

func main() {
	root := &cobra.Command{
		Use:   "flowfeed",
		Short: "Terminal client for the FlowFeed social feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(deps ui.Deps) error {
				program := tea.NewProgram(ui.NewApp(deps), tea.WithAltScreen())
				_, err := program.Run()
				return err
			})
		},
	}
	root.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "keep the credential in memory only, never on disk")
	root.AddCommand(loginCmd(), logoutCmd(), whoamiCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the credential without opening the UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(deps ui.Deps) error {
				identity, err := deps.Session.Login(cmd.Context(), email, password)
				if err != nil {
					return err
				}
				fmt.Printf("Signed in as @%s\n", identity.Username)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(deps ui.Deps) error {
				deps.Session.Logout()
				fmt.Println("Signed out")
				return nil
			})
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Check whether the stored credential is still valid",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(deps ui.Deps) error {
				identity, err := deps.Session.Reauthenticate(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Printf("@%s (%s)\n", identity.Username, identity.Email)
				return nil
			})
		},
	}
}

// withApp assembles the full dependency graph, runs fn, and tears everything
// down afterwards. Every subcommand goes through it so the wiring exists in
// exactly one place.
func withApp(fn func(deps ui.Deps) error) error {
	loadEnv()

	if err := initConfig(); err != nil {
		return fmt.Errorf("failed to initialize yaml config: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := os.MkdirAll(cfg.StateDir, 0o700); err != nil {
		return fmt.Errorf("failed to create state dir: %w", err)
	}

	logger, err := buildLogger(cfg.StateDir)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	creds, err := openCredStore(cfg)
	if err != nil {
		logger.Sugar().Errorf("failed to open credential store: %s", err.Error())
		return err
	}
	defer creds.Close()

	// The session owns the token and the client reads it at request time, so
	// the two reference each other. The supplier closure breaks the cycle.
	var sess *session.Store
	client := api.New(logger, cfg, func() string {
		if sess == nil {
			return ""
		}
		return sess.Token()
	})
	sess = session.New(logger, client, creds)

	return fn(ui.Deps{
		Logger:  logger,
		Config:  cfg,
		Session: sess,
		API:     client,
	})
}

func openCredStore(cfg *config.Config) (credstore.Store, error) {
	if ephemeral {
		return credstore.NewMemory(), nil
	}
	return credstore.NewBadger(filepath.Join(cfg.StateDir, "credentials"), cfg.CredentialKey)
}

// buildLogger writes to a file instead of stderr; log lines on stderr would
// tear up the terminal UI.
func buildLogger(stateDir string) (*zap.Logger, error) {
	logPath := filepath.Join(stateDir, "flowfeed.log")

	zapConfig := zap.NewProductionConfig()
	zapConfig.OutputPaths = []string{logPath}
	zapConfig.ErrorOutputPaths = []string{logPath}

	return zapConfig.Build()
}

func loadEnv() {
	// A .env file is a developer convenience, not a requirement.
	_ = godotenv.Load()
}

func initConfig() error {
	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")
	viper.SetConfigName("app")

	if err := viper.ReadInConfig(); err != nil {
		// Running without app.yaml is fine; config.Load falls back to
		// defaults for everything but the API origin.
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}

	return nil
}
