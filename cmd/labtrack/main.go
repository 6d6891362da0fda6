package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"labtrack/internal/auth"
	"labtrack/internal/client"
	"labtrack/internal/config"
	"labtrack/internal/schema"
)

var (
	cfgPath string
	verbose bool

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "labtrack",
	Short: "Laboratory sample tracking: dashboard, CLI and reference API",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.FromEnv(cfgPath)

		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "labtrack.json", "path to config JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// login поднимает сессию по конфигу
func login(ctx context.Context) (*auth.Session, error) {
	return auth.Login(ctx, auth.Options{
		Mode:         cfg.AuthMode,
		FunctionKey:  cfg.FunctionKey,
		ClientID:     cfg.OAuthClientID,
		ClientSecret: cfg.OAuthClientSecret,
		TokenURL:     cfg.OAuthTokenURL,
		Scope:        cfg.OAuthScope,
	})
}

// apiClient — клиент API с сессией из конфига
func apiClient(ctx context.Context, reg *schema.Registry) (*client.Client, *auth.Session, error) {
	session, err := login(ctx)
	if err != nil {
		return nil, nil, err
	}
	core := client.NewCore(cfg.APIBaseURL, session, logger)
	return client.New(core, reg), session, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
