package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"labtrack/internal/pg"
	"labtrack/internal/schema"
	"labtrack/internal/server"
)

var (
	servePort string
	serveSeed string
	serveDB   string
	serveKey  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the reference API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		// флаги поверх конфига
		if servePort != "" {
			cfg.Port = servePort
		}
		if serveSeed != "" {
			cfg.SeedDir = serveSeed
		}
		if serveDB != "" {
			cfg.DBURL = serveDB
		}
		if serveKey != "" {
			cfg.FunctionKey = serveKey
		}

		reg := schema.Default()
		store := server.NewStore(reg)

		if st, err := os.Stat(cfg.SeedDir); err == nil && st.IsDir() {
			n, err := server.LoadSeed(store, reg, cfg.SeedDir)
			if err != nil {
				return err
			}
			logger.Info("seed loaded", zap.String("dir", cfg.SeedDir), zap.Int("records", n))
		} else {
			logger.Info("no seed directory, starting empty", zap.String("dir", cfg.SeedDir))
		}

		// опциональное зеркало в Postgres
		if cfg.DBURL != "" {
			db, err := pg.Open(cfg.DBURL)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := pg.ApplyDDL(db, pg.GenerateDDL(reg), logger); err != nil {
				return err
			}
			if err := pg.MirrorAll(context.Background(), db, reg, store.Snapshot); err != nil {
				return err
			}
			logger.Info("postgres mirror ready")
		}

		logger.Info("listening", zap.String("port", cfg.Port))
		return server.RunServer(":"+cfg.Port, store, reg, cfg.FunctionKey)
	},
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "HTTP port")
	serveCmd.Flags().StringVar(&serveSeed, "seed", "", "seed directory")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "Postgres URL for the mirror (empty = in-memory only)")
	serveCmd.Flags().StringVar(&serveKey, "function-key", "", "static function key (empty = no auth)")
	rootCmd.AddCommand(serveCmd)
}
