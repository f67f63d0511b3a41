package cmd

import (
	"github.com/NguyenHai-LETI/Sync-Note/internal/app"
	"github.com/NguyenHai-LETI/Sync-Note/internal/dao"
	"github.com/NguyenHai-LETI/Sync-Note/pkg/fileurl"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	var config string

	migrateCmd := &cobra.Command{
		Use:   "migrate [-c config_file]",
		Short: "Create or update database tables and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := app.LoadConfig(resolveConfigPath(config))
			if err != nil {
				return err
			}
			if err := fileurl.EnsureDirs(0754, dbDirs(cfg)...); err != nil {
				return err
			}

			dbConfig := cfg.GetDatabaseConfig()
			dbConfig.AutoMigrate = true
			dbConfig.Tracing = false

			db, err := dao.NewDBEngineWithConfig(dbConfig, bootstrapLogger)
			if err != nil {
				return err
			}
			if err := dao.New(db, bootstrapLogger).Close(); err != nil {
				return err
			}

			bootstrapLogger.Info("database migrated",
				zap.String("config", path),
				zap.String("type", cfg.Database.Type))
			return nil
		},
	}

	migrateCmd.Flags().StringVarP(&config, "config", "c", "", "config file")
	rootCmd.AddCommand(migrateCmd)
}
