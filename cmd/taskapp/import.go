package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fastygo/taskapp/internal/infrastructure/boltdb"
	"github.com/fastygo/taskapp/internal/services"
	"github.com/fastygo/taskapp/repository/flatfile"
)

func importCmd(envFile *string) *cobra.Command {
	var boltPath string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy the CSV data files into a new bolt database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap(*envFile)
			if err != nil {
				return err
			}
			defer log.Sync()

			if boltPath == "" {
				boltPath = cfg.Storage.BoltPath
			}
			store, err := boltdb.Open(boltPath)
			if err != nil {
				return fmt.Errorf("open bolt database %s: %w", boltPath, err)
			}
			defer store.Close()

			users := flatfile.NewUserRepository(cfg.Storage.UsersFile)
			summary, err := services.NewImporter(store, log).Import(
				cmd.Context(),
				users,
				flatfile.NewTaskRepository(cfg.Storage.TasksFile, users),
				flatfile.NewLogRepository(cfg.Storage.LogsFile),
			)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d users, %d tasks and %d log entries into %s\n",
				summary.Users, summary.Tasks, summary.Logs, boltPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&boltPath, "bolt", "", "Destination database (default BOLT_PATH)")
	return cmd
}
