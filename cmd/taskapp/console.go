package main

import (
	"errors"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fastygo/taskapp/internal/console"
	authUC "github.com/fastygo/taskapp/usecase/auth"
	taskUC "github.com/fastygo/taskapp/usecase/task"
)

func runConsole(cmd *cobra.Command, envFile string) error {
	cfg, log, err := bootstrap(envFile)
	if err != nil {
		return err
	}
	defer log.Sync()

	st, err := openStores(cfg.Storage, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Error("close storage", zap.Error(err))
		}
	}()

	c := console.New(
		cmd.InOrStdin(),
		cmd.OutOrStdout(),
		authUC.New(st.users, authUC.TokenConfig{}, log),
		taskUC.New(st.tasks, st.users, st.logs, log),
		log,
	)
	if err := c.Run(cmd.Context()); err != nil {
		if errors.Is(err, io.EOF) {
			log.Info("input closed")
			return nil
		}
		return err
	}
	return nil
}
