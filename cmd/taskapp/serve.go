package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/taskapp/api/handler"
	"github.com/fastygo/taskapp/internal/infrastructure/monitor"
	"github.com/fastygo/taskapp/internal/middleware"
	"github.com/fastygo/taskapp/internal/router"
	"github.com/fastygo/taskapp/internal/services/lifecycle"
	"github.com/fastygo/taskapp/pkg/httpcontext"
	authUC "github.com/fastygo/taskapp/usecase/auth"
	taskUC "github.com/fastygo/taskapp/usecase/task"
)

func serveCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the task API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *envFile)
		},
	}
}

func runServe(parent context.Context, envFile string) error {
	cfg, zapLogger, err := bootstrap(envFile)
	if err != nil {
		return err
	}
	defer zapLogger.Sync()

	if err := cfg.ValidateServe(); err != nil {
		return err
	}

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	appCtx, cancel := manager.NotifyContext(parent)
	defer cancel()

	st, err := openStores(cfg.Storage, zapLogger)
	if err != nil {
		return err
	}
	manager.RegisterCloser("storage", st)

	mon := monitor.New(st.probes, cfg.Monitor.Interval, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	authUseCase := authUC.New(st.users, authUC.TokenConfig{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
		TTL:    cfg.JWT.TTL,
	}, zapLogger)
	taskUseCase := taskUC.New(st.tasks, st.users, st.logs, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:   apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		Task:   apiHandler.NewTaskHandler(taskUseCase, authUseCase, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, cfg.JWT.Issuer, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:            r.Handler,
		ReadTimeout:        cfg.HTTP.ReadTimeout,
		WriteTimeout:       cfg.HTTP.WriteTimeout,
		IdleTimeout:        cfg.HTTP.IdleTimeout,
		Concurrency:        cfg.HTTP.MaxConn,
		Name:               cfg.AppName,
		MaxRequestBodySize: 64 * 1024,
	}

	zapLogger.Info("server started", zap.String("address", cfg.Address()))
	return manager.Run(appCtx, "http_server", func() error {
		return server.ListenAndServe(cfg.Address())
	}, server.ShutdownWithContext)
}
