package main

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/FashOJ/LogicJudger/internal/discovery"
	"github.com/FashOJ/LogicJudger/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gRPC judge server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if h := a.health.Check(ctx); h.Up {
		logger.Info("Solver available", zap.String("version", h.Version))
	} else {
		logger.Warn("Solver not available", zap.Error(h.Err), zap.Int("exit_code", h.ExitCode))
	}

	lis, err := net.Listen("tcp", cfg.Server.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	s := grpc.NewServer(grpc.UnaryInterceptor(server.LoggingInterceptor(logger)))
	server.RegisterLogicJudgeServer(s, server.NewJudgeServer(a.judge, a.health, logger))

	if cfg.Metrics.Addr != "" {
		metrics := &http.Server{Addr: cfg.Metrics.Addr, Handler: promhttp.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Metrics server failed", zap.Error(err))
			}
		}()
		defer metrics.Close()
		logger.Info("Metrics listening", zap.String("addr", cfg.Metrics.Addr))
	}

	// 服务注册与发现
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		registry := discovery.NewRegistry(rdb, addr, time.Duration(cfg.Redis.Heartbeat)*time.Second, a.judge, a.health, logger)
		registry.Start()
		defer registry.Stop()
	}

	// 优雅退出
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down server...")
		s.GracefulStop()
	}()

	logger.Info("Server listening", zap.String("addr", lis.Addr().String()))
	if err := s.Serve(lis); err != nil {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}
