package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"slimearena/server"
)

// SlimeArena 入口：启动 HTTP + WebSocket 服务，并初始化房间管理器
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var (
		cfgPath string
		addr    string
		webDir  string
	)
	flag.StringVar(&cfgPath, "config", "", "path to YAML config file (hot reloaded)")
	flag.StringVar(&addr, "addr", "", "server listen address, overrides config, e.g. :8080")
	flag.StringVar(&webDir, "web", "web", "static web client directory, empty to disable")
	flag.Parse()

	cfg, err := server.LoadConfig(cfgPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Addr = addr
	}
	// 使用第三方 zap 日志库写入日志文件（带滚动）
	if err := server.InitLogger(cfg.Log); err != nil {
		return err
	}
	defer server.SyncLogger()

	rm := server.GetRoomManager()
	if err := rm.Configure(cfg); err != nil {
		return err
	}
	defer rm.Close()
	// 先预创建一个默认房间，便于快速试跑
	_ = rm.GetOrCreateRoom("room-1")

	var cw *server.ConfigWatcher
	if cfgPath != "" {
		if cw, err = server.NewConfigWatcher(cfgPath, rm.Configure); err != nil {
			return err
		}
	}

	srv := &http.Server{Addr: cfg.Addr, Handler: server.NewMux(rm, webDir)}

	// 优雅退出（Ctrl+C）
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		server.Log.Infof("SlimeArena listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	if cw != nil {
		g.Go(func() error { return cw.Run(ctx) })
	}
	g.Go(func() error {
		<-ctx.Done()
		server.Log.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
