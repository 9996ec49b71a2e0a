package main

import (
	"context"
	"errors"
	"lexirank/internal/application"
	"lexirank/internal/config"
	"lexirank/internal/domain/model"
	"lexirank/internal/domain/repository"
	"lexirank/internal/infrastructure/persistence"
	"lexirank/internal/interfaces/http"
	"log"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting application...")
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	log.Printf("Config loaded, index=%s storage=%v", cfg.Index.ID, cfg.Storage.Enabled)

	// 初始化存储库
	idx, repo, err := newRepository(cfg)
	if err != nil {
		log.Fatalf("failed to create repository: %v", err)
	}
	stats := idx.Stats()
	log.Printf("Repository created, %d strings (%d distinct) restored.", stats.Total, stats.Distinct)

	// 初始化应用服务
	indexService, err := application.NewIndexService(idx, repo, cfg.Index.MaxWordLength)
	if err != nil {
		log.Fatalf("failed to create index service: %v", err)
	}
	log.Println("Index service created.")

	// 初始化 HTTP 处理器
	handler := http.NewHandler(indexService)

	// 初始化 Gin 引擎并注册路由
	router := gin.Default()
	handler.RegisterRoutes(router)
	log.Println("Routes registered.")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Storage.Enabled {
		go indexService.RunSnapshotLoop(ctx, cfg.Storage.SnapshotInterval)
	}

	srv := &nethttp.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Printf("Starting server on %s...", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			log.Fatalf("failed to run server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	if err := indexService.Close(); err != nil {
		log.Printf("index service close: %v", err)
	}
	log.Println("Server stopped.")
}

func newRepository(cfg *config.Config) (*model.Index, repository.IndexRepository, error) {
	if cfg.Storage.Enabled {
		return persistence.NewIndexRepository(cfg.Storage.DataDir, cfg.Index.ID, cfg.Index.Name)
	}
	repo := persistence.NewMemoryRepository()
	idx, err := repo.Load(cfg.Index.ID, cfg.Index.Name)
	if err != nil {
		return nil, nil, err
	}
	return idx, repo, nil
}
