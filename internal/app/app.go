package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/watchparty/server/internal/controller"
	conninmemory "github.com/watchparty/server/internal/repository/connection/inmemory"
	roominmemory "github.com/watchparty/server/internal/repository/room/inmemory"
	videoredis "github.com/watchparty/server/internal/repository/videocache/redis"
	"github.com/watchparty/server/internal/repository/wssender"
	"github.com/watchparty/server/internal/service/room"
	"github.com/watchparty/server/internal/service/video"
	"github.com/watchparty/server/pkg/ctxlogger"
	"github.com/watchparty/server/pkg/redisclient"
	"github.com/watchparty/server/pkg/ytmeta"
)

type AppConfig struct {
	Host          string        `json:"host"`
	Port          int           `json:"port"`
	LogLevel      string        `json:"log_level"`
	AuthorityMode string        `json:"authority_mode"`
	DefaultRoomId string        `json:"default_room_id"`
	PlaylistLimit int           `json:"playlist_limit"`
	RedisHost     string        `json:"redis_host"`
	RedisPort     int           `json:"redis_port"`
	RedisPassword string        `json:"-"`
	CacheTTL      time.Duration `json:"cache_ttl"`
}

func (cfg *AppConfig) Validate() error {
	if _, err := room.ParseMode(cfg.AuthorityMode); err != nil {
		return err
	}
	if cfg.PlaylistLimit < 1 {
		return fmt.Errorf("playlist limit must be greater than 0")
	}
	if cfg.DefaultRoomId == "" {
		return fmt.Errorf("default room id must not be empty")
	}
	return nil
}

func Run(ctx context.Context, cfg *AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}),
	}
	logger := slog.New(&h)

	resolver := ytmeta.NewResolver(nil)

	// the metadata cache is optional, an empty redis host disables it
	videoService := video.NewService(resolver, nil, logger)
	if cfg.RedisHost != "" {
		rc, err := redisclient.NewRedisClient(ctx, &redisclient.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
		})
		if err != nil {
			return fmt.Errorf("failed to create redis client: %w", err)
		}
		defer rc.Close()

		videoService = video.NewService(resolver, videoredis.NewRepo(rc, cfg.CacheTTL), logger)
	}

	mode, _ := room.ParseMode(cfg.AuthorityMode)
	sender := wssender.NewRepo()
	roomService := room.NewService(
		roominmemory.NewRepo(),
		conninmemory.NewRepo(),
		sender,
		&room.Config{
			AuthorityMode: mode,
			DefaultRoomId: cfg.DefaultRoomId,
			PlaylistLimit: cfg.PlaylistLimit,
		},
		logger,
	)

	ctrl := controller.NewController(roomService, videoService, sender, logger)
	server := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: ctrl.GetMux()}

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, cancel := context.WithTimeout(serverCtx, 30*time.Second)
		defer cancel()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	logger.InfoContext(serverCtx, "starting server", "address", server.Addr, "authority_mode", cfg.AuthorityMode)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-serverCtx.Done()

	return nil
}
