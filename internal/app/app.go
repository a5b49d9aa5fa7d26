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

	"github.com/JoeSaf/sencloud-gui/internal/controller"
	episodeRedis "github.com/JoeSaf/sencloud-gui/internal/repository/episode/redis"
	episodeRest "github.com/JoeSaf/sencloud-gui/internal/repository/episode/rest"
	"github.com/JoeSaf/sencloud-gui/internal/service/player"
	"github.com/JoeSaf/sencloud-gui/pkg/ctxlogger"
	"github.com/JoeSaf/sencloud-gui/pkg/redisclient"
)

type AppConfig struct {
	Host                string  `json:"host"`
	Port                int     `json:"port"`
	LogLevel            string  `json:"log_level"`
	DirectoryURL        string  `json:"directory_url"`
	DirectoryTimeoutSec int     `json:"directory_timeout_sec"`
	CacheTTLSec         int     `json:"cache_ttl_sec"`
	HideDelaySec        float64 `json:"hide_delay_sec"`
	AutoplayDelaySec    float64 `json:"autoplay_delay_sec"`
	RedisPort           int     `json:"redis_port"`
	RedisHost           string  `json:"redis_host"`
	RedisPassword       string  `json:"-"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("port must be in range 1-65535")
	}
	if cfg.DirectoryURL == "" {
		return fmt.Errorf("directory url must be set")
	}
	if cfg.DirectoryTimeoutSec < 1 {
		return fmt.Errorf("directory timeout must be greater than 0")
	}
	if cfg.CacheTTLSec < 1 {
		return fmt.Errorf("cache ttl must be greater than 0")
	}
	return nil
}

func Run(ctx context.Context, cfg *AppConfig) error {
	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		log.Fatal(err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}),
	}

	logger := slog.New(&h)

	rc, err := redisclient.NewRedisClient(&redisclient.Config{
		Port:     cfg.RedisPort,
		Host:     cfg.RedisHost,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer rc.Close()

	restRepo := episodeRest.NewRepo(cfg.DirectoryURL, time.Duration(cfg.DirectoryTimeoutSec)*time.Second)
	episodeRepo := episodeRedis.NewRepo(rc, restRepo, time.Duration(cfg.CacheTTLSec)*time.Second)

	playerService := player.NewService(episodeRepo, &player.Config{
		HideDelay:     time.Duration(cfg.HideDelaySec * float64(time.Second)),
		AutoplayDelay: time.Duration(cfg.AutoplayDelaySec * float64(time.Second)),
	}, logger)

	controller := controller.NewController(playerService, logger)
	server := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: controller.GetMux()}

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, c := context.WithTimeout(serverCtx, 30*time.Second)
		defer c()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	slog.InfoContext(serverCtx, "starting server", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-serverCtx.Done()

	return nil
}
