package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/JoeSaf/sencloud-gui/internal/app"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
}

var (
	port = configVar[int]{
		envKey:       "PLAYER_PORT",
		flagKey:      "port",
		defaultValue: 80,
	}
	host = configVar[string]{
		envKey:       "PLAYER_HOST",
		flagKey:      "host",
		defaultValue: "0.0.0.0",
	}
	logLevel = configVar[string]{
		envKey:       "PLAYER_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
	}
	hideDelay = configVar[float64]{
		envKey:       "PLAYER_HIDE_DELAY_SEC",
		flagKey:      "hide-delay-sec",
		defaultValue: 3,
	}
	autoplayDelay = configVar[float64]{
		envKey:       "PLAYER_AUTOPLAY_DELAY_SEC",
		flagKey:      "autoplay-delay-sec",
		defaultValue: 5,
	}
	directoryURL = configVar[string]{
		envKey:       "DIRECTORY_URL",
		flagKey:      "directory-url",
		defaultValue: "http://localhost:8096/api/v1",
	}
	directoryTimeout = configVar[int]{
		envKey:       "DIRECTORY_TIMEOUT_SEC",
		flagKey:      "directory-timeout-sec",
		defaultValue: 3,
	}
	cacheTTL = configVar[int]{
		envKey:       "DIRECTORY_CACHE_TTL_SEC",
		flagKey:      "cache-ttl-sec",
		defaultValue: 300,
	}
	redisPort = configVar[int]{
		envKey:       "REDIS_PORT",
		flagKey:      "redis-port",
		defaultValue: 6379,
	}
	redisHost = configVar[string]{
		envKey:       "REDIS_HOST",
		flagKey:      "redis-host",
		defaultValue: "localhost",
	}
	redisPassword = configVar[string]{
		envKey:       "REDIS_PASSWORD",
		flagKey:      "redis-password",
		defaultValue: "",
	}
)

func loadAppConfig() *app.AppConfig {
	pflag.Int(port.flagKey, port.defaultValue, "Server port")
	pflag.String(host.flagKey, host.defaultValue, "Server host")
	pflag.String(logLevel.flagKey, logLevel.defaultValue, "Logging level")
	pflag.Float64(hideDelay.flagKey, hideDelay.defaultValue, "Controls auto-hide delay in seconds")
	pflag.Float64(autoplayDelay.flagKey, autoplayDelay.defaultValue, "Autoplay countdown in seconds")
	pflag.String(directoryURL.flagKey, directoryURL.defaultValue, "Episode directory base URL")
	pflag.Int(directoryTimeout.flagKey, directoryTimeout.defaultValue, "Episode directory request timeout in seconds")
	pflag.Int(cacheTTL.flagKey, cacheTTL.defaultValue, "Episode cache TTL in seconds")
	pflag.Int(redisPort.flagKey, redisPort.defaultValue, "Redis port")
	pflag.String(redisHost.flagKey, redisHost.defaultValue, "Redis host")
	pflag.String(redisPassword.flagKey, redisPassword.defaultValue, "Redis password")
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	viper.BindEnv(port.flagKey, port.envKey)
	viper.BindEnv(host.flagKey, host.envKey)
	viper.BindEnv(logLevel.flagKey, logLevel.envKey)
	viper.BindEnv(hideDelay.flagKey, hideDelay.envKey)
	viper.BindEnv(autoplayDelay.flagKey, autoplayDelay.envKey)
	viper.BindEnv(directoryURL.flagKey, directoryURL.envKey)
	viper.BindEnv(directoryTimeout.flagKey, directoryTimeout.envKey)
	viper.BindEnv(cacheTTL.flagKey, cacheTTL.envKey)
	viper.BindEnv(redisPort.flagKey, redisPort.envKey)
	viper.BindEnv(redisHost.flagKey, redisHost.envKey)
	viper.BindEnv(redisPassword.flagKey, redisPassword.envKey)

	viper.SetDefault(port.flagKey, port.defaultValue)
	viper.SetDefault(host.flagKey, host.defaultValue)
	viper.SetDefault(logLevel.flagKey, logLevel.defaultValue)
	viper.SetDefault(hideDelay.flagKey, hideDelay.defaultValue)
	viper.SetDefault(autoplayDelay.flagKey, autoplayDelay.defaultValue)
	viper.SetDefault(directoryURL.flagKey, directoryURL.defaultValue)
	viper.SetDefault(directoryTimeout.flagKey, directoryTimeout.defaultValue)
	viper.SetDefault(cacheTTL.flagKey, cacheTTL.defaultValue)
	viper.SetDefault(redisPort.flagKey, redisPort.defaultValue)
	viper.SetDefault(redisHost.flagKey, redisHost.defaultValue)
	viper.SetDefault(redisPassword.flagKey, redisPassword.defaultValue)

	config := &app.AppConfig{
		Host:                viper.GetString(host.flagKey),
		Port:                viper.GetInt(port.flagKey),
		LogLevel:            viper.GetString(logLevel.flagKey),
		HideDelaySec:        viper.GetFloat64(hideDelay.flagKey),
		AutoplayDelaySec:    viper.GetFloat64(autoplayDelay.flagKey),
		DirectoryURL:        viper.GetString(directoryURL.flagKey),
		DirectoryTimeoutSec: viper.GetInt(directoryTimeout.flagKey),
		CacheTTLSec:         viper.GetInt(cacheTTL.flagKey),
		RedisPort:           viper.GetInt(redisPort.flagKey),
		RedisHost:           viper.GetString(redisHost.flagKey),
		RedisPassword:       viper.GetString(redisPassword.flagKey),
	}

	return config
}

func main() {
	ctx := context.Background()

	appConfig := loadAppConfig()

	if err := appConfig.Validate(); err != nil {
		log.Fatal(err)
	}

	jsonConfig, _ := json.MarshalIndent(appConfig, "", "  ")
	fmt.Printf("starting app with config: %s\n", jsonConfig)

	log.Fatal(app.Run(ctx, appConfig))
}
