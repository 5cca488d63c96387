package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AppName is used for the per-user configuration directory and env prefix.
const AppName = "weather"

var once sync.Once
var logger *zap.SugaredLogger
var loggerOnce sync.Once

// isTestRun returns true if the current process is a Go test binary.
func isTestRun() bool {
	return flag.Lookup("test.v") != nil || filepath.Ext(os.Args[0]) == ".test"
}

func setDefaults() {
	viper.SetDefault("openweathermap.api_url", "https://api.openweathermap.org/data/2.5/weather")
	viper.SetDefault("openweathermap.units", "metric")
	viper.SetDefault("openweathermap.lang", "en")
	viper.SetDefault("openweathermap.timeout", "10s")
	viper.SetDefault("openweathermap.rate_limiter.rate", 1)
	viper.SetDefault("openweathermap.rate_limiter.burst", 5)
	viper.SetDefault("cache.backend", "file")
	viper.SetDefault("cache.path", "")
	viper.SetDefault("cache.compress", false)
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.key", "weather:cache")
	viper.SetDefault("format.lang", "en")
	viper.SetDefault("watch.interval", "1m")
}

func initConfig() {
	once.Do(func() {
		setDefaults()
		viper.SetEnvPrefix(AppName)
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		root, err := getProjectRoot()
		if err != nil {
			// Installed binaries run outside the source tree; defaults apply.
			GetLogger().Debugw("No project root found, using defaults", "error", err)
			return
		}
		viper.SetConfigType("yaml")

		viper.SetConfigName("config")
		viper.AddConfigPath(root)
		if err = viper.ReadInConfig(); err != nil {
			GetLogger().Warnw("Error reading config file", "error", err)
		}

		if isTestRun() {
			viper.SetConfigName("config_test")
			viper.AddConfigPath(root)
			if err = viper.MergeInConfig(); err != nil {
				GetLogger().Warnw("Error reading test config file", "error", err)
			}
		}
	})
}

func getProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

func GetOpenWeatherApiUrl() string {
	initConfig()
	return viper.GetString("openweathermap.api_url")
}

func GetOpenWeatherMapAPIKey() string {
	_ = godotenv.Load()
	return os.Getenv("OPENWEATHERMAP_API_KEY")
}

// GetOpenWeatherUnits returns the OpenWeatherMap unit system (metric, imperial or standard).
func GetOpenWeatherUnits() string {
	initConfig()
	return viper.GetString("openweathermap.units")
}

func GetOpenWeatherLang() string {
	initConfig()
	return viper.GetString("openweathermap.lang")
}

// GetProviderTimeout returns the HTTP timeout for provider calls. Defaults to 10s if not set or invalid.
func GetProviderTimeout() time.Duration {
	initConfig()
	dur, err := time.ParseDuration(viper.GetString("openweathermap.timeout"))
	if err != nil || dur <= 0 {
		return 10 * time.Second
	}
	return dur
}

// GetProviderRateLimiterConfig returns the rate and burst applied to outbound provider calls.
func GetProviderRateLimiterConfig() (rate float64, burst int) {
	initConfig()
	rate = viper.GetFloat64("openweathermap.rate_limiter.rate")
	if rate <= 0 {
		rate = 1
	}
	burst = viper.GetInt("openweathermap.rate_limiter.burst")
	if burst <= 0 {
		burst = 5
	}
	return
}

// GetCacheBackend returns where the weather cache is persisted: "file" or "redis".
func GetCacheBackend() string {
	initConfig()
	return strings.ToLower(viper.GetString("cache.backend"))
}

// GetCachePath returns the cache file location. Unless overridden it lives
// in the user's configuration directory.
func GetCachePath() (string, error) {
	initConfig()
	if p := viper.GetString("cache.path"); p != "" {
		return p, nil
	}
	return gap.NewScope(gap.User, AppName).ConfigPath("cache.json")
}

func GetCacheCompress() bool {
	initConfig()
	return viper.GetBool("cache.compress")
}

func GetRedisAddr() string {
	initConfig()
	return viper.GetString("redis.addr")
}

func GetRedisCacheKey() string {
	initConfig()
	return viper.GetString("redis.key")
}

func GetFormatLang() string {
	initConfig()
	return viper.GetString("format.lang")
}

// GetWatchInterval returns how often watch mode refreshes. Defaults to 1m if not set or invalid.
func GetWatchInterval() time.Duration {
	initConfig()
	dur, err := time.ParseDuration(viper.GetString("watch.interval"))
	if err != nil || dur <= 0 {
		return time.Minute
	}
	return dur
}

// ReloadConfigForTest resets the config singleton and reloads Viper config. Use only in tests.
func ReloadConfigForTest() {
	once = sync.Once{}
	initConfig()
}

func GetLogger() *zap.SugaredLogger {
	loggerOnce.Do(func() {
		cfg := zap.NewDevelopmentConfig()
		level := zapcore.InfoLevel
		if v := os.Getenv("WEATHER_LOG_LEVEL"); v != "" {
			if parsed, err := zapcore.ParseLevel(v); err == nil {
				level = parsed
			}
		}
		cfg.Level = zap.NewAtomicLevelAt(level)
		l, err := cfg.Build()
		if err != nil {
			panic(err)
		}
		logger = l.Sugar()
	})
	return logger
}
