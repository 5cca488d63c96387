package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fakhrymubarak/weather-cache/internal/cache"
	"github.com/fakhrymubarak/weather-cache/internal/config"
	"github.com/fakhrymubarak/weather-cache/internal/format"
	"github.com/fakhrymubarak/weather-cache/internal/model"
	"github.com/fakhrymubarak/weather-cache/internal/provider"
	"github.com/fakhrymubarak/weather-cache/internal/redis"
	"github.com/fakhrymubarak/weather-cache/internal/scheduler"
	"github.com/fakhrymubarak/weather-cache/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	errNoData         = errors.New("no weather data")
	errUnknownBackend = errors.New("unknown cache backend")
)

// application is the wiring shared by every command: one cache, loaded once,
// and the coordinator serving it.
type application struct {
	cache       *cache.WeatherCache
	coordinator *service.Coordinator
	location    string
	logger      *zap.SugaredLogger
}

func newApplication(ctx context.Context) (*application, error) {
	logger := config.GetLogger()

	store, location, err := newStore()
	if err != nil {
		return nil, err
	}
	weatherCache := cache.New(store, logger)
	weatherCache.Load(ctx)

	rate, burst := config.GetProviderRateLimiterConfig()
	owm := provider.NewOpenWeatherMap(provider.Settings{
		APIURL: config.GetOpenWeatherApiUrl(),
		APIKey: config.GetOpenWeatherMapAPIKey(),
		Units:  config.GetOpenWeatherUnits(),
		Lang:   config.GetOpenWeatherLang(),
		Rate:   rate,
		Burst:  burst,
	}, &http.Client{Timeout: config.GetProviderTimeout()})

	return &application{
		cache:       weatherCache,
		coordinator: service.NewCoordinator(owm, weatherCache, service.WithLogger(logger)),
		location:    location,
		logger:      logger,
	}, nil
}

func newStore() (cache.Store, string, error) {
	switch backend := config.GetCacheBackend(); backend {
	case "redis":
		key := config.GetRedisCacheKey()
		return redis.NewStore(redis.GetClient(), key), fmt.Sprintf("redis://%s/%s", config.GetRedisAddr(), key), nil
	case "file", "":
		path, err := config.GetCachePath()
		if err != nil {
			return nil, "", fmt.Errorf("failed to resolve cache path: %w", err)
		}
		var opts []cache.FileStoreOption
		if config.GetCacheCompress() {
			opts = append(opts, cache.WithCompression())
		}
		store, err := cache.NewFileStore(path, opts...)
		if err != nil {
			return nil, "", err
		}
		return store, path, nil
	default:
		return nil, "", fmt.Errorf("%w: %q", errUnknownBackend, backend)
	}
}

func printRecord(w io.Writer, f *format.Formatter, city string, record *model.WeatherRecord) {
	if record == nil {
		fmt.Fprintf(w, "%s: no data\n", city)
		return
	}
	fmt.Fprintln(w, city)
	for _, line := range f.Lines(record) {
		fmt.Fprintf(w, "  %s\n", line)
	}
}

const rootLong = `Show the current weather for one or more cities, cached for five minutes.

A city named like a subcommand ("cache", "watch") must follow "--":

  weather -- cache`

func newRootCmd() *cobra.Command {
	var (
		noCache bool
		lang    string
	)

	rootCmd := &cobra.Command{
		Use:           "weather <city>...",
		Short:         "Show the current weather, cached for five minutes",
		Long:          rootLong,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := newApplication(ctx)
			if err != nil {
				return err
			}
			f := format.New(lang)

			missing := 0
			for _, city := range args {
				record := app.coordinator.GetWeather(ctx, city, !noCache)
				if record == nil {
					missing++
				}
				printRecord(cmd.OutOrStdout(), f, city, record)
			}
			if missing > 0 {
				return fmt.Errorf("%w for %d of %d cities", errNoData, missing, len(args))
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVarP(&lang, "lang", "l", config.GetFormatLang(), "language for labels and units (en, ro)")
	rootCmd.Flags().BoolVar(&noCache, "no-cache", false, "always ask the provider and leave the cache alone")

	rootCmd.AddCommand(newWatchCmd(&lang), newCacheCmd())
	return rootCmd
}

func newWatchCmd(lang *string) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch <city>...",
		Short: "Print the weather for the given cities periodically",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := newApplication(ctx)
			if err != nil {
				return err
			}
			f := format.New(*lang)
			out := cmd.OutOrStdout()

			sched := scheduler.New(args, interval, app.coordinator, func(city string, record *model.WeatherRecord) {
				printRecord(out, f, city, record)
			}, app.logger)
			if err := sched.Start(); err != nil {
				return err
			}
			defer sched.Stop()

			<-ctx.Done()
			return nil
		},
	}
	cmd.Flags().DurationVarP(&interval, "interval", "i", config.GetWatchInterval(), "refresh interval")
	return cmd
}

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "List cached weather entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApplication(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			keys := app.cache.Keys()
			if len(keys) == 0 {
				fmt.Fprintln(out, "cache is empty")
				return nil
			}
			for _, key := range keys {
				record, ok := app.cache.Get(key)
				if !ok {
					continue
				}
				state := "fresh"
				if record.Age(time.Now()) > service.TTL {
					state = "stale"
				}
				fmt.Fprintf(out, "%s\t%s\t%s\n", key, humanize.Time(record.Timestamp), state)
			}
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print where the cache is persisted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, location, err := newStore()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), location)
			return nil
		},
	})
	return cmd
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
