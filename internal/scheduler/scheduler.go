package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fakhrymubarak/weather-cache/internal/model"
	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// ErrNoCities is returned by Start when there is nothing to watch.
var ErrNoCities = errors.New("no cities configured")

// Fetcher is satisfied by service.Coordinator.
type Fetcher interface {
	GetWeather(ctx context.Context, city string, useCache bool) *model.WeatherRecord
}

// UpdateFunc receives each refresh result. record is nil when no data was
// available for city.
type UpdateFunc func(city string, record *model.WeatherRecord)

// Scheduler periodically reads the weather for a set of cities through the
// cache, so the provider is hit at most once per TTL per city no matter how
// short the interval is.
type Scheduler struct {
	scheduler *gocron.Scheduler
	fetcher   Fetcher
	cities    []string
	interval  time.Duration
	timeout   time.Duration
	onUpdate  UpdateFunc
	logger    *zap.SugaredLogger
}

// New creates a new Scheduler.
func New(cities []string, interval time.Duration, fetcher Fetcher, onUpdate UpdateFunc, logger *zap.SugaredLogger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		fetcher:   fetcher,
		cities:    cities,
		interval:  interval,
		timeout:   30 * time.Second,
		onUpdate:  onUpdate,
		logger:    logger,
	}
}

// Start schedules the refresh job, runs it immediately and then every interval.
func (s *Scheduler) Start() error {
	if len(s.cities) == 0 {
		return ErrNoCities
	}
	_, err := s.scheduler.Every(s.interval).SingletonMode().Do(func() {
		s.logger.Debugw("Running weather refresh", "cities", len(s.cities))
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.Refresh(ctx)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Refresh reads every city once, concurrently. Cached reads still serialize
// on the shared cache lock.
func (s *Scheduler) Refresh(ctx context.Context) {
	var wg sync.WaitGroup
	results := make([]*model.WeatherRecord, len(s.cities))
	for i, city := range s.cities {
		wg.Add(1)
		go func(i int, city string) {
			defer wg.Done()
			results[i] = s.fetcher.GetWeather(ctx, city, true)
		}(i, city)
	}
	wg.Wait()

	// Report in configuration order.
	for i, city := range s.cities {
		if results[i] == nil {
			s.logger.Warnw("No weather data", "city", city)
		}
		if s.onUpdate != nil {
			s.onUpdate(city, results[i])
		}
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
