package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/jieqi-converter/internal/models"
	appErrors "github.com/noah-isme/jieqi-converter/pkg/errors"
)

const (
	MinTermYear = 1
	MaxTermYear = 9998
)

// RemoteTermSource fetches a full term table for a solar year.
type RemoteTermSource interface {
	Name() string
	FetchTerms(ctx context.Context, year int) ([]models.SolarTerm, error)
}

// SolarTermService provides the 24 term instants of a year, preferring the remote source
// and falling back to the local table when it fails.
type SolarTermService struct {
	remote   RemoteTermSource
	cache    *CacheService
	cacheTTL time.Duration
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewSolarTermService constructs the provider. remote and cache may be nil.
func NewSolarTermService(remote RemoteTermSource, cache *CacheService, cacheTTL time.Duration, metrics *MetricsService, logger *zap.Logger) *SolarTermService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SolarTermService{remote: remote, cache: cache, cacheTTL: cacheTTL, metrics: metrics, logger: logger}
}

// ValidateYear ensures the year can be anchored without overflowing four-digit dates.
func ValidateYear(year int) error {
	if year < MinTermYear || year > MaxTermYear {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("year must be between %d and %d", MinTermYear, MaxTermYear))
	}
	return nil
}

// Terms returns the term set for year. Remote failures are never returned.
func (s *SolarTermService) Terms(ctx context.Context, year int) (models.TermSet, error) {
	if err := ValidateYear(year); err != nil {
		return models.TermSet{}, err
	}

	if set, ok := s.remoteTerms(ctx, year); ok {
		s.metrics.RecordTermSet(set.Source)
		return set, nil
	}

	set := LocalSolarTerms(year)
	s.metrics.RecordTermSet(set.Source)
	return set, nil
}

const (
	remoteCachePattern = "solar_terms:remote:*"
	remoteSourceKey    = "solar_terms:remote:source"
)

func remoteCacheKey(year int) string {
	return fmt.Sprintf("solar_terms:remote:%d", year)
}

// SyncCache drops cached remote term sets fetched from a source other than the configured one.
// Without a remote source every cached set is dropped.
func (s *SolarTermService) SyncCache(ctx context.Context) error {
	if !s.cache.Enabled() {
		return nil
	}

	current := ""
	if s.remote != nil {
		current = s.remote.Name()
	}

	var previous string
	hit, err := s.cache.Get(ctx, remoteSourceKey, &previous)
	if err != nil {
		return err
	}
	if hit && previous == current {
		return nil
	}

	if err := s.cache.Invalidate(ctx, remoteCachePattern); err != nil {
		return err
	}
	s.logger.Info("remote solar term cache flushed", zap.String("previous", previous), zap.String("current", current))
	if current == "" {
		return nil
	}
	return s.cache.Set(ctx, remoteSourceKey, current, s.cacheTTL)
}

func (s *SolarTermService) remoteTerms(ctx context.Context, year int) (models.TermSet, bool) {
	if s.remote == nil {
		return models.TermSet{}, false
	}

	set, err := s.fetchRemote(ctx, year)
	if err != nil {
		s.logger.Warn("remote solar terms unavailable, using local table",
			zap.String("source", s.remote.Name()),
			zap.Int("year", year),
			zap.Error(err),
		)
		return models.TermSet{}, false
	}
	return set, true
}

// Prefetch loads the remote term set for year into the cache. Unlike Terms it reports remote failures.
func (s *SolarTermService) Prefetch(ctx context.Context, year int) error {
	if err := ValidateYear(year); err != nil {
		return err
	}
	if s.remote == nil {
		return appErrors.Clone(appErrors.ErrRemoteUnavailable, "no remote solar term source configured")
	}
	_, err := s.fetchRemote(ctx, year)
	return err
}

func (s *SolarTermService) fetchRemote(ctx context.Context, year int) (models.TermSet, error) {
	key := remoteCacheKey(year)
	var cached models.TermSet
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit && len(cached.Terms) == models.TermCount {
		return cached, nil
	}

	start := time.Now()
	terms, err := s.remote.FetchTerms(ctx, year)
	s.metrics.ObserveRemoteFetch(err == nil, time.Since(start))
	if err != nil {
		return models.TermSet{}, err
	}

	set := models.TermSet{Year: year, Source: models.TermSourceRemote, Terms: terms}
	if err := s.cache.Set(ctx, key, set, s.cacheTTL); err != nil {
		s.logger.Debug("remote solar terms not cached", zap.Int("year", year), zap.Error(err))
	}
	return set, nil
}
