// Package percentile ranks an overall score against every other user's
// history. Lookups are bounded by a timeout and always yield a value:
// when the store cannot answer, the neutral 50th percentile is used.
package percentile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "qscore-workers/internal/common/errors"
	"qscore-workers/internal/common/logger"
	"qscore-workers/internal/common/metrics"
	"qscore-workers/internal/history"
)

// Default is returned for an empty cohort and whenever the store fails.
const Default = 50

const cacheKeyPrefix = "qscore:cohort:"

// CohortSource supplies the overall scores to rank against.
type CohortSource interface {
	CohortScores(ctx context.Context, excludeUserID string, mode history.CohortMode) ([]int, error)
}

type Options struct {
	Mode     history.CohortMode
	Timeout  time.Duration
	CacheTTL time.Duration
}

type Service struct {
	source CohortSource
	cache  redis.Cmdable
	opts   Options
	logger logger.Logger
}

// NewService wires a cohort source and an optional Redis cache. A nil cache
// or a zero CacheTTL disables caching.
func NewService(source CohortSource, cache redis.Cmdable, opts Options, log logger.Logger) *Service {
	if opts.Mode == "" {
		opts.Mode = history.CohortAll
	}
	return &Service{
		source: source,
		cache:  cache,
		opts:   opts,
		logger: log,
	}
}

// Rank returns round(100 * below / total), or Default for an empty cohort.
// Only strictly lower scores count as below.
func Rank(score int, cohort []int) int {
	if len(cohort) == 0 {
		return Default
	}
	below := 0
	for _, s := range cohort {
		if s < score {
			below++
		}
	}
	total := len(cohort)
	return (200*below + total) / (2 * total)
}

// Percentile ranks overall against the cohort for userID. The returned int is
// always usable; a non-nil error is a PERCENTILE_UNAVAILABLE StandardError
// meant for logging only.
func (s *Service) Percentile(ctx context.Context, overall int, userID string) (int, error) {
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	cohort, err := s.cohort(ctx, userID)
	if err != nil {
		reason := "store_error"
		if errors.Is(err, context.DeadlineExceeded) {
			reason = "timeout"
		}
		metrics.QScorePercentileFallbacks.WithLabelValues(reason).Inc()
		return Default, apperrors.NewPercentileUnavailableError(err).
			WithMetadata("reason", reason).
			WithMetadata("cohortMode", string(s.opts.Mode))
	}

	if len(cohort) == 0 {
		metrics.QScorePercentileFallbacks.WithLabelValues("empty_cohort").Inc()
		return Default, nil
	}
	return Rank(overall, cohort), nil
}

func (s *Service) cohort(ctx context.Context, userID string) ([]int, error) {
	key := s.cacheKey(userID)

	if s.cacheEnabled() {
		if cached, ok := s.readCache(ctx, key); ok {
			return cached, nil
		}
	}

	cohort, err := s.source.CohortScores(ctx, userID, s.opts.Mode)
	if err != nil {
		return nil, err
	}

	if s.cacheEnabled() {
		s.writeCache(ctx, key, cohort)
	}
	return cohort, nil
}

func (s *Service) cacheEnabled() bool {
	return s.cache != nil && s.opts.CacheTTL > 0
}

func (s *Service) cacheKey(userID string) string {
	return fmt.Sprintf("%s%s:%s", cacheKeyPrefix, s.opts.Mode, userID)
}

func (s *Service) readCache(ctx context.Context, key string) ([]int, bool) {
	data, err := s.cache.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		metrics.QScoreCohortCache.WithLabelValues("miss").Inc()
		return nil, false
	}
	if err != nil {
		metrics.QScoreCohortCache.WithLabelValues("error").Inc()
		s.logger.Warn("cohort cache read failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return nil, false
	}

	var cohort []int
	if err := json.Unmarshal([]byte(data), &cohort); err != nil {
		metrics.QScoreCohortCache.WithLabelValues("error").Inc()
		s.logger.Warn("cohort cache entry is corrupt", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return nil, false
	}

	metrics.QScoreCohortCache.WithLabelValues("hit").Inc()
	return cohort, true
}

func (s *Service) writeCache(ctx context.Context, key string, cohort []int) {
	data, err := json.Marshal(cohort)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(data), s.opts.CacheTTL).Err(); err != nil {
		metrics.QScoreCohortCache.WithLabelValues("error").Inc()
		s.logger.Warn("cohort cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}
