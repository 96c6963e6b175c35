package percentile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "qscore-workers/internal/common/errors"
	"qscore-workers/internal/common/logger"
	"qscore-workers/internal/history"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeSource struct {
	scores []int
	err    error
	block  bool
	calls  int
	mode   history.CohortMode
}

func (f *fakeSource) CohortScores(ctx context.Context, excludeUserID string, mode history.CohortMode) ([]int, error) {
	f.calls++
	f.mode = mode
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.scores, f.err
}

func newMiniredis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

// ==========================
// Core Functionality Tests
// ==========================

func TestRank(t *testing.T) {
	tests := []struct {
		name   string
		score  int
		cohort []int
		want   int
	}{
		{name: "empty cohort", score: 82, cohort: nil, want: Default},
		{name: "two of three below", score: 82, cohort: []int{40, 72, 90}, want: 67},
		{name: "ties are not below", score: 40, cohort: []int{40, 72, 90}, want: 0},
		{name: "top of cohort", score: 100, cohort: []int{40, 72, 90}, want: 100},
		{name: "half up", score: 15, cohort: []int{10, 20, 30, 40, 50, 60, 70, 80}, want: 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Rank(tt.score, tt.cohort))
		})
	}
}

func TestService_Percentile_NoCache(t *testing.T) {
	source := &fakeSource{scores: []int{40, 72, 90}}
	svc := NewService(source, nil, Options{Timeout: time.Second}, logger.NewTestLogger(t))

	p, err := svc.Percentile(context.Background(), 82, "user-1")

	require.NoError(t, err)
	assert.Equal(t, 67, p)
	assert.Equal(t, history.CohortAll, source.mode)
}

func TestService_Percentile_EmptyCohort(t *testing.T) {
	svc := NewService(&fakeSource{}, nil, Options{}, logger.NewTestLogger(t))

	p, err := svc.Percentile(context.Background(), 82, "user-1")

	require.NoError(t, err)
	assert.Equal(t, Default, p)
}

func TestService_Percentile_StoreErrorFailsSoft(t *testing.T) {
	svc := NewService(&fakeSource{err: errors.New("connection refused")}, nil, Options{}, logger.NewTestLogger(t))

	p, err := svc.Percentile(context.Background(), 82, "user-1")

	assert.Equal(t, Default, p)
	require.Error(t, err)
	stdErr, ok := apperrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodePercentileUnavailable, stdErr.Code)
	assert.Equal(t, "store_error", stdErr.Metadata["reason"])
	assert.True(t, errors.Is(err, apperrors.ErrCohortUnavailable))
}

func TestService_Percentile_Timeout(t *testing.T) {
	svc := NewService(&fakeSource{block: true}, nil, Options{Timeout: 20 * time.Millisecond}, logger.NewTestLogger(t))

	p, err := svc.Percentile(context.Background(), 82, "user-1")

	assert.Equal(t, Default, p)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	stdErr, ok := apperrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, "timeout", stdErr.Metadata["reason"])
}

func TestService_Percentile_CachesCohort(t *testing.T) {
	client := newMiniredis(t)
	source := &fakeSource{scores: []int{40, 72, 90}}
	svc := NewService(source, client, Options{Mode: history.CohortLatestPerUser, CacheTTL: time.Minute}, logger.NewTestLogger(t))

	first, err := svc.Percentile(context.Background(), 82, "user-1")
	require.NoError(t, err)
	second, err := svc.Percentile(context.Background(), 95, "user-1")
	require.NoError(t, err)

	assert.Equal(t, 67, first)
	assert.Equal(t, 100, second)
	assert.Equal(t, 1, source.calls)

	cached, err := client.Get(context.Background(), "qscore:cohort:latest_per_user:user-1").Result()
	require.NoError(t, err)
	assert.Equal(t, "[40,72,90]", cached)

	ttl := client.TTL(context.Background(), "qscore:cohort:latest_per_user:user-1").Val()
	assert.Equal(t, time.Minute, ttl)
}

func TestService_Percentile_CorruptCacheEntry(t *testing.T) {
	client := newMiniredis(t)
	require.NoError(t, client.Set(context.Background(), "qscore:cohort:all:user-1", "not json", 0).Err())

	source := &fakeSource{scores: []int{10}}
	svc := NewService(source, client, Options{CacheTTL: time.Minute}, logger.NewTestLogger(t))

	p, err := svc.Percentile(context.Background(), 50, "user-1")

	require.NoError(t, err)
	assert.Equal(t, 100, p)
	assert.Equal(t, 1, source.calls)
}

func TestService_Percentile_CacheErrorFallsThroughToStore(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectGet("qscore:cohort:all:user-1").SetErr(errors.New("redis down"))
	mock.ExpectSet("qscore:cohort:all:user-1", "[40,72,90]", time.Minute).SetErr(errors.New("redis down"))

	source := &fakeSource{scores: []int{40, 72, 90}}
	svc := NewService(source, client, Options{CacheTTL: time.Minute}, logger.NewTestLogger(t))

	p, err := svc.Percentile(context.Background(), 82, "user-1")

	require.NoError(t, err)
	assert.Equal(t, 67, p)
	assert.Equal(t, 1, source.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Percentile_CacheMissPopulates(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectGet("qscore:cohort:all:user-1").RedisNil()
	mock.ExpectSet("qscore:cohort:all:user-1", "[40,72,90]", 30*time.Second).SetVal("OK")

	svc := NewService(&fakeSource{scores: []int{40, 72, 90}}, client, Options{CacheTTL: 30 * time.Second}, logger.NewTestLogger(t))

	p, err := svc.Percentile(context.Background(), 82, "user-1")

	require.NoError(t, err)
	assert.Equal(t, 67, p)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Percentile_ZeroTTLDisablesCache(t *testing.T) {
	client, mock := redismock.NewClientMock()
	source := &fakeSource{scores: []int{40}}
	svc := NewService(source, client, Options{}, logger.NewTestLogger(t))

	_, err := svc.Percentile(context.Background(), 82, "user-1")
	require.NoError(t, err)
	_, err = svc.Percentile(context.Background(), 82, "user-1")
	require.NoError(t, err)

	assert.Equal(t, 2, source.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}
