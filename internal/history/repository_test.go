package history

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "qscore-workers/internal/common/errors"
	"qscore-workers/internal/qscore"
)

// ==========================
// Test Helper Functions
// ==========================

var calculatedAt = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

var recordColumns = []string{
	"id", "user_id", "overall_score", "percentile", "grade",
	"market_score", "product_score", "gtm_score", "financial_score", "team_score", "traction_score",
	"data_source", "source_artifact_type", "previous_score_id", "calculated_at",
}

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func intPtr(i int) *int { return &i }

// ==========================
// Core Functionality Tests
// ==========================

func TestRepository_CohortScores(t *testing.T) {
	tests := []struct {
		name  string
		mode  CohortMode
		query string
	}{
		{name: "all rows", mode: CohortAll, query: `SELECT overall_score FROM qscore_history WHERE user_id <> \$1`},
		{name: "latest per user", mode: CohortLatestPerUser, query: `SELECT DISTINCT ON \(user_id\) user_id, overall_score`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			mock.ExpectQuery(tt.query).
				WithArgs("user-1").
				WillReturnRows(sqlmock.NewRows([]string{"overall_score"}).AddRow(40).AddRow(72).AddRow(90))

			scores, err := repo.CohortScores(context.Background(), "user-1", tt.mode)

			require.NoError(t, err)
			assert.Equal(t, []int{40, 72, 90}, scores)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_CohortScores_Empty(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery("SELECT overall_score").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"overall_score"}))

	scores, err := repo.CohortScores(context.Background(), "user-1", CohortAll)

	require.NoError(t, err)
	assert.NotNil(t, scores)
	assert.Empty(t, scores)
}

func TestRepository_CohortScores_QueryError(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery("SELECT overall_score").
		WithArgs("user-1").
		WillReturnError(sql.ErrConnDone)

	_, err := repo.CohortScores(context.Background(), "user-1", CohortAll)

	require.Error(t, err)
	assert.True(t, errors.Is(err, sql.ErrConnDone))
}

func TestRepository_Latest(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(`FROM qscore_history WHERE user_id = \$1 ORDER BY calculated_at DESC LIMIT 1`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(recordColumns).AddRow(
			"5f0c6f2e-0000-4000-8000-000000000001", "user-1", 82, 64, "B",
			88, 82, 82, 83, 89, 64,
			"assessment", nil, nil, calculatedAt,
		))

	rec, err := repo.Latest(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, 82, rec.Overall)
	require.NotNil(t, rec.Percentile)
	assert.Equal(t, 64, *rec.Percentile)
	assert.Equal(t, 89, rec.Scores[qscore.Team])
	assert.Empty(t, rec.SourceArtifactType)
	assert.Empty(t, rec.PreviousScoreID)
	assert.Equal(t, calculatedAt, rec.CalculatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Latest_NotFound(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery("FROM qscore_history").
		WithArgs("user-2").
		WillReturnRows(sqlmock.NewRows(recordColumns))

	rec, err := repo.Latest(context.Background(), "user-2")

	assert.Nil(t, rec)
	assert.True(t, errors.Is(err, apperrors.ErrHistoryNotFound))
}

func TestRepository_HasArtifactBoost(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("user-1", "hiring_plan", SourceAgentCompletion).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.HasArtifactBoost(context.Background(), "user-1", "hiring_plan")

	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Append(t *testing.T) {
	repo, mock := newMockRepository(t)
	rec := &Record{
		UserID:     "user-1",
		Overall:    82,
		Percentile: intPtr(64),
		Grade:      "B",
		Scores: map[qscore.Dimension]int{
			qscore.Market: 88, qscore.Product: 82, qscore.GoToMarket: 82,
			qscore.Financial: 83, qscore.Team: 89, qscore.Traction: 64,
		},
	}

	mock.ExpectExec("INSERT INTO qscore_history").
		WithArgs(sqlmock.AnyArg(), "user-1", 82, 64, "B", 88, 82, 82, 83, 89, 64,
			SourceAssessment, nil, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Append(context.Background(), rec)

	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.CalculatedAt.IsZero())
	assert.Equal(t, SourceAssessment, rec.DataSource)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Append_Error(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectExec("INSERT INTO qscore_history").WillReturnError(sql.ErrConnDone)

	err := repo.Append(context.Background(), &Record{ID: "fixed", UserID: "user-1", CalculatedAt: calculatedAt})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert score history")
}

func TestRecord_RoundTripThroughScore(t *testing.T) {
	score := &qscore.PRDQScore{
		Overall:    82,
		Percentile: intPtr(70),
		Grade:      "B",
		Breakdown: map[qscore.Dimension]qscore.DimensionResult{
			qscore.Market:   {Score: 88, Trend: qscore.TrendUp, Change: 8},
			qscore.Traction: {Score: 64},
		},
		CalculatedAt: calculatedAt,
	}

	rec := FromScore("user-1", score)
	assert.Equal(t, SourceAssessment, rec.DataSource)
	assert.Equal(t, 0, rec.Scores[qscore.Team])

	back := rec.ToScore()
	assert.Equal(t, 82, back.Overall)
	assert.Equal(t, 88, back.Breakdown[qscore.Market].Score)
	assert.Equal(t, qscore.TrendNeutral, back.Breakdown[qscore.Market].Trend)
	assert.Equal(t, 0.12, back.Breakdown[qscore.Traction].Weight)
	assert.Len(t, back.Breakdown, len(qscore.Dimensions))
}
