package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "qscore-workers/internal/common/errors"
	"qscore-workers/internal/qscore"
)

// CohortMode selects which history rows form the percentile cohort.
type CohortMode string

const (
	CohortAll           CohortMode = "all"
	CohortLatestPerUser CohortMode = "latest_per_user"
)

const selectColumns = `
	id, user_id, overall_score, percentile, grade,
	market_score, product_score, gtm_score, financial_score, team_score, traction_score,
	data_source, source_artifact_type, previous_score_id, calculated_at`

// Repository reads and appends qscore_history rows. Rows are never updated.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CohortScores returns overall scores of every other user for percentile ranking.
func (r *Repository) CohortScores(ctx context.Context, excludeUserID string, mode CohortMode) ([]int, error) {
	query := `
		SELECT overall_score
		FROM qscore_history
		WHERE user_id <> $1`
	if mode == CohortLatestPerUser {
		query = `
		SELECT overall_score FROM (
			SELECT DISTINCT ON (user_id) user_id, overall_score
			FROM qscore_history
			WHERE user_id <> $1
			ORDER BY user_id, calculated_at DESC
		) latest`
	}

	rows, err := r.db.QueryContext(ctx, query, excludeUserID)
	if err != nil {
		return nil, fmt.Errorf("query cohort scores: %w", err)
	}
	defer rows.Close()

	scores := make([]int, 0)
	for rows.Next() {
		var s int
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan cohort score: %w", err)
		}
		scores = append(scores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cohort scores: %w", err)
	}
	return scores, nil
}

// Latest returns the user's most recent row, or ErrHistoryNotFound.
func (r *Repository) Latest(ctx context.Context, userID string) (*Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT`+selectColumns+`
		FROM qscore_history
		WHERE user_id = $1
		ORDER BY calculated_at DESC
		LIMIT 1`, userID)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrHistoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query latest score: %w", err)
	}
	return rec, nil
}

// HasArtifactBoost reports whether the artifact type already boosted this user.
func (r *Repository) HasArtifactBoost(ctx context.Context, userID, artifactType string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM qscore_history
			WHERE user_id = $1 AND source_artifact_type = $2 AND data_source = $3
		)`, userID, artifactType, SourceAgentCompletion).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("query artifact boost: %w", err)
	}
	return exists, nil
}

// Append inserts a new row, assigning an id and timestamp when unset.
func (r *Repository) Append(ctx context.Context, rec *Record) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CalculatedAt.IsZero() {
		rec.CalculatedAt = time.Now().UTC()
	}
	if rec.DataSource == "" {
		rec.DataSource = SourceAssessment
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO qscore_history (`+selectColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		rec.ID, rec.UserID, rec.Overall, nullInt(rec.Percentile), rec.Grade,
		rec.Scores[qscore.Market], rec.Scores[qscore.Product], rec.Scores[qscore.GoToMarket],
		rec.Scores[qscore.Financial], rec.Scores[qscore.Team], rec.Scores[qscore.Traction],
		rec.DataSource, nullString(rec.SourceArtifactType), nullString(rec.PreviousScoreID), rec.CalculatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert score history: %w", err)
	}
	return nil
}

func scanRecord(row *sql.Row) (*Record, error) {
	var (
		rec                           Record
		percentile                    sql.NullInt64
		market, product, gtm          int
		financial, team, traction     int
		artifactType, previousScoreID sql.NullString
	)
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.Overall, &percentile, &rec.Grade,
		&market, &product, &gtm, &financial, &team, &traction,
		&rec.DataSource, &artifactType, &previousScoreID, &rec.CalculatedAt,
	)
	if err != nil {
		return nil, err
	}

	if percentile.Valid {
		p := int(percentile.Int64)
		rec.Percentile = &p
	}
	rec.SourceArtifactType = artifactType.String
	rec.PreviousScoreID = previousScoreID.String
	rec.Scores = map[qscore.Dimension]int{
		qscore.Market:     market,
		qscore.Product:    product,
		qscore.GoToMarket: gtm,
		qscore.Financial:  financial,
		qscore.Team:       team,
		qscore.Traction:   traction,
	}
	return &rec, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
