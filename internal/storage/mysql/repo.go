package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"review_insights/internal/domain"
)

func valJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

// Repo records analysis runs. The DSN must set parseTime=true.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// Open connects and pings, so a bad DSN fails at startup.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func (r *Repo) SaveRun(ctx context.Context, run domain.AnalysisRun) error {
	kws := run.Keywords
	if kws == nil {
		kws = []string{}
	}
	b, err := json.Marshal(kws)
	if err != nil {
		return err
	}
	created := run.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err = r.db.ExecContext(ctx, insertRunSQL,
		run.AppID,
		run.TotalReviews,
		run.AverageRating,
		run.MedianRating,
		run.Sentiment.Positive,
		run.Sentiment.Negative,
		run.Sentiment.Neutral,
		valJSON(b),
		created,
	)
	if err != nil {
		return fmt.Errorf("insert analysis run: %w", err)
	}
	return nil
}

func (r *Repo) ListRuns(ctx context.Context, appID string, limit int) ([]domain.AnalysisRun, error) {
	rows, err := r.db.QueryContext(ctx, listRunsSQL, appID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.AnalysisRun{}
	for rows.Next() {
		var (
			run domain.AnalysisRun
			kws []byte
		)
		if err := rows.Scan(
			&run.ID,
			&run.AppID,
			&run.TotalReviews,
			&run.AverageRating,
			&run.MedianRating,
			&run.Sentiment.Positive,
			&run.Sentiment.Negative,
			&run.Sentiment.Neutral,
			&kws,
			&run.CreatedAt,
		); err != nil {
			return nil, err
		}
		run.Keywords = []string{}
		if len(kws) > 0 {
			if err := json.Unmarshal(kws, &run.Keywords); err != nil {
				return nil, fmt.Errorf("decode keywords of run %d: %w", run.ID, err)
			}
		}
		out = append(out, run)
	}
	return out, rows.Err()
}
