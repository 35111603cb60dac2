package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"

	"seminary/internal/domain"
)

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Repo persists guest reviews fetched from the Places API.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// Open connects with the DSN and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return db, nil
}

func (r *Repo) UpsertReviews(ctx context.Context, placeID string, rs []domain.Review) error {
	if len(rs) == 0 {
		return nil
	}
	values := make([]string, 0, len(rs))
	args := make([]any, 0, len(rs)*8) // 8 params per row
	for _, rv := range rs {
		author := rv.Author
		if author == "" {
			author = "Anonyme"
		}
		values = append(values, "(?,?,?,?,?,?,?,?)")
		args = append(args,
			placeID,                    // place_id
			author,                     // author
			valStr(rv.ProfilePhotoURL), // profile_photo_url
			rv.Rating,                  // rating
			valStr(rv.Text),            // text
			valStr(rv.RelativeTime),    // relative_time
			rv.Time,                    // review_time
			valStr(rv.Lang),            // lang
		)
	}
	q := insertReviewsPrefix + strings.Join(values, ",") + insertReviewsOnDup
	_, err := r.db.ExecContext(ctx, q, args...)
	return err
}

func (r *Repo) ListReviews(ctx context.Context, placeID string, limit int) ([]domain.Review, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := r.db.QueryContext(ctx, listReviewsSQL, placeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Review{}
	for rows.Next() {
		var (
			rv                     domain.Review
			photo, text, rel, lang sql.NullString
		)
		if err := rows.Scan(&rv.PlaceID, &rv.Author, &photo, &rv.Rating, &text, &rel, &rv.Time, &lang); err != nil {
			return nil, err
		}
		rv.ProfilePhotoURL = photo.String
		rv.Text = text.String
		rv.RelativeTime = rel.String
		rv.Lang = lang.String
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *Repo) LogMiss(ctx context.Context, placeID string, status int, reason string) error {
	_, err := r.db.ExecContext(ctx, insertMissSQL, placeID, status, reason)
	return err
}
