package statistics

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/runauth/internal/common"
	"github.com/dmitrijs2005/runauth/internal/dbx"
	"github.com/dmitrijs2005/runauth/internal/server/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, s *models.Statistics) (*models.Statistics, error) {
	weekly, monthly, yearly, err := encodeBuckets(s)
	if err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO statistics (user_id, weekly, monthly, yearly,
		     year_start, total_distance, total_duration, total_count, average_pace)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id
		 `

	t := s.TotalDistance
	err = r.db.QueryRowContext(ctx, query,
		s.UserID, weekly, monthly, yearly,
		t.YearStart, t.Distance, t.Duration, t.Count, t.AveragePace).Scan(&s.ID)
	if err != nil {
		return nil, dbError(err)
	}

	return s, nil
}

func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (*models.Statistics, error) {
	query :=
		`SELECT id, user_id, weekly, monthly, yearly,
		     year_start, total_distance, total_duration, total_count, average_pace
		 FROM statistics
		 WHERE user_id = $1
		 `

	s := &models.Statistics{}
	var weekly, monthly, yearly []byte
	t := &s.TotalDistance
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&s.ID, &s.UserID, &weekly, &monthly, &yearly,
		&t.YearStart, &t.Distance, &t.Duration, &t.Count, &t.AveragePace)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbError(err)
	}

	for _, b := range []struct {
		raw []byte
		dst *[]models.PeriodTotals
	}{{weekly, &s.Weekly}, {monthly, &s.Monthly}, {yearly, &s.Yearly}} {
		if err := json.Unmarshal(b.raw, b.dst); err != nil {
			return nil, fmt.Errorf("decode buckets: %w", err)
		}
	}

	return s, nil
}

func (r *PostgresRepository) CountByUserID(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM statistics WHERE user_id = $1`, userID).Scan(&n)
	if err != nil {
		return 0, dbError(err)
	}
	return n, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM statistics`).Scan(&n); err != nil {
		return 0, dbError(err)
	}
	return n, nil
}

func encodeBuckets(s *models.Statistics) (weekly, monthly, yearly string, err error) {
	enc := func(v []models.PeriodTotals) (string, error) {
		if v == nil {
			v = []models.PeriodTotals{}
		}
		b, err := json.Marshal(v)
		return string(b), err
	}
	if weekly, err = enc(s.Weekly); err != nil {
		return
	}
	if monthly, err = enc(s.Monthly); err != nil {
		return
	}
	yearly, err = enc(s.Yearly)
	return
}

func dbError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return fmt.Errorf("%w: %s", common.ErrorAlreadyExists, pgErr.ConstraintName)
	}
	return fmt.Errorf("db error: %w", err)
}
