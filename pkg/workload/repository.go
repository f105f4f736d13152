package workload

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// GetWeeksForYear returns the stored rows for the given user and year.
	// Weeks the user never touched have no row and are simply absent.
	GetWeeksForYear(ctx context.Context, userId int, year int) ([]WeekRecord, error)
	// UpsertWeek stores the full state of one week, inserting the row on
	// first write and overwriting it on subsequent ones.
	UpsertWeek(ctx context.Context, userId int, year int, record WeekRecord) error
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) GetWeeksForYear(ctx context.Context, userId int, year int) ([]WeekRecord, error) {
	query := `SELECT week_number, status, notes
			  FROM workload_weeks
			  WHERE user_id = $1 AND year = $2
			  ORDER BY week_number`
	rows, err := r.db.Query(ctx, query, userId, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []WeekRecord
	for rows.Next() {
		var record WeekRecord
		var notes sql.NullString
		if err := rows.Scan(&record.WeekNumber, &record.Status, &notes); err != nil {
			return nil, err
		}
		if notes.Valid {
			record.Notes = notes.String
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *RepositoryImpl) UpsertWeek(ctx context.Context, userId int, year int, record WeekRecord) error {
	query := `INSERT INTO workload_weeks (user_id, year, week_number, status, notes)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (user_id, year, week_number)
			  DO UPDATE SET status = EXCLUDED.status, notes = EXCLUDED.notes`
	_, err := r.db.Exec(ctx, query, userId, year, record.WeekNumber, string(record.Status), record.Notes)
	return err
}
