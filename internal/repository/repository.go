package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/ANIKETSHETTY47/sensor-readings-api/internal/domain"
)

// rows per multi-value INSERT, well below the bind parameter limits of
// both Postgres and SQLite
const batchSize = 500

const pgUniqueViolation = "23505"

type Repos struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Repos { return &Repos{db: db} }

func (r *Repos) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repos) InsertReading(ctx context.Context, rd *domain.Reading) error {
	q := r.db.Rebind(`INSERT INTO sensor_data (equipment_id, timestamp, value) VALUES (?, ?, ?) RETURNING id`)
	err := r.db.QueryRowxContext(ctx, q, rd.EquipmentID, rd.Timestamp.UTC(), rd.Value).Scan(&rd.ID)
	if err != nil {
		return fmt.Errorf("insert reading: %w", err)
	}
	return nil
}

// InsertReadings stores all readings in one transaction: either every row
// becomes visible or none does.
func (r *Repos) InsertReadings(ctx context.Context, readings []domain.Reading) (err error) {
	if len(readings) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bulk insert: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	rows := make([]domain.Reading, len(readings))
	for i, rd := range readings {
		rows[i] = rd
		rows[i].Timestamp = rd.Timestamp.UTC()
	}

	for i := 0; i < len(rows); i += batchSize {
		end := min(i+batchSize, len(rows))
		_, err = tx.NamedExecContext(ctx,
			`INSERT INTO sensor_data (equipment_id, timestamp, value) VALUES (:equipment_id, :timestamp, :value)`,
			rows[i:end])
		if err != nil {
			return fmt.Errorf("bulk insert rows %d-%d: %w", i+1, end, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit bulk insert: %w", err)
	}
	return nil
}

// AverageByEquipment returns the mean value per equipment id for readings
// with start <= timestamp <= end. Equipment without readings is absent.
func (r *Repos) AverageByEquipment(ctx context.Context, start, end time.Time) ([]domain.EquipmentAverage, error) {
	out := []domain.EquipmentAverage{}
	q := r.db.Rebind(`SELECT equipment_id, AVG(value) AS avg_value
		FROM sensor_data
		WHERE timestamp BETWEEN ? AND ?
		GROUP BY equipment_id
		ORDER BY equipment_id`)
	if err := r.db.SelectContext(ctx, &out, q, start.UTC(), end.UTC()); err != nil {
		return nil, fmt.Errorf("average readings: %w", err)
	}
	return out, nil
}

// CountReadings and CountAccounts back the health endpoint.
func (r *Repos) CountReadings(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM sensor_data`)
	return n, err
}

// CreateAccount inserts a, filling ID. A taken username yields
// domain.ErrDuplicateUsername and leaves the table untouched.
func (r *Repos) CreateAccount(ctx context.Context, a *domain.Account) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create account: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var taken int
	if err = tx.GetContext(ctx, &taken, tx.Rebind(`SELECT COUNT(*) FROM accounts WHERE username = ?`), a.Username); err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if taken > 0 {
		return domain.ErrDuplicateUsername
	}

	q := tx.Rebind(`INSERT INTO accounts
		(username, email, password_hash, is_staff, is_superuser, is_active, date_joined)
		VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`)
	err = tx.QueryRowxContext(ctx, q,
		a.Username, a.Email, a.PasswordHash, a.IsStaff, a.IsSuperuser, a.IsActive, a.DateJoined.UTC(),
	).Scan(&a.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateUsername
		}
		return fmt.Errorf("insert account: %w", err)
	}

	if err = tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateUsername
		}
		return fmt.Errorf("commit account: %w", err)
	}
	return nil
}

func (r *Repos) AccountByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.account(ctx, `SELECT * FROM accounts WHERE username = ?`, username)
}

func (r *Repos) account(ctx context.Context, query string, arg any) (*domain.Account, error) {
	var a domain.Account
	if err := r.db.GetContext(ctx, &a, r.db.Rebind(query), arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("load account: %w", err)
	}
	return &a, nil
}

func (r *Repos) CountAccounts(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM accounts`)
	return n, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
