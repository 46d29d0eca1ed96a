package department

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opd/opd/internal/platform/apierrors"
	"github.com/opd/opd/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type departmentRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &departmentRepoPG{pool: pool}
}

func (r *departmentRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const departmentCols = `id, name, max_patients, created_at, updated_at`

func (r *departmentRepoPG) scanRow(row pgx.Row) (*Department, error) {
	var d Department
	err := row.Scan(&d.ID, &d.Name, &d.MaxPatients, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apierrors.NotFound("department")
	}
	return &d, err
}

func (r *departmentRepoPG) Create(ctx context.Context, d *Department) error {
	d.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO departments (id, name, max_patients)
		VALUES ($1,$2,$3)
		RETURNING created_at, updated_at`,
		d.ID, d.Name, d.MaxPatients).Scan(&d.CreatedAt, &d.UpdatedAt)
	if isUniqueViolation(err) {
		return apierrors.Duplicate("name")
	}
	return err
}

func (r *departmentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Department, error) {
	d, err := r.scanRow(r.conn(ctx).QueryRow(ctx,
		`SELECT `+departmentCols+` FROM departments WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if d.Days, err = r.Days(ctx, id); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *departmentRepoPG) Update(ctx context.Context, d *Department) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE departments SET name=$2, max_patients=$3, updated_at=NOW()
		WHERE id = $1`,
		d.ID, d.Name, d.MaxPatients)
	if isUniqueViolation(err) {
		return apierrors.Duplicate("name")
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apierrors.NotFound("department")
	}
	return nil
}

func (r *departmentRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23503: visits still reference the department
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apierrors.ErrConflict
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return apierrors.NotFound("department")
	}
	return nil
}

func (r *departmentRepoPG) List(ctx context.Context, name string, limit, offset int) ([]*Department, int, error) {
	where := ``
	args := []interface{}{}
	if name != "" {
		where = ` WHERE name ILIKE '%' || $1 || '%'`
		args = append(args, name)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM departments`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + departmentCols + ` FROM departments` + where +
		` ORDER BY created_at DESC, id DESC` +
		` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.Name, &d.MaxPatients, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for _, d := range out {
		if d.Days, err = r.Days(ctx, d.ID); err != nil {
			return nil, 0, err
		}
	}
	return out, total, nil
}

func (r *departmentRepoPG) Days(ctx context.Context, id uuid.UUID) ([]string, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT day FROM department_visit_days WHERE department_id = $1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []string
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

// ReplaceDays reconciles the stored day rows with days: rows no longer wanted
// are deleted, missing ones inserted, shared ones left untouched.
func (r *departmentRepoPG) ReplaceDays(ctx context.Context, id uuid.UUID, days []string) error {
	current, err := r.Days(ctx, id)
	if err != nil {
		return err
	}
	want := make(map[string]bool, len(days))
	for _, d := range days {
		want[d] = true
	}
	have := make(map[string]bool, len(current))
	for _, d := range current {
		have[d] = true
	}

	for _, d := range current {
		if !want[d] {
			if _, err := r.conn(ctx).Exec(ctx,
				`DELETE FROM department_visit_days WHERE department_id = $1 AND day = $2`, id, d); err != nil {
				return err
			}
		}
	}
	for _, d := range days {
		if !have[d] {
			if _, err := r.conn(ctx).Exec(ctx, `
				INSERT INTO department_visit_days (id, department_id, day)
				VALUES ($1,$2,$3)`, uuid.New(), id, d); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *departmentRepoPG) AllDays(ctx context.Context) ([]string, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT DISTINCT day FROM department_visit_days`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []string
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

func (r *departmentRepoPG) HasVisits(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM visits WHERE department_id = $1)`, id).Scan(&exists)
	return exists, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
