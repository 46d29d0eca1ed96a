package visit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opd/opd/internal/domain/department"
	"github.com/opd/opd/internal/platform/apierrors"
	"github.com/opd/opd/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type visitRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &visitRepoPG{pool: pool}
}

func (r *visitRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const visitCols = `id, department_id, visit_date, hospital_name, slot_number, status, created_at, updated_at`

func scanVisit(row pgx.Row) (*Visit, error) {
	var v Visit
	err := row.Scan(&v.ID, &v.DepartmentID, &v.Date, &v.HospitalName, &v.SlotNumber, &v.Status,
		&v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apierrors.NotFound("visit")
	}
	return &v, err
}

func (r *visitRepoPG) Create(ctx context.Context, v *Visit) error {
	v.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO visits (id, department_id, visit_date, hospital_name, slot_number, status)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at, updated_at`,
		v.ID, v.DepartmentID, v.Date, v.HospitalName, v.SlotNumber, v.Status).
		Scan(&v.CreatedAt, &v.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return apierrors.NotFound("department")
	}
	return err
}

func (r *visitRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Visit, error) {
	v, err := scanVisit(r.conn(ctx).QueryRow(ctx,
		`SELECT `+visitCols+` FROM visits WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.hydrate(ctx, []*Visit{v}); err != nil {
		return nil, err
	}
	return v, nil
}

func (r *visitRepoPG) Update(ctx context.Context, v *Visit) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE visits SET department_id=$2, visit_date=$3, hospital_name=$4,
			slot_number=$5, status=$6, updated_at=NOW()
		WHERE id = $1`,
		v.ID, v.DepartmentID, v.Date, v.HospitalName, v.SlotNumber, v.Status)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return apierrors.NotFound("department")
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apierrors.NotFound("visit")
	}
	return nil
}

func (r *visitRepoPG) List(ctx context.Context, limit, offset int) ([]*Visit, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM visits`).Scan(&total); err != nil {
		return nil, 0, err
	}
	visits, err := r.queryVisits(ctx,
		`SELECT `+visitCols+` FROM visits ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return visits, total, nil
}

// ListOpenFuture orders by creation recency, not by visit date; the intake
// screens show the most recently scheduled first.
func (r *visitRepoPG) ListOpenFuture(ctx context.Context, asOf time.Time) ([]*Visit, error) {
	return r.queryVisits(ctx,
		`SELECT `+visitCols+` FROM visits
		 WHERE status = $1 AND visit_date >= $2
		 ORDER BY created_at DESC, id DESC`,
		StatusOpen, asOf)
}

func (r *visitRepoPG) ListToday(ctx context.Context, day time.Time) ([]*Visit, error) {
	return r.queryVisits(ctx,
		`SELECT `+visitCols+` FROM visits
		 WHERE visit_date = $1
		 ORDER BY created_at DESC, id DESC`,
		day)
}

func (r *visitRepoPG) queryVisits(ctx context.Context, query string, args ...interface{}) ([]*Visit, error) {
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Visit
	for rows.Next() {
		var v Visit
		if err := rows.Scan(&v.ID, &v.DepartmentID, &v.Date, &v.HospitalName, &v.SlotNumber, &v.Status,
			&v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.hydrate(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *visitRepoPG) departmentDays(ctx context.Context, deptID uuid.UUID) ([]string, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT day FROM department_visit_days WHERE department_id = $1`, deptID)
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

// hydrate fills the nested department and attached-patient projections.
func (r *visitRepoPG) hydrate(ctx context.Context, visits []*Visit) error {
	for _, v := range visits {
		var d department.Department
		err := r.conn(ctx).QueryRow(ctx,
			`SELECT id, name, max_patients, created_at, updated_at FROM departments WHERE id = $1`,
			v.DepartmentID).
			Scan(&d.ID, &d.Name, &d.MaxPatients, &d.CreatedAt, &d.UpdatedAt)
		if err == nil {
			if d.Days, err = r.departmentDays(ctx, d.ID); err != nil {
				return err
			}
			v.Department = &d
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		rows, err := r.conn(ctx).Query(ctx, `
			SELECT p.id, p.hospital_id, p.name, p.phone, pv.status
			FROM patient_visits pv
			JOIN patients p ON p.id = pv.patient_id
			WHERE pv.visit_id = $1
			ORDER BY pv.created_at DESC, pv.id DESC`, v.ID)
		if err != nil {
			return err
		}
		for rows.Next() {
			var ap AttachedPatient
			if err := rows.Scan(&ap.ID, &ap.HospitalID, &ap.Name, &ap.Phone, &ap.BookingStatus); err != nil {
				rows.Close()
				return err
			}
			v.Patients = append(v.Patients, ap)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
	}
	return nil
}
