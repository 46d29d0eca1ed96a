package booking

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opd/opd/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type bookingRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &bookingRepoPG{pool: pool}
}

func (r *bookingRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

// Attach inserts the pivot row and relies on the unique (patient_id,
// visit_id) index to reject a concurrent duplicate, rather than checking
// existence first.
func (r *bookingRepoPG) Attach(ctx context.Context, rec *Record) error {
	rec.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patient_visits (id, patient_id, visit_id, booking_date, description,
			advice_transcription, status, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at, updated_at`,
		rec.ID, rec.PatientID, rec.VisitID, rec.Date, rec.Description,
		rec.AdviceTranscription, rec.Status, rec.CreatedBy).
		Scan(&rec.CreatedAt, &rec.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrAlreadyBooked
	}
	return err
}

func (r *bookingRepoPG) ListForVisit(ctx context.Context, visitID uuid.UUID) ([]*PatientBooking, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT p.id, p.hospital_id, p.name, p.gender, p.dob, p.address, p.city, p.district,
			p.state, p.pin_code, p.phone, p.created_at, p.updated_at,
			pv.id, pv.patient_id, pv.visit_id, pv.booking_date, pv.description,
			pv.advice_transcription, pv.status, pv.created_by, pv.created_at, pv.updated_at
		FROM patient_visits pv
		JOIN patients p ON p.id = pv.patient_id
		WHERE pv.visit_id = $1
		ORDER BY pv.created_at DESC, pv.id DESC`, visitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*PatientBooking
	for rows.Next() {
		var pb PatientBooking
		if err := rows.Scan(
			&pb.Patient.ID, &pb.Patient.HospitalID, &pb.Patient.Name, &pb.Patient.Gender,
			&pb.Patient.DOB, &pb.Patient.Address, &pb.Patient.City, &pb.Patient.District,
			&pb.Patient.State, &pb.Patient.PinCode, &pb.Patient.Phone,
			&pb.Patient.CreatedAt, &pb.Patient.UpdatedAt,
			&pb.Booking.ID, &pb.Booking.PatientID, &pb.Booking.VisitID, &pb.Booking.Date,
			&pb.Booking.Description, &pb.Booking.AdviceTranscription, &pb.Booking.Status,
			&pb.Booking.CreatedBy, &pb.Booking.CreatedAt, &pb.Booking.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &pb)
	}
	return out, rows.Err()
}
