package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinic-suite/clinic-backend/internal/domain/entity"
	"github.com/clinic-suite/clinic-backend/internal/domain/repository"
)

const uniqueViolation = "23505"

const doctorColumns = `id::text, email, password, username, fname, lname, department, image_url, address, created_at, updated_at`

type DoctorRepository struct {
	pool *pgxpool.Pool
}

func NewDoctorRepository(pool *pgxpool.Pool) *DoctorRepository {
	return &DoctorRepository{pool: pool}
}

func scanDoctor(row pgx.Row) (*entity.Doctor, error) {
	d := &entity.Doctor{}
	if err := row.Scan(&d.ID, &d.Email, &d.Password, &d.Username, &d.FName, &d.LName,
		&d.Department, &d.ImageURL, &d.Address, &d.CreatedAt, &d.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func mapWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return repository.ErrDuplicate
	}
	return err
}

// validID reports whether id can address a row; anything else is treated as absent.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (r *DoctorRepository) Create(ctx context.Context, d *entity.Doctor) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO doctors (email, password, username, fname, lname, department, image_url, address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id::text, created_at, updated_at
	`, d.Email, d.Password, d.Username, d.FName, d.LName, d.Department, d.ImageURL, d.Address)

	return mapWriteErr(row.Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt))
}

func (r *DoctorRepository) GetByID(ctx context.Context, id string) (*entity.Doctor, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	return scanDoctor(r.pool.QueryRow(ctx, `SELECT `+doctorColumns+` FROM doctors WHERE id = $1`, id))
}

func (r *DoctorRepository) GetByEmail(ctx context.Context, email string) (*entity.Doctor, error) {
	return scanDoctor(r.pool.QueryRow(ctx, `SELECT `+doctorColumns+` FROM doctors WHERE email = $1`, email))
}

func (r *DoctorRepository) List(ctx context.Context, f repository.DoctorFilter) ([]entity.Doctor, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if f.Department != "" {
		rows, err = r.pool.Query(ctx, `SELECT `+doctorColumns+` FROM doctors WHERE department = $1 ORDER BY created_at, id`, f.Department)
	} else {
		rows, err = r.pool.Query(ctx, `SELECT `+doctorColumns+` FROM doctors ORDER BY created_at, id`)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.Doctor, 0)
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func (r *DoctorRepository) Update(ctx context.Context, id string, p repository.DoctorPatch) (*entity.Doctor, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `
		UPDATE doctors
		SET email      = COALESCE($2, email),
		    password   = COALESCE($3, password),
		    username   = COALESCE($4, username),
		    fname      = COALESCE($5, fname),
		    lname      = COALESCE($6, lname),
		    department = COALESCE($7, department),
		    image_url  = COALESCE($8, image_url),
		    address    = $9,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+doctorColumns,
		id, p.Email, p.Password, p.Username, p.FName, p.LName, p.Department, p.ImageURL, p.Address)

	d, err := scanDoctor(row)
	if err != nil {
		return nil, mapWriteErr(err)
	}
	return d, nil
}

func (r *DoctorRepository) Delete(ctx context.Context, id string) (*entity.Doctor, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	return scanDoctor(r.pool.QueryRow(ctx, `DELETE FROM doctors WHERE id = $1 RETURNING `+doctorColumns, id))
}

var _ repository.DoctorRepository = (*DoctorRepository)(nil)
