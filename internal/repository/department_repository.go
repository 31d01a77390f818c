package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/incident-service/internal/domain"
)

// DepartmentRepository manages department persistence.
type DepartmentRepository interface {
	Create(ctx context.Context, dept *domain.Department) error
	Update(ctx context.Context, dept *domain.Department) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Department, error)
	List(ctx context.Context) ([]domain.Department, error)
	CountByResponsible(ctx context.Context, employeeID int64) (int64, error)
}

type departmentRepository struct {
	pool *pgxpool.Pool
}

// NewDepartmentRepository builds the repository.
func NewDepartmentRepository(pool *pgxpool.Pool) DepartmentRepository {
	return &departmentRepository{pool: pool}
}

func (r *departmentRepository) Create(ctx context.Context, dept *domain.Department) error {
	const query = `
        INSERT INTO departments (name, floor, responsible_employee_id)
        VALUES ($1,$2,$3)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		dept.Name,
		dept.Floor,
		dept.ResponsibleEmployeeID,
	).Scan(&dept.ID)
}

func (r *departmentRepository) Update(ctx context.Context, dept *domain.Department) error {
	const query = `
        UPDATE departments SET name=$1, floor=$2, responsible_employee_id=$3
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		dept.Name,
		dept.Floor,
		dept.ResponsibleEmployeeID,
		dept.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *departmentRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM departments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// GetByID embeds the responsible employee when present.
func (r *departmentRepository) GetByID(ctx context.Context, id int64) (*domain.Department, error) {
	const query = `
        SELECT d.id, d.name, d.floor, d.responsible_employee_id,
               e.id, e.name, e.surname, e.telegram_id
        FROM departments d
        LEFT JOIN employees e ON e.id = d.responsible_employee_id
        WHERE d.id=$1`
	var dept domain.Department
	var respID *int64
	var respName, respSurname, respTelegram *string
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&dept.ID,
		&dept.Name,
		&dept.Floor,
		&dept.ResponsibleEmployeeID,
		&respID,
		&respName,
		&respSurname,
		&respTelegram,
	); err != nil {
		return nil, err
	}
	if respID != nil {
		dept.Responsible = &domain.Employee{
			ID:         *respID,
			Name:       deref(respName),
			Surname:    deref(respSurname),
			TelegramID: respTelegram,
		}
	}
	return &dept, nil
}

// List returns departments ordered by floor.
func (r *departmentRepository) List(ctx context.Context) ([]domain.Department, error) {
	const query = `
        SELECT id, name, floor, responsible_employee_id
        FROM departments ORDER BY floor, name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Department
	for rows.Next() {
		var dept domain.Department
		if err := rows.Scan(&dept.ID, &dept.Name, &dept.Floor, &dept.ResponsibleEmployeeID); err != nil {
			return nil, err
		}
		result = append(result, dept)
	}
	return result, rows.Err()
}

func (r *departmentRepository) CountByResponsible(ctx context.Context, employeeID int64) (int64, error) {
	const query = `SELECT COUNT(*) FROM departments WHERE responsible_employee_id=$1`
	var count int64
	if err := r.pool.QueryRow(ctx, query, employeeID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
