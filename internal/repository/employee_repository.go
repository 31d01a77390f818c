package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/incident-service/internal/domain"
)

// EmployeeRepository handles persistence for employees.
// Reads join the roles table so domain.Employee.RoleName is always populated.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *domain.Employee) error
	Update(ctx context.Context, employee *domain.Employee) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
	GetByLogin(ctx context.Context, login string) (*domain.Employee, error)
	List(ctx context.Context) ([]domain.Employee, error)
}

type employeeRepository struct {
	pool *pgxpool.Pool
}

// NewEmployeeRepository instantiates the repository.
func NewEmployeeRepository(pool *pgxpool.Pool) EmployeeRepository {
	return &employeeRepository{pool: pool}
}

func (r *employeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	const query = `
        INSERT INTO employees (name, surname, role_id, phone_number, telegram_id, login, password_hash)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		employee.Name,
		employee.Surname,
		employee.RoleID,
		employee.PhoneNumber,
		employee.TelegramID,
		employee.Login,
		employee.PasswordHash,
	).Scan(&employee.ID)
}

func (r *employeeRepository) Update(ctx context.Context, employee *domain.Employee) error {
	const query = `
        UPDATE employees
        SET name=$1, surname=$2, role_id=$3, phone_number=$4, telegram_id=$5, login=$6, password_hash=$7
        WHERE id=$8`
	cmd, err := r.pool.Exec(ctx, query,
		employee.Name,
		employee.Surname,
		employee.RoleID,
		employee.PhoneNumber,
		employee.TelegramID,
		employee.Login,
		employee.PasswordHash,
		employee.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *employeeRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM employees WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const employeeSelect = `
        SELECT e.id, e.name, e.surname, e.role_id, r.name, e.phone_number, e.telegram_id, e.login, e.password_hash
        FROM employees e
        JOIN roles r ON r.id = e.role_id`

func (r *employeeRepository) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	return r.fetchSingle(ctx, employeeSelect+` WHERE e.id=$1`, id)
}

func (r *employeeRepository) GetByLogin(ctx context.Context, login string) (*domain.Employee, error) {
	return r.fetchSingle(ctx, employeeSelect+` WHERE e.login=$1`, login)
}

func (r *employeeRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Employee, error) {
	var employee domain.Employee
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&employee.ID,
		&employee.Name,
		&employee.Surname,
		&employee.RoleID,
		&employee.RoleName,
		&employee.PhoneNumber,
		&employee.TelegramID,
		&employee.Login,
		&employee.PasswordHash,
	); err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	rows, err := r.pool.Query(ctx, employeeSelect+` ORDER BY e.surname, e.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Employee
	for rows.Next() {
		var employee domain.Employee
		if err := rows.Scan(
			&employee.ID,
			&employee.Name,
			&employee.Surname,
			&employee.RoleID,
			&employee.RoleName,
			&employee.PhoneNumber,
			&employee.TelegramID,
			&employee.Login,
			&employee.PasswordHash,
		); err != nil {
			return nil, err
		}
		result = append(result, employee)
	}
	return result, rows.Err()
}
