package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/incident-service/internal/domain"
)

// IssueRepository encapsulates issue persistence.
type IssueRepository interface {
	Create(ctx context.Context, issue *domain.Issue) error
	GetByID(ctx context.Context, id int64) (*domain.Issue, error)
	UpdateStatus(ctx context.Context, id, statusID int64) error
	ListDetailed(ctx context.Context) ([]domain.IssueView, error)
	CountByDepartment(ctx context.Context, departmentID int64) (int64, error)
}

type issueRepository struct {
	pool *pgxpool.Pool
}

// NewIssueRepository instantiates repository.
func NewIssueRepository(pool *pgxpool.Pool) IssueRepository {
	return &issueRepository{pool: pool}
}

// Create inserts a new issue. The database assigns id and created_at.
func (r *issueRepository) Create(ctx context.Context, issue *domain.Issue) error {
	const query = `
        INSERT INTO issues (department_id, status_id, description)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		issue.DepartmentID,
		issue.StatusID,
		issue.Description,
	).Scan(&issue.ID, &issue.CreatedAt)
}

func (r *issueRepository) GetByID(ctx context.Context, id int64) (*domain.Issue, error) {
	const query = `
        SELECT id, department_id, status_id, description, created_at
        FROM issues WHERE id=$1`
	var issue domain.Issue
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&issue.ID,
		&issue.DepartmentID,
		&issue.StatusID,
		&issue.Description,
		&issue.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &issue, nil
}

// UpdateStatus touches only status_id; department and created_at stay immutable.
func (r *issueRepository) UpdateStatus(ctx context.Context, id, statusID int64) error {
	const query = `UPDATE issues SET status_id=$1 WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, statusID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ListDetailed joins department, responsible employee and status,
// most recent issue first.
func (r *issueRepository) ListDetailed(ctx context.Context) ([]domain.IssueView, error) {
	const query = `
        SELECT i.id, i.department_id, i.status_id, i.description, i.created_at,
               d.name, d.floor, d.responsible_employee_id,
               e.id, e.name, e.surname, e.telegram_id,
               s.name
        FROM issues i
        JOIN departments d ON d.id = i.department_id
        JOIN statuses s ON s.id = i.status_id
        LEFT JOIN employees e ON e.id = d.responsible_employee_id
        ORDER BY i.created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.IssueView
	for rows.Next() {
		var view domain.IssueView
		var respID *int64
		var respName, respSurname, respTelegram *string
		if err := rows.Scan(
			&view.ID,
			&view.DepartmentID,
			&view.StatusID,
			&view.Description,
			&view.CreatedAt,
			&view.Department.Name,
			&view.Department.Floor,
			&view.Department.ResponsibleEmployeeID,
			&respID,
			&respName,
			&respSurname,
			&respTelegram,
			&view.Status.Name,
		); err != nil {
			return nil, err
		}
		view.Department.ID = view.DepartmentID
		view.Status.ID = view.StatusID
		if respID != nil {
			view.Department.Responsible = &domain.Employee{
				ID:         *respID,
				Name:       deref(respName),
				Surname:    deref(respSurname),
				TelegramID: respTelegram,
			}
		}
		result = append(result, view)
	}
	return result, rows.Err()
}

func (r *issueRepository) CountByDepartment(ctx context.Context, departmentID int64) (int64, error) {
	const query = `SELECT COUNT(*) FROM issues WHERE department_id=$1`
	var count int64
	if err := r.pool.QueryRow(ctx, query, departmentID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
