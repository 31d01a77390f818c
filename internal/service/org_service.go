package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/incident-service/internal/auth"
	"github.com/spec-kit/incident-service/internal/config"
	"github.com/spec-kit/incident-service/internal/domain"
	"github.com/spec-kit/incident-service/internal/repository"
	apperrors "github.com/spec-kit/incident-service/pkg/util/errorutil"
)

// OrgService manages employees, departments, roles and statuses.
type OrgService struct {
	employees   repository.EmployeeRepository
	departments repository.DepartmentRepository
	roles       repository.RoleRepository
	statuses    repository.StatusRepository
	issues      repository.IssueRepository
	bcryptCost  int
}

// OrgDependencies encapsulates repositories required for org management.
type OrgDependencies struct {
	EmployeeRepo   repository.EmployeeRepository
	DepartmentRepo repository.DepartmentRepository
	RoleRepo       repository.RoleRepository
	StatusRepo     repository.StatusRepository
	IssueRepo      repository.IssueRepository
}

// EmployeeInput carries admin-provided employee fields.
type EmployeeInput struct {
	Name        string
	Surname     string
	RoleID      int64
	PhoneNumber *string
	TelegramID  *string
	Login       string
	Password    string
}

// DepartmentInput carries admin-provided department fields.
type DepartmentInput struct {
	Name                  string
	Floor                 int
	ResponsibleEmployeeID int64
}

// NewOrgService constructs the service.
func NewOrgService(cfg config.Config, deps OrgDependencies) *OrgService {
	return &OrgService{
		employees:   deps.EmployeeRepo,
		departments: deps.DepartmentRepo,
		roles:       deps.RoleRepo,
		statuses:    deps.StatusRepo,
		issues:      deps.IssueRepo,
		bcryptCost:  cfg.Auth.BcryptCost,
	}
}

// CreateEmployee creates an employee account with a hashed password.
func (s *OrgService) CreateEmployee(ctx context.Context, actor *domain.Employee, input EmployeeInput) (*domain.Employee, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if fields := validateEmployeeInput(input, true); len(fields) > 0 {
		return nil, apperrors.NewValidationError(fields)
	}
	if _, err := s.roles.GetByID(ctx, input.RoleID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewValidationError(map[string]any{"role_id": "role does not exist"})
		}
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	employee := &domain.Employee{
		Name:         input.Name,
		Surname:      input.Surname,
		RoleID:       input.RoleID,
		PhoneNumber:  input.PhoneNumber,
		TelegramID:   input.TelegramID,
		Login:        input.Login,
		PasswordHash: hash,
	}
	if err := s.employees.Create(ctx, employee); err != nil {
		return nil, apperrors.MapError(err)
	}
	return employee, nil
}

// UpdateEmployee mutates profile fields and role. Password changes only when
// a new one is provided.
func (s *OrgService) UpdateEmployee(ctx context.Context, actor *domain.Employee, id int64, input EmployeeInput) (*domain.Employee, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if fields := validateEmployeeInput(input, false); len(fields) > 0 {
		return nil, apperrors.NewValidationError(fields)
	}

	employee, err := s.employees.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("employee")
		}
		return nil, apperrors.MapError(err)
	}
	if _, err := s.roles.GetByID(ctx, input.RoleID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewValidationError(map[string]any{"role_id": "role does not exist"})
		}
		return nil, apperrors.MapError(err)
	}

	employee.Name = input.Name
	employee.Surname = input.Surname
	employee.RoleID = input.RoleID
	employee.PhoneNumber = input.PhoneNumber
	employee.TelegramID = input.TelegramID
	employee.Login = input.Login
	if input.Password != "" {
		hash, err := auth.HashPassword(input.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		employee.PasswordHash = hash
	}
	if err := s.employees.Update(ctx, employee); err != nil {
		return nil, apperrors.MapError(err)
	}
	return employee, nil
}

// DeleteEmployee refuses to delete an employee who is still responsible for
// a department. The guard runs at the application layer before the store is
// touched, not only as a foreign-key constraint.
func (s *OrgService) DeleteEmployee(ctx context.Context, actor *domain.Employee, id int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	count, err := s.departments.CountByResponsible(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if count > 0 {
		return apperrors.NewConflict("employee is responsible for departments", map[string]any{
			"department_count": count,
		})
	}
	if err := s.employees.Delete(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("employee")
		}
		return apperrors.MapError(err)
	}
	return nil
}

// GetEmployee returns one employee.
func (s *OrgService) GetEmployee(ctx context.Context, actor *domain.Employee, id int64) (*domain.Employee, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	employee, err := s.employees.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("employee")
		}
		return nil, apperrors.MapError(err)
	}
	return employee, nil
}

// ListEmployees returns all employees.
func (s *OrgService) ListEmployees(ctx context.Context, actor *domain.Employee) ([]domain.Employee, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	employees, err := s.employees.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return employees, nil
}

// CreateDepartment creates a department after validating floor bounds and the
// responsible employee reference.
func (s *OrgService) CreateDepartment(ctx context.Context, actor *domain.Employee, input DepartmentInput) (*domain.Department, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if fields, err := s.validateDepartmentInput(ctx, input); err != nil {
		return nil, err
	} else if len(fields) > 0 {
		return nil, apperrors.NewValidationError(fields)
	}

	dept := &domain.Department{
		Name:                  input.Name,
		Floor:                 input.Floor,
		ResponsibleEmployeeID: input.ResponsibleEmployeeID,
	}
	if err := s.departments.Create(ctx, dept); err != nil {
		return nil, apperrors.MapError(err)
	}
	return dept, nil
}

// UpdateDepartment modifies department fields.
func (s *OrgService) UpdateDepartment(ctx context.Context, actor *domain.Employee, id int64, input DepartmentInput) (*domain.Department, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if fields, err := s.validateDepartmentInput(ctx, input); err != nil {
		return nil, err
	} else if len(fields) > 0 {
		return nil, apperrors.NewValidationError(fields)
	}

	dept, err := s.departments.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("department")
		}
		return nil, apperrors.MapError(err)
	}
	dept.Name = input.Name
	dept.Floor = input.Floor
	dept.ResponsibleEmployeeID = input.ResponsibleEmployeeID
	if err := s.departments.Update(ctx, dept); err != nil {
		return nil, apperrors.MapError(err)
	}
	return dept, nil
}

// DeleteDepartment refuses to delete a department that still has issues.
func (s *OrgService) DeleteDepartment(ctx context.Context, actor *domain.Employee, id int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	count, err := s.issues.CountByDepartment(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if count > 0 {
		return apperrors.NewConflict("department has registered issues", map[string]any{
			"issue_count": count,
		})
	}
	if err := s.departments.Delete(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("department")
		}
		return apperrors.MapError(err)
	}
	return nil
}

// GetDepartment returns one department with its responsible employee. Public:
// the reporting front uses it to render the submission form.
func (s *OrgService) GetDepartment(ctx context.Context, id int64) (*domain.Department, error) {
	dept, err := s.departments.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("department")
		}
		return nil, apperrors.MapError(err)
	}
	return dept, nil
}

// ListDepartments returns departments ordered by floor. Public.
func (s *OrgService) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	departments, err := s.departments.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return departments, nil
}

// ListRoles returns the seeded role set.
func (s *OrgService) ListRoles(ctx context.Context, actor *domain.Employee) ([]domain.Role, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return roles, nil
}

// ListStatuses returns the status reference set. Public.
func (s *OrgService) ListStatuses(ctx context.Context) ([]domain.Status, error) {
	statuses, err := s.statuses.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return statuses, nil
}

// CreateStatus adds a status to the reference set.
func (s *OrgService) CreateStatus(ctx context.Context, actor *domain.Employee, name string) (*domain.Status, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError(map[string]any{"name": "required"})
	}
	status := &domain.Status{Name: name}
	if err := s.statuses.Create(ctx, status); err != nil {
		return nil, apperrors.MapError(err)
	}
	return status, nil
}

// UpdateStatus renames a status.
func (s *OrgService) UpdateStatus(ctx context.Context, actor *domain.Employee, id int64, name string) (*domain.Status, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError(map[string]any{"name": "required"})
	}
	status := &domain.Status{ID: id, Name: name}
	if err := s.statuses.Update(ctx, status); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("status")
		}
		return nil, apperrors.MapError(err)
	}
	return status, nil
}

// DeleteStatus removes a status. The default status is protected.
func (s *OrgService) DeleteStatus(ctx context.Context, actor *domain.Employee, id int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if id == domain.DefaultStatusID {
		return apperrors.NewConflict("default status cannot be deleted", nil)
	}
	if err := s.statuses.Delete(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("status")
		}
		return apperrors.MapError(err)
	}
	return nil
}

func validateEmployeeInput(input EmployeeInput, requirePassword bool) map[string]any {
	fields := map[string]any{}
	if strings.TrimSpace(input.Name) == "" {
		fields["name"] = "required"
	}
	if strings.TrimSpace(input.Surname) == "" {
		fields["surname"] = "required"
	}
	if strings.TrimSpace(input.Login) == "" {
		fields["login"] = "required"
	}
	if input.RoleID <= 0 {
		fields["role_id"] = "must be a positive integer"
	}
	if requirePassword && input.Password == "" {
		fields["password"] = "required"
	}
	return fields
}

func (s *OrgService) validateDepartmentInput(ctx context.Context, input DepartmentInput) (map[string]any, error) {
	fields := map[string]any{}
	if strings.TrimSpace(input.Name) == "" {
		fields["name"] = "required"
	}
	if input.Floor < domain.MinFloor || input.Floor > domain.MaxFloor {
		fields["floor"] = "must be between 1 and 3"
	}
	if input.ResponsibleEmployeeID <= 0 {
		fields["responsible_employee_id"] = "must be a positive integer"
	} else if _, err := s.employees.GetByID(ctx, input.ResponsibleEmployeeID); err != nil {
		if err == pgx.ErrNoRows {
			fields["responsible_employee_id"] = "employee does not exist"
		} else {
			return nil, apperrors.MapError(err)
		}
	}
	return fields, nil
}
