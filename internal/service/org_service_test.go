package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/incident-service/internal/auth"
	"github.com/spec-kit/incident-service/internal/config"
	"github.com/spec-kit/incident-service/internal/domain"
)

type fakeEmployeeRepo struct {
	employees map[int64]*domain.Employee
}

func newFakeEmployeeRepo(employees ...*domain.Employee) *fakeEmployeeRepo {
	repo := &fakeEmployeeRepo{employees: map[int64]*domain.Employee{}}
	for _, employee := range employees {
		repo.employees[employee.ID] = employee
	}
	return repo
}

func (f *fakeEmployeeRepo) Create(_ context.Context, employee *domain.Employee) error {
	if employee.ID == 0 {
		employee.ID = int64(len(f.employees) + 1)
	}
	f.employees[employee.ID] = employee
	return nil
}

func (f *fakeEmployeeRepo) Update(_ context.Context, employee *domain.Employee) error {
	if _, ok := f.employees[employee.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.employees[employee.ID] = employee
	return nil
}

func (f *fakeEmployeeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.employees[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.employees, id)
	return nil
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id int64) (*domain.Employee, error) {
	employee, ok := f.employees[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return employee, nil
}

func (f *fakeEmployeeRepo) GetByLogin(_ context.Context, login string) (*domain.Employee, error) {
	for _, employee := range f.employees {
		if employee.Login == login {
			return employee, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeEmployeeRepo) List(_ context.Context) ([]domain.Employee, error) {
	result := make([]domain.Employee, 0, len(f.employees))
	for _, employee := range f.employees {
		result = append(result, *employee)
	}
	return result, nil
}

type fakeRoleRepo struct {
	roles map[int64]*domain.Role
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{roles: map[int64]*domain.Role{
		1: {ID: 1, Name: domain.RoleAdmin},
		2: {ID: 2, Name: domain.RoleEmployee},
	}}
}

func (f *fakeRoleRepo) GetByID(_ context.Context, id int64) (*domain.Role, error) {
	role, ok := f.roles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return role, nil
}

func (f *fakeRoleRepo) List(_ context.Context) ([]domain.Role, error) {
	result := make([]domain.Role, 0, len(f.roles))
	for _, role := range f.roles {
		result = append(result, *role)
	}
	return result, nil
}

type orgFixture struct {
	employees   *fakeEmployeeRepo
	departments *fakeDepartmentRepo
	statuses    *fakeStatusRepo
	issues      *fakeIssueRepo
	service     *OrgService
}

func newOrgFixture(employees *fakeEmployeeRepo, departments *fakeDepartmentRepo) *orgFixture {
	statuses := newFakeStatusRepo(&domain.Status{ID: domain.DefaultStatusID, Name: "New"})
	issues := newFakeIssueRepo()
	cfg := config.Config{Auth: config.AuthConfig{BcryptCost: 4}}
	svc := NewOrgService(cfg, OrgDependencies{
		EmployeeRepo:   employees,
		DepartmentRepo: departments,
		RoleRepo:       newFakeRoleRepo(),
		StatusRepo:     statuses,
		IssueRepo:      issues,
	})
	return &orgFixture{
		employees:   employees,
		departments: departments,
		statuses:    statuses,
		issues:      issues,
		service:     svc,
	}
}

func TestCreateEmployeeHashesPassword(t *testing.T) {
	fx := newOrgFixture(newFakeEmployeeRepo(), newFakeDepartmentRepo())

	employee, err := fx.service.CreateEmployee(context.Background(), adminActor(), EmployeeInput{
		Name:     "Dana",
		Surname:  "Smith",
		RoleID:   2,
		Login:    "dsmith",
		Password: "s3cret",
	})
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret", employee.PasswordHash)
	assert.NoError(t, auth.ComparePassword(employee.PasswordHash, "s3cret"))
	assert.Len(t, fx.employees.employees, 1)
}

func TestCreateEmployeeValidatesInput(t *testing.T) {
	fx := newOrgFixture(newFakeEmployeeRepo(), newFakeDepartmentRepo())

	_, err := fx.service.CreateEmployee(context.Background(), adminActor(), EmployeeInput{})
	domainErr := requireDomainError(t, err, "VALIDATION_FAILED")

	assert.Equal(t, "required", domainErr.Details["name"])
	assert.Equal(t, "required", domainErr.Details["surname"])
	assert.Equal(t, "required", domainErr.Details["login"])
	assert.Equal(t, "required", domainErr.Details["password"])
	assert.Empty(t, fx.employees.employees)
}

func TestCreateEmployeeRejectsUnknownRole(t *testing.T) {
	fx := newOrgFixture(newFakeEmployeeRepo(), newFakeDepartmentRepo())

	_, err := fx.service.CreateEmployee(context.Background(), adminActor(), EmployeeInput{
		Name:     "Dana",
		Surname:  "Smith",
		RoleID:   9,
		Login:    "dsmith",
		Password: "s3cret",
	})
	domainErr := requireDomainError(t, err, "VALIDATION_FAILED")
	assert.Equal(t, "role does not exist", domainErr.Details["role_id"])
}

func TestCreateEmployeeRequiresAdmin(t *testing.T) {
	fx := newOrgFixture(newFakeEmployeeRepo(), newFakeDepartmentRepo())

	_, err := fx.service.CreateEmployee(context.Background(), employeeActor(), EmployeeInput{
		Name:     "Dana",
		Surname:  "Smith",
		RoleID:   2,
		Login:    "dsmith",
		Password: "s3cret",
	})
	requireDomainError(t, err, "FORBIDDEN")
}

func TestUpdateEmployeeKeepsPasswordWhenBlank(t *testing.T) {
	existing := &domain.Employee{ID: 5, Name: "Dana", Surname: "Smith", RoleID: 2, Login: "dsmith", PasswordHash: "$stored-hash"}
	fx := newOrgFixture(newFakeEmployeeRepo(existing), newFakeDepartmentRepo())

	updated, err := fx.service.UpdateEmployee(context.Background(), adminActor(), 5, EmployeeInput{
		Name:    "Dana",
		Surname: "Jones",
		RoleID:  1,
		Login:   "dsmith",
	})
	require.NoError(t, err)
	assert.Equal(t, "$stored-hash", updated.PasswordHash)
	assert.Equal(t, "Jones", updated.Surname)
	assert.Equal(t, int64(1), updated.RoleID)
}

func TestDeleteEmployeeBlockedWhileResponsible(t *testing.T) {
	existing := &domain.Employee{ID: 3, Name: "Carol", Surname: "Nguyen", RoleID: 2, Login: "cnguyen"}
	fx := newOrgFixture(newFakeEmployeeRepo(existing), newFakeDepartmentRepo(facilitiesDepartment()))

	err := fx.service.DeleteEmployee(context.Background(), adminActor(), 3)
	domainErr := requireDomainError(t, err, "CONFLICT")

	assert.Equal(t, int64(1), domainErr.Details["department_count"])
	assert.Contains(t, fx.employees.employees, int64(3))
}

func TestDeleteEmployeeWithoutDepartments(t *testing.T) {
	existing := &domain.Employee{ID: 9, Name: "Eve", Surname: "Brown", RoleID: 2, Login: "ebrown"}
	fx := newOrgFixture(newFakeEmployeeRepo(existing), newFakeDepartmentRepo())

	require.NoError(t, fx.service.DeleteEmployee(context.Background(), adminActor(), 9))
	assert.Empty(t, fx.employees.employees)
}

func TestCreateDepartmentValidatesFields(t *testing.T) {
	fx := newOrgFixture(newFakeEmployeeRepo(), newFakeDepartmentRepo())

	_, err := fx.service.CreateDepartment(context.Background(), adminActor(), DepartmentInput{
		Name:                  "  ",
		Floor:                 5,
		ResponsibleEmployeeID: 42,
	})
	domainErr := requireDomainError(t, err, "VALIDATION_FAILED")

	assert.Equal(t, "required", domainErr.Details["name"])
	assert.Equal(t, "must be between 1 and 3", domainErr.Details["floor"])
	assert.Equal(t, "employee does not exist", domainErr.Details["responsible_employee_id"])
}

func TestCreateDepartment(t *testing.T) {
	responsible := &domain.Employee{ID: 3, Name: "Carol", Surname: "Nguyen", RoleID: 2, Login: "cnguyen"}
	fx := newOrgFixture(newFakeEmployeeRepo(responsible), newFakeDepartmentRepo())

	dept, err := fx.service.CreateDepartment(context.Background(), adminActor(), DepartmentInput{
		Name:                  "Security",
		Floor:                 1,
		ResponsibleEmployeeID: 3,
	})
	require.NoError(t, err)
	assert.NotZero(t, dept.ID)
	assert.Equal(t, "Security", dept.Name)
}

func TestDeleteDepartmentBlockedWhileIssuesExist(t *testing.T) {
	fx := newOrgFixture(newFakeEmployeeRepo(), newFakeDepartmentRepo(facilitiesDepartment()))
	require.NoError(t, fx.issues.Create(context.Background(), &domain.Issue{DepartmentID: 1, StatusID: 1, Description: "open"}))

	err := fx.service.DeleteDepartment(context.Background(), adminActor(), 1)
	domainErr := requireDomainError(t, err, "CONFLICT")

	assert.Equal(t, int64(1), domainErr.Details["issue_count"])
	assert.Contains(t, fx.departments.departments, int64(1))
}

func TestDeleteDepartmentWithoutIssues(t *testing.T) {
	fx := newOrgFixture(newFakeEmployeeRepo(), newFakeDepartmentRepo(facilitiesDepartment()))

	require.NoError(t, fx.service.DeleteDepartment(context.Background(), adminActor(), 1))
	assert.Empty(t, fx.departments.departments)
}

func TestDeleteStatusProtectsDefault(t *testing.T) {
	fx := newOrgFixture(newFakeEmployeeRepo(), newFakeDepartmentRepo())

	err := fx.service.DeleteStatus(context.Background(), adminActor(), domain.DefaultStatusID)
	requireDomainError(t, err, "CONFLICT")
	assert.Contains(t, fx.statuses.statuses, domain.DefaultStatusID)
}

func TestListDepartmentsIsPublic(t *testing.T) {
	fx := newOrgFixture(newFakeEmployeeRepo(), newFakeDepartmentRepo(facilitiesDepartment()))

	departments, err := fx.service.ListDepartments(context.Background())
	require.NoError(t, err)
	assert.Len(t, departments, 1)
}

func TestListRolesRequiresAdmin(t *testing.T) {
	fx := newOrgFixture(newFakeEmployeeRepo(), newFakeDepartmentRepo())

	_, err := fx.service.ListRoles(context.Background(), employeeActor())
	requireDomainError(t, err, "FORBIDDEN")
}
