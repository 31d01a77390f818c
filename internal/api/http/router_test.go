package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/incident-service/internal/api/http/handlers"
	"github.com/spec-kit/incident-service/internal/auth"
	"github.com/spec-kit/incident-service/internal/config"
	"github.com/spec-kit/incident-service/internal/domain"
	"github.com/spec-kit/incident-service/internal/events"
	"github.com/spec-kit/incident-service/internal/observability"
	"github.com/spec-kit/incident-service/internal/persistence"
	"github.com/spec-kit/incident-service/internal/service"
)

type stubIssueRepo struct {
	nextID int64
	issues map[int64]*domain.Issue
}

func (s *stubIssueRepo) Create(_ context.Context, issue *domain.Issue) error {
	s.nextID++
	issue.ID = s.nextID
	s.issues[issue.ID] = issue
	return nil
}

func (s *stubIssueRepo) GetByID(_ context.Context, id int64) (*domain.Issue, error) {
	issue, ok := s.issues[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return issue, nil
}

func (s *stubIssueRepo) UpdateStatus(_ context.Context, id, statusID int64) error {
	issue, ok := s.issues[id]
	if !ok {
		return pgx.ErrNoRows
	}
	issue.StatusID = statusID
	return nil
}

func (s *stubIssueRepo) ListDetailed(_ context.Context) ([]domain.IssueView, error) {
	result := make([]domain.IssueView, 0, len(s.issues))
	for _, issue := range s.issues {
		result = append(result, domain.IssueView{Issue: *issue})
	}
	return result, nil
}

func (s *stubIssueRepo) CountByDepartment(_ context.Context, _ int64) (int64, error) {
	return int64(len(s.issues)), nil
}

type stubDepartmentRepo struct {
	departments map[int64]*domain.Department
}

func (s *stubDepartmentRepo) Create(_ context.Context, dept *domain.Department) error {
	dept.ID = int64(len(s.departments) + 1)
	s.departments[dept.ID] = dept
	return nil
}

func (s *stubDepartmentRepo) Update(_ context.Context, dept *domain.Department) error {
	s.departments[dept.ID] = dept
	return nil
}

func (s *stubDepartmentRepo) Delete(_ context.Context, id int64) error {
	delete(s.departments, id)
	return nil
}

func (s *stubDepartmentRepo) GetByID(_ context.Context, id int64) (*domain.Department, error) {
	dept, ok := s.departments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return dept, nil
}

func (s *stubDepartmentRepo) List(_ context.Context) ([]domain.Department, error) {
	result := make([]domain.Department, 0, len(s.departments))
	for _, dept := range s.departments {
		result = append(result, *dept)
	}
	return result, nil
}

func (s *stubDepartmentRepo) CountByResponsible(_ context.Context, _ int64) (int64, error) {
	return 0, nil
}

type stubStatusRepo struct {
	statuses map[int64]*domain.Status
}

func (s *stubStatusRepo) Create(_ context.Context, status *domain.Status) error {
	status.ID = int64(len(s.statuses) + 1)
	s.statuses[status.ID] = status
	return nil
}

func (s *stubStatusRepo) Update(_ context.Context, status *domain.Status) error {
	s.statuses[status.ID] = status
	return nil
}

func (s *stubStatusRepo) Delete(_ context.Context, id int64) error {
	delete(s.statuses, id)
	return nil
}

func (s *stubStatusRepo) GetByID(_ context.Context, id int64) (*domain.Status, error) {
	status, ok := s.statuses[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return status, nil
}

func (s *stubStatusRepo) List(_ context.Context) ([]domain.Status, error) {
	result := make([]domain.Status, 0, len(s.statuses))
	for _, status := range s.statuses {
		result = append(result, *status)
	}
	return result, nil
}

type stubEmployeeRepo struct {
	employees map[int64]*domain.Employee
}

func (s *stubEmployeeRepo) Create(_ context.Context, employee *domain.Employee) error {
	employee.ID = int64(len(s.employees) + 1)
	s.employees[employee.ID] = employee
	return nil
}

func (s *stubEmployeeRepo) Update(_ context.Context, employee *domain.Employee) error {
	s.employees[employee.ID] = employee
	return nil
}

func (s *stubEmployeeRepo) Delete(_ context.Context, id int64) error {
	delete(s.employees, id)
	return nil
}

func (s *stubEmployeeRepo) GetByID(_ context.Context, id int64) (*domain.Employee, error) {
	employee, ok := s.employees[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return employee, nil
}

func (s *stubEmployeeRepo) GetByLogin(_ context.Context, login string) (*domain.Employee, error) {
	for _, employee := range s.employees {
		if employee.Login == login {
			return employee, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *stubEmployeeRepo) List(_ context.Context) ([]domain.Employee, error) {
	result := make([]domain.Employee, 0, len(s.employees))
	for _, employee := range s.employees {
		result = append(result, *employee)
	}
	return result, nil
}

type stubRoleRepo struct{}

func (stubRoleRepo) GetByID(_ context.Context, id int64) (*domain.Role, error) {
	switch id {
	case 1:
		return &domain.Role{ID: 1, Name: domain.RoleAdmin}, nil
	case 2:
		return &domain.Role{ID: 2, Name: domain.RoleEmployee}, nil
	}
	return nil, pgx.ErrNoRows
}

func (stubRoleRepo) List(_ context.Context) ([]domain.Role, error) {
	return []domain.Role{{ID: 1, Name: domain.RoleAdmin}, {ID: 2, Name: domain.RoleEmployee}}, nil
}

type stubSink struct{ result bool }

func (s stubSink) Send(_ context.Context, _, _ string) bool { return s.result }

type testApp struct {
	app         *fiber.App
	authService *service.AuthService
	admin       *domain.Employee
	employee    *domain.Employee
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	telegram := "12345"
	adminHash, err := auth.HashPassword("admin-pass", 4)
	require.NoError(t, err)
	admin := &domain.Employee{ID: 1, Name: "Alice", Surname: "Admin", RoleID: 1, RoleName: domain.RoleAdmin, Login: "alice", PasswordHash: adminHash}
	employee := &domain.Employee{ID: 2, Name: "Bob", Surname: "Worker", RoleID: 2, RoleName: domain.RoleEmployee, Login: "bob", TelegramID: &telegram}

	employeeRepo := &stubEmployeeRepo{employees: map[int64]*domain.Employee{admin.ID: admin, employee.ID: employee}}
	departmentRepo := &stubDepartmentRepo{departments: map[int64]*domain.Department{
		1: {ID: 1, Name: "Facilities", Floor: 2, ResponsibleEmployeeID: 2, Responsible: employee},
	}}
	statusRepo := &stubStatusRepo{statuses: map[int64]*domain.Status{
		1: {ID: 1, Name: "New"},
		2: {ID: 2, Name: "In Progress"},
	}}
	issueRepo := &stubIssueRepo{issues: map[int64]*domain.Issue{}}

	cfg := config.Config{Auth: config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 5, BcryptCost: 4}}
	denylist := auth.NewTokenDenylist(nil)
	authService := service.NewAuthService(cfg, service.AuthDependencies{EmployeeRepo: employeeRepo, Denylist: denylist})
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), employeeRepo, denylist)

	issueService := service.NewIssueService(service.IssueDependencies{
		IssueRepo:      issueRepo,
		DepartmentRepo: departmentRepo,
		StatusRepo:     statusRepo,
		Sink:           stubSink{result: true},
		Dispatcher:     events.NewInMemoryDispatcher(),
	})
	orgService := service.NewOrgService(cfg, service.OrgDependencies{
		EmployeeRepo:   employeeRepo,
		DepartmentRepo: departmentRepo,
		RoleRepo:       stubRoleRepo{},
		StatusRepo:     statusRepo,
		IssueRepo:      issueRepo,
	})

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("incident-service", "test", &persistence.Postgres{}, &persistence.Redis{}),
		Issues:         handlers.NewIssuesHandler(issueService),
		Departments:    handlers.NewDepartmentsHandler(orgService),
		Employees:      handlers.NewEmployeesHandler(orgService),
		Statuses:       handlers.NewStatusesHandler(orgService),
		Roles:          handlers.NewRolesHandler(orgService),
		Auth:           handlers.NewAuthHandler(authService),
		AuthMiddleware: authMiddleware,
	})

	return &testApp{app: app, authService: authService, admin: admin, employee: employee}
}

func (ta *testApp) request(t *testing.T, method, path, body, token string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (ta *testApp) tokenFor(t *testing.T, employee *domain.Employee) string {
	t.Helper()
	token, _, err := ta.authService.TokenManager().GenerateToken(employee.ID, employee.RoleName)
	require.NoError(t, err)
	return token
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return payload
}

func TestCreateIssueEndpoint(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.request(t, fiber.MethodPost, "/api/issues", `{"department_id":1,"description":"Printer jam"}`, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	payload := decodeBody(t, resp)
	assert.Equal(t, float64(1), payload["id"])
	assert.Equal(t, true, payload["notification_sent"])
}

func TestCreateIssueValidationEnvelope(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.request(t, fiber.MethodPost, "/api/issues", `{}`, "")
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	payload := decodeBody(t, resp)
	errObj, ok := payload["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_FAILED", errObj["code"])
	details, ok := errObj["details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "required", details["department_id"])
	assert.Equal(t, "required", details["description"])
}

func TestCreateIssueRejectsEmptyBody(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.request(t, fiber.MethodPost, "/api/issues", "", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListIssuesRequiresAuthentication(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.request(t, fiber.MethodGet, "/api/issues", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestListIssuesRejectsNonAdmin(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.request(t, fiber.MethodGet, "/api/issues", "", ta.tokenFor(t, ta.employee))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestListIssuesAsAdmin(t *testing.T) {
	ta := newTestApp(t)

	created := ta.request(t, fiber.MethodPost, "/api/issues", `{"department_id":1,"description":"Printer jam"}`, "")
	require.Equal(t, http.StatusCreated, created.StatusCode)
	created.Body.Close()

	resp := ta.request(t, fiber.MethodGet, "/api/issues", "", ta.tokenFor(t, ta.admin))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	var items []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	assert.Len(t, items, 1)
}

func TestTransitionStatusEndpoint(t *testing.T) {
	ta := newTestApp(t)

	created := ta.request(t, fiber.MethodPost, "/api/issues", `{"department_id":1,"description":"Printer jam"}`, "")
	require.Equal(t, http.StatusCreated, created.StatusCode)
	created.Body.Close()

	resp := ta.request(t, fiber.MethodPut, "/api/issues/1", `{"new_status_id":2}`, ta.tokenFor(t, ta.admin))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	payload := decodeBody(t, resp)
	assert.Equal(t, float64(2), payload["new_status_id"])
}

func TestDepartmentsArePublic(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.request(t, fiber.MethodGet, "/api/departments", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	var items []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	require.Len(t, items, 1)
	assert.Equal(t, "Facilities", items[0]["name"])
}

func TestDepartmentMutationsRequireAdmin(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.request(t, fiber.MethodPost, "/api/departments", `{"name":"IT","floor":1,"responsible_employee_id":2}`, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = ta.request(t, fiber.MethodPost, "/api/departments", `{"name":"IT","floor":1,"responsible_employee_id":2}`, ta.tokenFor(t, ta.employee))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = ta.request(t, fiber.MethodPost, "/api/departments", `{"name":"IT","floor":1,"responsible_employee_id":2}`, ta.tokenFor(t, ta.admin))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestStatusesArePublic(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.request(t, fiber.MethodGet, "/api/statuses", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLoginEndpoint(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.request(t, fiber.MethodPost, "/api/auth/login", `{"login":"alice","password":"admin-pass"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	payload := decodeBody(t, resp)
	assert.NotEmpty(t, payload["token"])

	resp = ta.request(t, fiber.MethodPost, "/api/auth/login", `{"login":"alice","password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestEmployeeResponsesNeverExposePasswordHash(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.request(t, fiber.MethodGet, "/api/employees/1", "", ta.tokenFor(t, ta.admin))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	payload := decodeBody(t, resp)
	assert.NotContains(t, payload, "password")
	assert.NotContains(t, payload, "password_hash")
}

func TestHealthLive(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.request(t, fiber.MethodGet, "/health/live", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	payload := decodeBody(t, resp)
	assert.Equal(t, "alive", payload["status"])
}

func TestHealthReadyReportsUnavailableDependencies(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.request(t, fiber.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
