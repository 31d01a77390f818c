package dto

// EmployeeRequest payload for admin employee management.
type EmployeeRequest struct {
	Name        string  `json:"name"`
	Surname     string  `json:"surname"`
	RoleID      int64   `json:"role_id"`
	PhoneNumber *string `json:"phone_number"`
	TelegramID  *string `json:"telegram_id"`
	Login       string  `json:"login"`
	Password    string  `json:"password"`
}

// EmployeeResponse never carries the password hash.
type EmployeeResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Surname     string  `json:"surname"`
	Role        string  `json:"role"`
	PhoneNumber *string `json:"phone_number"`
	TelegramID  *string `json:"telegram_id"`
	Login       string  `json:"login"`
}

// DepartmentRequest payload for admin department management.
type DepartmentRequest struct {
	Name                  string `json:"name"`
	Floor                 int    `json:"floor"`
	ResponsibleEmployeeID int64  `json:"responsible_employee_id"`
}

// RoleResponse reference entry.
type RoleResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// StatusRequest payload for status management.
type StatusRequest struct {
	Name string `json:"name"`
}
