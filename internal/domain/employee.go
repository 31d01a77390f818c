package domain

// Employee models a staff member who can be responsible for departments.
type Employee struct {
	ID           int64
	Name         string
	Surname      string
	RoleID       int64
	RoleName     string
	PhoneNumber  *string
	TelegramID   *string
	Login        string
	PasswordHash string
}

// IsAdmin reports whether the employee carries the administrator role.
func (e *Employee) IsAdmin() bool {
	return e != nil && e.RoleName == RoleAdmin
}
