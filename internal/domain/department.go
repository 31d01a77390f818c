package domain

// Floor bounds for the facility.
const (
	MinFloor = 1
	MaxFloor = 3
)

// Department represents an organizational unit on one floor.
// Every department has exactly one responsible employee.
type Department struct {
	ID                    int64
	Name                  string
	Floor                 int
	ResponsibleEmployeeID int64
	Responsible           *Employee
}
