package domain

const (
	RoleManager = "manager"
	RoleStaff   = "staff"
)

// Department is a structured reference to the organisational unit a user or
// product belongs to.
type Department struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Actor models the authenticated user operating the client.
type Actor struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email,omitempty"`
	Role       string      `json:"role"`
	Department *Department `json:"department,omitempty"`
	IsActive   bool        `json:"is_active"`
}

// DepartmentID returns the actor's department assignment, or "" when the
// actor has none.
func (a *Actor) DepartmentID() string {
	if a == nil || a.Department == nil {
		return ""
	}
	return a.Department.ID
}

// Clone returns a deep copy so callers can never mutate stored session state
// through a returned pointer.
func (a *Actor) Clone() *Actor {
	if a == nil {
		return nil
	}
	clone := *a
	if a.Department != nil {
		dept := *a.Department
		clone.Department = &dept
	}
	return &clone
}
