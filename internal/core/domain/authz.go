package domain

// DepartmentScoped is implemented by any resource carrying an optional
// department assignment. An empty ID means the resource is unassigned.
type DepartmentScoped interface {
	ResourceDepartmentID() string
}

// CanModify decides whether the actor may edit the resource or adjust its
// stock. Managers may modify anything. Staff are restricted to resources in
// their own department, so an unassigned resource is off-limits to every
// staff member. This check gates UI actions only; the backend enforces the
// same rule authoritatively.
func CanModify(actor *Actor, resource DepartmentScoped) bool {
	if actor == nil {
		return false
	}
	switch actor.Role {
	case RoleManager:
		return true
	case RoleStaff:
		dept := actor.DepartmentID()
		if dept == "" || resource == nil {
			return false
		}
		return resource.ResourceDepartmentID() == dept
	default:
		return false
	}
}

// CanDelete decides whether the actor may delete a resource. Deletion is
// manager-only, regardless of department.
func CanDelete(actor *Actor) bool {
	return actor != nil && actor.Role == RoleManager
}
