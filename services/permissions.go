package services

import "github.com/taskboard-simple/models"

// Access-control predicates. They are pure: every decision is made from the
// acting user id and the entity as loaded by the caller.

// CanViewProject reports whether userID owns the project, is a member, or is
// assigned to any of its tasks. project must have Members and Tasks loaded.
func CanViewProject(userID uint, project models.Project) bool {
	if project.OwnerID == userID || project.HasMember(userID) {
		return true
	}
	for _, task := range project.Tasks {
		if task.IsAssignedTo(userID) {
			return true
		}
	}
	return false
}

// CanEditProject reports whether userID owns the project
func CanEditProject(userID uint, project models.Project) bool {
	return project.OwnerID == userID
}

// CanDeleteProject reports whether userID owns the project
func CanDeleteProject(userID uint, project models.Project) bool {
	return project.OwnerID == userID
}

// CanManageMembers reports whether userID may add or remove members
func CanManageMembers(userID uint, project models.Project) bool {
	return project.OwnerID == userID
}

// CanViewTask reports whether userID owns the task's project or is its
// assignee. task must have Project loaded.
func CanViewTask(userID uint, task models.Task) bool {
	return task.Project.OwnerID == userID || task.IsAssignedTo(userID)
}

// CanEditTask reports whether userID owns the task's project
func CanEditTask(userID uint, task models.Task) bool {
	return task.Project.OwnerID == userID
}

// CanDeleteTask reports whether userID owns the task's project
func CanDeleteTask(userID uint, task models.Task) bool {
	return task.Project.OwnerID == userID
}

// CanUpdateTaskStatus reports whether userID is the task's assignee.
// The project owner is deliberately not included.
func CanUpdateTaskStatus(userID uint, task models.Task) bool {
	return task.IsAssignedTo(userID)
}
