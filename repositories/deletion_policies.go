package repositories

import (
	"fmt"

	"gorm.io/gorm"
)

// DeletionPolicy names what happens to dependent rows when a parent is deleted.
// The same policies are declared as foreign key constraints on the models;
// they are applied here explicitly so behaviour does not depend on the
// driver enforcing them.
type DeletionPolicy string

const (
	PolicyCascade DeletionPolicy = "cascade"
	PolicySetNull DeletionPolicy = "set-null"
)

// Relationship policies applied by the repositories
var (
	ProjectTasksPolicy      = PolicyCascade // Project -> Task
	ProjectMembersPolicy    = PolicyCascade // Project -> project_members
	UserAssignedTasksPolicy = PolicySetNull // User -> Task.AssignedTo
	UserOwnedProjectsPolicy = PolicyCascade // User -> Project.Owner
	UserMembershipsPolicy   = PolicyCascade // User -> project_members
)

// OnDelete returns the SQL referential action matching the policy
func (p DeletionPolicy) OnDelete() string {
	switch p {
	case PolicyCascade:
		return "CASCADE"
	case PolicySetNull:
		return "SET NULL"
	default:
		return ""
	}
}

// dependents is a table column referencing a parent row
type dependents struct {
	table  string
	column string
}

var (
	projectTasks       = dependents{"tasks", "project_id"}
	projectMemberships = dependents{"project_members", "project_id"}
	assignedTasks      = dependents{"tasks", "assigned_to_id"}
	ownedProjects      = dependents{"projects", "owner_id"}
	userMemberships    = dependents{"project_members", "user_id"}
)

// apply runs the policy against the rows of d referencing any of parentIDs
func (p DeletionPolicy) apply(tx *gorm.DB, d dependents, parentIDs []uint) error {
	if len(parentIDs) == 0 {
		return nil
	}
	switch p {
	case PolicyCascade:
		return tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE %s IN ?", d.table, d.column), parentIDs).Error
	case PolicySetNull:
		return tx.Table(d.table).Where(d.column+" IN ?", parentIDs).Update(d.column, nil).Error
	default:
		return fmt.Errorf("unknown deletion policy %q for %s.%s", p, d.table, d.column)
	}
}

// cascadeDeleteProjects removes the given projects after applying the
// project policies to their tasks and membership rows.
func cascadeDeleteProjects(tx *gorm.DB, projectIDs []uint) error {
	if len(projectIDs) == 0 {
		return nil
	}
	if err := ProjectTasksPolicy.apply(tx, projectTasks, projectIDs); err != nil {
		return err
	}
	if err := ProjectMembersPolicy.apply(tx, projectMemberships, projectIDs); err != nil {
		return err
	}
	return tx.Exec("DELETE FROM projects WHERE id IN ?", projectIDs).Error
}

// releaseUser applies the user policies to everything referencing userID
func releaseUser(tx *gorm.DB, userID uint) error {
	ids := []uint{userID}
	if err := UserAssignedTasksPolicy.apply(tx, assignedTasks, ids); err != nil {
		return err
	}

	// owned projects carry their own dependents, so a cascade goes through
	// the project policies first
	if UserOwnedProjectsPolicy == PolicyCascade {
		var owned []uint
		if err := tx.Table(ownedProjects.table).Where(ownedProjects.column+" = ?", userID).Pluck("id", &owned).Error; err != nil {
			return err
		}
		if err := cascadeDeleteProjects(tx, owned); err != nil {
			return err
		}
	} else if err := UserOwnedProjectsPolicy.apply(tx, ownedProjects, ids); err != nil {
		return err
	}

	return UserMembershipsPolicy.apply(tx, userMemberships, ids)
}
