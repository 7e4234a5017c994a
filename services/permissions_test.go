package services

import (
	"testing"

	"github.com/taskboard-simple/models"
)

func uintPtr(v uint) *uint { return &v }

func TestProjectPredicates(t *testing.T) {
	const owner, member, assignee, stranger = 1, 2, 3, 4
	project := models.Project{
		ID:      10,
		OwnerID: owner,
		Members: []models.User{{ID: owner}, {ID: member}},
		Tasks:   []models.Task{{ID: 100, AssignedToID: uintPtr(assignee)}, {ID: 101}},
	}

	tests := []struct {
		name   string
		user   uint
		view   bool
		edit   bool
		delete bool
	}{
		{"owner", owner, true, true, true},
		{"member", member, true, false, false},
		{"assignee", assignee, true, false, false},
		{"stranger", stranger, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanViewProject(tt.user, project); got != tt.view {
				t.Errorf("CanViewProject = %v, want %v", got, tt.view)
			}
			if got := CanEditProject(tt.user, project); got != tt.edit {
				t.Errorf("CanEditProject = %v, want %v", got, tt.edit)
			}
			if got := CanDeleteProject(tt.user, project); got != tt.delete {
				t.Errorf("CanDeleteProject = %v, want %v", got, tt.delete)
			}
			if got := CanManageMembers(tt.user, project); got != tt.edit {
				t.Errorf("CanManageMembers = %v, want %v", got, tt.edit)
			}
		})
	}
}

func TestProjectPredicates_OwnerRemovedFromMembersStillOwns(t *testing.T) {
	project := models.Project{OwnerID: 1}
	if !CanViewProject(1, project) || !CanEditProject(1, project) {
		t.Fatalf("owner must keep rights without being a member")
	}
}

func TestTaskPredicates(t *testing.T) {
	const owner, assignee, member = 1, 2, 3
	task := models.Task{
		Project:      models.Project{OwnerID: owner, Members: []models.User{{ID: member}}},
		AssignedToID: uintPtr(assignee),
	}

	tests := []struct {
		name   string
		user   uint
		view   bool
		edit   bool
		status bool
	}{
		{"owner", owner, true, true, false},
		{"assignee", assignee, true, false, true},
		{"member", member, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanViewTask(tt.user, task); got != tt.view {
				t.Errorf("CanViewTask = %v, want %v", got, tt.view)
			}
			if got := CanEditTask(tt.user, task); got != tt.edit {
				t.Errorf("CanEditTask = %v, want %v", got, tt.edit)
			}
			if got := CanDeleteTask(tt.user, task); got != tt.edit {
				t.Errorf("CanDeleteTask = %v, want %v", got, tt.edit)
			}
			if got := CanUpdateTaskStatus(tt.user, task); got != tt.status {
				t.Errorf("CanUpdateTaskStatus = %v, want %v", got, tt.status)
			}
		})
	}
}

func TestCanUpdateTaskStatus_Unassigned(t *testing.T) {
	task := models.Task{Project: models.Project{OwnerID: 1}}
	if CanUpdateTaskStatus(1, task) {
		t.Fatalf("nobody may update the status of an unassigned task through this path")
	}
}
