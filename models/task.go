package models

import (
	"time"
)

// TaskStatus is the progress of a task. Any value may follow any other.
type TaskStatus string

const (
	TaskStatusNotStarted TaskStatus = "Not Started"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusCompleted  TaskStatus = "Completed"
)

// TaskStatuses lists the valid statuses in display order
var TaskStatuses = []TaskStatus{
	TaskStatusNotStarted,
	TaskStatusInProgress,
	TaskStatusCompleted,
}

// Valid reports whether s is one of the known statuses
func (s TaskStatus) Valid() bool {
	for _, known := range TaskStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Task is a unit of work inside a project
type Task struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	ProjectID    uint       `json:"projectId" gorm:"not null;index"`
	Name         string     `json:"name" gorm:"size:100;not null"`
	Description  string     `json:"description" gorm:"type:text;not null"`
	AssignedToID *uint      `json:"assignedToId" gorm:"index"`
	Status       TaskStatus `json:"status" gorm:"type:varchar(20);not null"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`

	// Relations
	Project    Project `json:"project,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	AssignedTo *User   `json:"assignedTo,omitempty" gorm:"foreignKey:AssignedToID;constraint:OnDelete:SET NULL"`
}

// IsAssignedTo reports whether the task is assigned to userID
func (t Task) IsAssignedTo(userID uint) bool {
	return t.AssignedToID != nil && *t.AssignedToID == userID
}
