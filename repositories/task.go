package repositories

import (
	"github.com/taskboard-simple/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TaskRepository handles database operations for tasks
type TaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new task repository instance
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// FindByID retrieves a task with its project, the project owner and the assignee
func (r *TaskRepository) FindByID(id uint) (models.Task, error) {
	var task models.Task
	result := r.db.
		Preload("Project").
		Preload("Project.Owner").
		Preload("AssignedTo").
		First(&task, "id = ?", id)
	return task, result.Error
}

// CountByProjectID counts the tasks of a project
func (r *TaskRepository) CountByProjectID(projectID uint) (int64, error) {
	var count int64
	result := r.db.Model(&models.Task{}).Where("project_id = ?", projectID).Count(&count)
	return count, result.Error
}

// Create inserts a new task
func (r *TaskRepository) Create(task models.Task) (models.Task, error) {
	result := r.db.Omit(clause.Associations).Create(&task)
	return task, result.Error
}

// Update writes every editable column of the task; the last writer wins.
// A task deleted in the meantime yields gorm.ErrRecordNotFound.
func (r *TaskRepository) Update(task models.Task) error {
	result := r.db.Model(&models.Task{ID: task.ID}).
		Select("Name", "Description", "AssignedToID", "Status").
		Updates(&task)
	return affectedOne(result)
}

// UpdateStatus writes only the status column
func (r *TaskRepository) UpdateStatus(id uint, status models.TaskStatus) error {
	result := r.db.Model(&models.Task{ID: id}).Update("status", status)
	return affectedOne(result)
}

// Delete removes a task
func (r *TaskRepository) Delete(id uint) error {
	result := r.db.Delete(&models.Task{}, "id = ?", id)
	return result.Error
}
