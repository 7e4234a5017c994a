package repositories

import (
	"github.com/taskboard-simple/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProjectRepository handles database operations for projects
type ProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository instance
func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// FindByID retrieves a project by its ID with owner and members
func (r *ProjectRepository) FindByID(id uint) (models.Project, error) {
	var project models.Project
	result := r.db.
		Preload("Owner").
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("users.id") }).
		First(&project, "id = ?", id)
	return project, result.Error
}

// WithTasks loads a project with owner, members and tasks (with assignees)
func (r *ProjectRepository) WithTasks(id uint) (models.Project, error) {
	var project models.Project
	result := r.db.
		Preload("Owner").
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("users.id") }).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("tasks.id") }).
		Preload("Tasks.AssignedTo").
		First(&project, "id = ?", id)
	return project, result.Error
}

// FindVisibleTo returns every project userID owns, belongs to, or holds a
// task in, each once, ordered by id.
func (r *ProjectRepository) FindVisibleTo(userID uint) ([]models.Project, error) {
	memberOf := r.db.Table("project_members").Select("project_id").Where("user_id = ?", userID)
	assignedIn := r.db.Model(&models.Task{}).Select("project_id").Where("assigned_to_id = ?", userID)

	var projects []models.Project
	result := r.db.
		Preload("Owner").
		Where("owner_id = ?", userID).
		Or("id IN (?)", memberOf).
		Or("id IN (?)", assignedIn).
		Order("id").
		Find(&projects)
	return projects, result.Error
}

// Create inserts a project and records the given members in one transaction
func (r *ProjectRepository) Create(project models.Project, members []models.User) (models.Project, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&project).Error; err != nil {
			return err
		}
		if len(members) == 0 {
			return nil
		}
		return tx.Model(&project).Association("Members").Append(members)
	})
	return project, err
}

// Update persists name and description; owner and members are left untouched.
// A project deleted in the meantime yields gorm.ErrRecordNotFound.
func (r *ProjectRepository) Update(project models.Project) error {
	result := r.db.Model(&models.Project{ID: project.ID}).
		Select("Name", "Description").
		Updates(&project)
	return affectedOne(result)
}

// Delete removes a project, its tasks and its memberships
func (r *ProjectRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return cascadeDeleteProjects(tx, []uint{id})
	})
}

// AddMember adds userID to the project's members; existing rows are kept
func (r *ProjectRepository) AddMember(projectID uint, user models.User) error {
	project := models.Project{ID: projectID}
	return r.db.Model(&project).Association("Members").Append(&user)
}

// RemoveMember drops userID from the project's members
func (r *ProjectRepository) RemoveMember(projectID, userID uint) error {
	return r.db.Exec("DELETE FROM project_members WHERE project_id = ? AND user_id = ?", projectID, userID).Error
}

// Exists checks if a project exists
func (r *ProjectRepository) Exists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Project{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// affectedOne turns an update that matched no row into gorm.ErrRecordNotFound
func affectedOne(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
