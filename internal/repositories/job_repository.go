package repositories

import (
	"errors"
	"time"

	"workhub_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrJobNotFound = errors.New("job not found")
)

// JobSearchCriteria filters the public job listing.
type JobSearchCriteria struct {
	Query    string `form:"q"`
	City     string `form:"city"`
	Category string `form:"category"`
	JobType  string `form:"job_type"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

type JobRepository interface {
	// CreateConsumingQuota inserts the job and decrements the employer's
	// job-posting quota in one transaction. The decrement is a single
	// conditional UPDATE; ErrQuotaConsumed is returned without inserting
	// when the quota is already zero.
	CreateConsumingQuota(job *models.Job) error

	FindByID(id string) (*models.Job, error)
	Search(criteria JobSearchCriteria) ([]models.Job, int64, error)
	ListByEmployer(employerID string, page, pageSize int) ([]models.Job, int64, error)
	Update(job *models.Job) error
	SetActive(id string, active bool) error
	IncrementViews(id string) error

	// Save-job toggle: presence of the row is the saved state. Returns the
	// resulting state.
	ToggleSaved(jobID, applicantID string) (bool, error)
	ListSavedByApplicant(applicantID string) ([]models.Job, error)

	FindWithDeadlineBetween(from, to time.Time) ([]models.Job, error)
}

type JobRepositoryImpl struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) JobRepository {
	return &JobRepositoryImpl{db: db}
}

func (r *JobRepositoryImpl) CreateConsumingQuota(job *models.Job) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ? AND job_posting_limit > 0", job.EmployerID).
			UpdateColumn("job_posting_limit", gorm.Expr("job_posting_limit - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrQuotaConsumed
		}
		return tx.Create(job).Error
	})
}

func (r *JobRepositoryImpl) FindByID(id string) (*models.Job, error) {
	var job models.Job
	if err := r.db.First(&job, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *JobRepositoryImpl) Search(criteria JobSearchCriteria) ([]models.Job, int64, error) {
	q := r.db.Model(&models.Job{}).Where("is_active = ?", true)

	if criteria.Query != "" {
		pattern := "%" + criteria.Query + "%"
		q = q.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if criteria.City != "" {
		q = q.Where("city = ?", criteria.City)
	}
	if criteria.Category != "" {
		q = q.Where("category = ?", criteria.Category)
	}
	if criteria.JobType != "" {
		q = q.Where("job_type = ?", criteria.JobType)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var jobs []models.Job
	err := q.Order("created_at DESC").
		Offset((criteria.Page - 1) * criteria.PageSize).
		Limit(criteria.PageSize).
		Find(&jobs).Error
	return jobs, total, err
}

func (r *JobRepositoryImpl) ListByEmployer(employerID string, page, pageSize int) ([]models.Job, int64, error) {
	q := r.db.Model(&models.Job{}).Where("employer_id = ?", employerID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var jobs []models.Job
	err := q.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&jobs).Error
	return jobs, total, err
}

func (r *JobRepositoryImpl) Update(job *models.Job) error {
	return r.db.Save(job).Error
}

func (r *JobRepositoryImpl) SetActive(id string, active bool) error {
	res := r.db.Model(&models.Job{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *JobRepositoryImpl) IncrementViews(id string) error {
	return r.db.Model(&models.Job{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

func (r *JobRepositoryImpl) ToggleSaved(jobID, applicantID string) (bool, error) {
	var existing models.SavedJob
	err := r.db.Where("job_id = ? AND applicant_id = ?", jobID, applicantID).
		First(&existing).Error
	if err == nil {
		if err := r.db.Delete(&existing).Error; err != nil {
			return true, err
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	saved := models.SavedJob{JobID: jobID, ApplicantID: applicantID}
	if err := r.db.Create(&saved).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (r *JobRepositoryImpl) ListSavedByApplicant(applicantID string) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.
		Joins("JOIN saved_jobs ON saved_jobs.job_id = jobs.id").
		Where("saved_jobs.applicant_id = ?", applicantID).
		Order("saved_jobs.created_at DESC").
		Find(&jobs).Error
	return jobs, err
}

func (r *JobRepositoryImpl) FindWithDeadlineBetween(from, to time.Time) ([]models.Job, error) {
	var jobs []models.Job
	err := r.db.Where("is_active = ? AND deadline BETWEEN ? AND ?", true, from, to).
		Find(&jobs).Error
	return jobs, err
}
