package repositories

import (
	"errors"
	"time"

	"workhub_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrAlreadyApplied      = errors.New("already applied to this job")
)

// ApplicationCriteria filters an employer's applicant listing.
type ApplicationCriteria struct {
	Status        models.ApplicationStatus `form:"status"`
	FavouriteOnly bool                     `form:"favourite_only"`
	Page          int                      `form:"page"`
	PageSize      int                      `form:"page_size"`
}

// EmployerStatusCount is one row of the daily application digest.
type EmployerStatusCount struct {
	EmployerID string
	Status     models.ApplicationStatus
	Count      int64
}

type ApplicationRepository interface {
	Create(app *models.Application) error
	FindByID(id string) (*models.Application, error)
	FindByJobAndApplicant(jobID, applicantID string) (*models.Application, error)
	ListByJob(jobID string, criteria ApplicationCriteria) ([]models.Application, int64, error)
	ListByApplicant(applicantID string, page, pageSize int) ([]models.Application, int64, error)
	ListEvents(applicationID string) ([]models.ApplicationStatusEvent, error)

	// Transition overwrites the live status fields and appends the immutable
	// status event in one transaction.
	Transition(app *models.Application, event *models.ApplicationStatusEvent) error

	// SetFavourite is an idempotent set, not a toggle.
	SetFavourite(id string, favourite bool) error

	FindInterviewsBetween(from, to time.Time) ([]models.Application, error)
	CountByEmployerAndStatusSince(since time.Time) ([]EmployerStatusCount, error)
}

type ApplicationRepositoryImpl struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &ApplicationRepositoryImpl{db: db}
}

func (r *ApplicationRepositoryImpl) Create(app *models.Application) error {
	var count int64
	err := r.db.Model(&models.Application{}).
		Where("job_id = ? AND applicant_id = ?", app.JobID, app.ApplicantID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrAlreadyApplied
	}
	return r.db.Create(app).Error
}

func (r *ApplicationRepositoryImpl) FindByID(id string) (*models.Application, error) {
	var app models.Application
	if err := r.db.First(&app, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepositoryImpl) FindByJobAndApplicant(jobID, applicantID string) (*models.Application, error) {
	var app models.Application
	err := r.db.Where("job_id = ? AND applicant_id = ?", jobID, applicantID).
		First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepositoryImpl) ListByJob(jobID string, criteria ApplicationCriteria) ([]models.Application, int64, error) {
	q := r.db.Model(&models.Application{}).Where("job_id = ?", jobID)

	if criteria.Status != "" {
		q = q.Where("status = ?", criteria.Status)
	}
	if criteria.FavouriteOnly {
		q = q.Where("favourite = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var apps []models.Application
	err := q.Order("created_at DESC").
		Offset((criteria.Page - 1) * criteria.PageSize).
		Limit(criteria.PageSize).
		Find(&apps).Error
	return apps, total, err
}

func (r *ApplicationRepositoryImpl) ListByApplicant(applicantID string, page, pageSize int) ([]models.Application, int64, error) {
	q := r.db.Model(&models.Application{}).Where("applicant_id = ?", applicantID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var apps []models.Application
	err := q.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&apps).Error
	return apps, total, err
}

func (r *ApplicationRepositoryImpl) ListEvents(applicationID string) ([]models.ApplicationStatusEvent, error) {
	var events []models.ApplicationStatusEvent
	err := r.db.Where("application_id = ?", applicationID).
		Order("occurred_at ASC").
		Find(&events).Error
	return events, err
}

func (r *ApplicationRepositoryImpl) Transition(app *models.Application, event *models.ApplicationStatusEvent) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(app).Error; err != nil {
			return err
		}
		return tx.Create(event).Error
	})
}

func (r *ApplicationRepositoryImpl) SetFavourite(id string, favourite bool) error {
	res := r.db.Model(&models.Application{}).
		Where("id = ?", id).
		Update("favourite", favourite)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

func (r *ApplicationRepositoryImpl) FindInterviewsBetween(from, to time.Time) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.Where("status = ? AND interview_date BETWEEN ? AND ?",
		models.ApplicationStatusInterview, from, to).
		Find(&apps).Error
	return apps, err
}

func (r *ApplicationRepositoryImpl) CountByEmployerAndStatusSince(since time.Time) ([]EmployerStatusCount, error) {
	var counts []EmployerStatusCount
	err := r.db.Model(&models.Application{}).
		Select("jobs.employer_id AS employer_id, applications.status AS status, COUNT(*) AS count").
		Joins("JOIN jobs ON jobs.id = applications.job_id").
		Where("applications.created_at >= ?", since).
		Group("jobs.employer_id, applications.status").
		Scan(&counts).Error
	return counts, err
}
