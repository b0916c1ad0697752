package repositories

import (
	"encoding/json"
	"errors"
	"time"

	"workhub_backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrQuotaConsumed = errors.New("quota exhausted")
)

// QuotaField names a consumable employer counter on the users table.
type QuotaField string

const (
	// QuotaDailyLimit is granted on plan activation and reported on the
	// profile; no operation spends it server-side, clients enforce it.
	QuotaDailyLimit      QuotaField = "daily_limit"
	QuotaProfileViews    QuotaField = "profile_views"
	QuotaResumeDownloads QuotaField = "resume_downloads"
	QuotaJobPostings     QuotaField = "job_posting_limit"
)

type UserRepository interface {
	Create(user *models.User) error
	FindByID(id string) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	FindByMobile(mobile string) (*models.User, error)
	Update(user *models.User) error
	UpdateFields(id string, fields map[string]interface{}) error
	ListByRole(role models.UserRole, page, pageSize int) ([]models.User, int64, error)

	SetOTP(id, code string, expiry time.Time) error
	ClearOTP(id string) error
	SetStatus(id string, status models.VerificationStatus) error
	SetBlocked(id string, blocked bool) error

	// Entitlement mutations
	GrantEmployerQuota(id string, plan *models.PlanSnapshot) error
	SetEmployeeVerified(id string, verified bool) error
	ClearEmployerSubscription(id string) error

	// ConsumeQuota decrements the counter only if it is still positive,
	// as a single conditional UPDATE. Returns ErrQuotaConsumed when the
	// precondition does not hold.
	ConsumeQuota(id string, field QuotaField) error

	GetPushTokens(id string) ([]string, error)
	SetPushTokens(id string, tokens []string) error
	AddPushToken(id, token string) error
}

type UserRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepositoryImpl) FindByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByMobile(mobile string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "mobile = ?", mobile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Update(user *models.User) error {
	return r.db.Save(user).Error
}

func (r *UserRepositoryImpl) UpdateFields(id string, fields map[string]interface{}) error {
	res := r.db.Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) ListByRole(role models.UserRole, page, pageSize int) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	q := r.db.Model(&models.User{}).Where("role = ?", role)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&users).Error
	return users, total, err
}

func (r *UserRepositoryImpl) SetOTP(id, code string, expiry time.Time) error {
	return r.UpdateFields(id, map[string]interface{}{
		"otp_code":   code,
		"otp_expiry": expiry,
	})
}

func (r *UserRepositoryImpl) ClearOTP(id string) error {
	return r.UpdateFields(id, map[string]interface{}{
		"otp_code":   "",
		"otp_expiry": nil,
	})
}

func (r *UserRepositoryImpl) SetStatus(id string, status models.VerificationStatus) error {
	return r.UpdateFields(id, map[string]interface{}{"status": status})
}

func (r *UserRepositoryImpl) SetBlocked(id string, blocked bool) error {
	return r.UpdateFields(id, map[string]interface{}{"blocked": blocked})
}

// GrantEmployerQuota additively increases the four running counters by the
// activated plan's limits, in one UPDATE.
func (r *UserRepositoryImpl) GrantEmployerQuota(id string, plan *models.PlanSnapshot) error {
	res := r.db.Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"has_subscription":  true,
		"daily_limit":       gorm.Expr("daily_limit + ?", plan.DailyLimit),
		"profile_views":     gorm.Expr("profile_views + ?", plan.ProfileViews),
		"resume_downloads":  gorm.Expr("resume_downloads + ?", plan.ResumeDownloads),
		"job_posting_limit": gorm.Expr("job_posting_limit + ?", plan.JobPostingLimit),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) SetEmployeeVerified(id string, verified bool) error {
	return r.UpdateFields(id, map[string]interface{}{
		"is_verified": verified,
		"status":      models.VerificationVerified,
	})
}

func (r *UserRepositoryImpl) ClearEmployerSubscription(id string) error {
	return r.UpdateFields(id, map[string]interface{}{"has_subscription": false})
}

func (r *UserRepositoryImpl) ConsumeQuota(id string, field QuotaField) error {
	col := string(field)
	res := r.db.Model(&models.User{}).
		Where("id = ? AND "+col+" > 0", id).
		UpdateColumn(col, gorm.Expr(col+" - 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrQuotaConsumed
	}
	return nil
}

func (r *UserRepositoryImpl) GetPushTokens(id string) ([]string, error) {
	user, err := r.FindByID(id)
	if err != nil {
		return nil, err
	}
	if len(user.PushTokens) == 0 {
		return nil, nil
	}
	var tokens []string
	if err := json.Unmarshal(user.PushTokens, &tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

func (r *UserRepositoryImpl) SetPushTokens(id string, tokens []string) error {
	raw, err := json.Marshal(tokens)
	if err != nil {
		return err
	}
	return r.UpdateFields(id, map[string]interface{}{"push_tokens": datatypes.JSON(raw)})
}

func (r *UserRepositoryImpl) AddPushToken(id, token string) error {
	tokens, err := r.GetPushTokens(id)
	if err != nil {
		return err
	}
	for _, t := range tokens {
		if t == token {
			return nil
		}
	}
	return r.SetPushTokens(id, append(tokens, token))
}
